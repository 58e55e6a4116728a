package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailsage/internal/backend"
	"retailsage/internal/cart"
	"retailsage/internal/checkout"
	"retailsage/internal/domain"
	"retailsage/internal/receipt"

	"go.uber.org/zap"
)

type fakeProductSource struct {
	products map[int]domain.Product
}

func (f *fakeProductSource) Get(id int) (domain.Product, bool) {
	p, ok := f.products[id]
	return p, ok
}

type fakeCommitter struct {
	err      error
	lastCart *cart.Cart
}

func (f *fakeCommitter) Commit(_ context.Context, c *cart.Cart) (*checkout.Receipt, error) {
	f.lastCart = c
	if f.err != nil {
		return nil, f.err
	}
	items := make([]domain.SaleItem, 0, c.Len())
	for _, line := range c.Lines() {
		items = append(items, domain.SaleItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}
	return &checkout.Receipt{
		SaleID:   "1042",
		Items:    items,
		Subtotal: c.Subtotal(),
		Tax:      c.Tax(),
		Total:    c.Total(),
		Date:     time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
	}, nil
}

type fakeProfileSource struct {
	profile domain.BusinessProfile
	err     error
}

func (f *fakeProfileSource) BusinessProfile(_ context.Context) (domain.BusinessProfile, error) {
	return f.profile, f.err
}

func newTestCheckoutHandler(committer *fakeCommitter) *CheckoutHandler {
	products := &fakeProductSource{products: map[int]domain.Product{
		5: {ID: 5, Name: "Coffee", Price: 2.75, Stock: 10},
		7: {ID: 7, Name: "Bread", Price: 1.50, Stock: 2},
	}}
	sink := receipt.NewIndirectSink("my.bluetoothprint.scheme", "http://localhost:8080")
	return NewCheckoutHandler(products, committer, &fakeProfileSource{}, sink, 0, zap.NewNop())
}

func serveCheckout(t *testing.T, handler *CheckoutHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	handler.Checkout(rec, req)
	return rec
}

func TestCheckoutCommitsCartAndReturnsReceipt(t *testing.T) {
	committer := &fakeCommitter{}
	handler := newTestCheckoutHandler(committer)

	rec := serveCheckout(t, handler, `{"items":[{"product_id":5,"quantity":3}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		SaleID   string            `json:"sale_id"`
		Items    []domain.SaleItem `json:"items"`
		Total    float64           `json:"total"`
		PrintURI string            `json:"print_uri"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.SaleID != "1042" {
		t.Errorf("sale_id = %q, want 1042", body.SaleID)
	}
	if len(body.Items) != 1 || body.Items[0].Quantity != 3 {
		t.Errorf("items = %v, want one Coffee line of 3", body.Items)
	}
	if body.Total != 8.25 {
		t.Errorf("total = %v, want 8.25", body.Total)
	}
	if body.PrintURI == "" {
		t.Error("print_uri missing from response")
	}
}

func TestCheckoutClampsQuantityToStock(t *testing.T) {
	committer := &fakeCommitter{}
	handler := newTestCheckoutHandler(committer)

	// Bread has stock 2; the extra units are dropped, not rejected.
	rec := serveCheckout(t, handler, `{"items":[{"product_id":7,"quantity":5}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	lines := committer.lastCart.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Errorf("committed lines = %v, want one Bread line of 2", lines)
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	handler := newTestCheckoutHandler(&fakeCommitter{})

	rec := serveCheckout(t, handler, `{"items":[{"product_id":99,"quantity":1}]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutRejectsEmptyAndMalformedRequests(t *testing.T) {
	handler := newTestCheckoutHandler(&fakeCommitter{})

	for name, payload := range map[string]string{
		"no items":         `{"items":[]}`,
		"missing quantity": `{"items":[{"product_id":5}]}`,
		"not json":         `{`,
	} {
		rec := serveCheckout(t, handler, payload)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestCheckoutBackendFailureIsBadGateway(t *testing.T) {
	committer := &fakeCommitter{err: &backend.Error{
		Kind:    backend.ErrKindNetwork,
		Message: "connection refused",
	}}
	handler := newTestCheckoutHandler(committer)

	rec := serveCheckout(t, handler, `{"items":[{"product_id":5,"quantity":1}]}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
