package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailsage/internal/backend"
	"retailsage/internal/domain"
	"retailsage/internal/receipt"

	"go.uber.org/zap"
)

type fakeSaleGetter struct {
	record *backend.SaleRecord
	err    error
	lastID string
}

func (f *fakeSaleGetter) GetSale(_ context.Context, id string) (*backend.SaleRecord, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func newTestPrintHandler(getter *fakeSaleGetter) *PrintHandler {
	sink := receipt.NewIndirectSink("my.bluetoothprint.scheme", "http://localhost:8080")
	return NewPrintHandler(getter, sink, zap.NewNop())
}

func servePrint(t *testing.T, getter *fakeSaleGetter, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := newTestPrintHandler(getter)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.Print(rec, req)
	return rec
}

func TestPrintMissingSaleID(t *testing.T) {
	rec := servePrint(t, &fakeSaleGetter{}, "/api/print")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "No saleId provided" {
		t.Errorf("body = %v", body)
	}
}

func TestPrintNonNumericSaleID(t *testing.T) {
	rec := servePrint(t, &fakeSaleGetter{}, "/api/print?saleId=abc")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Invalid saleId format" {
		t.Errorf("body = %v", body)
	}
}

func TestPrintSaleNotFound(t *testing.T) {
	// ErrSaleNotFound is what GetSale returns for the backend's 200/null
	// absence signal; a proxy-produced 404 status maps the same way.
	for name, getterErr := range map[string]error{
		"null body": backend.ErrSaleNotFound,
		"404 status": &backend.Error{
			Kind:       backend.ErrKindBackendRejected,
			StatusCode: http.StatusNotFound,
			Message:    "Sale not found",
		},
	} {
		getter := &fakeSaleGetter{err: getterErr}
		rec := servePrint(t, getter, "/api/print?saleId=999")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", name, rec.Code)
		}
		var body map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] != "Sale not found" {
			t.Errorf("%s: body = %v", name, body)
		}
	}
}

func TestPrintBackendFailure(t *testing.T) {
	getter := &fakeSaleGetter{err: &backend.Error{Kind: backend.ErrKindNetwork}}
	rec := servePrint(t, getter, "/api/print?saleId=42")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != true {
		t.Errorf("error flag = %v, want true", body["error"])
	}
	if _, ok := body["message"].(string); !ok {
		t.Errorf("message missing from body: %v", body)
	}
}

func TestPrintServesVendorPayload(t *testing.T) {
	getter := &fakeSaleGetter{record: &backend.SaleRecord{
		Sale: domain.Sale{
			ID: "42",
			Items: []domain.SaleItem{
				{ProductID: 5, Name: "Coffee", Quantity: 3, Price: 2.75},
			},
			Subtotal: 8.25,
			Total:    8.25,
			Date:     time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		},
		Business: domain.BusinessProfile{BusinessName: "SAJ Foods"},
	}}

	// DigitsOf strips the prefix before the backend read.
	rec := servePrint(t, getter, "/api/print?saleId=RS-42")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if getter.lastID != "42" {
		t.Errorf("backend queried with %q, want digits only", getter.lastID)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("payload is not a JSON array: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("payload is empty")
	}
	if entries[0]["content"] != "SAJ Foods" {
		t.Errorf("first entry = %v, want business header", entries[0])
	}
	last := entries[len(entries)-1]
	if last["type"] != float64(2) || last["value"] != "42" {
		t.Errorf("last entry = %v, want barcode", last)
	}
}

func TestPrintURIRebuildsSinkURI(t *testing.T) {
	getter := &fakeSaleGetter{record: &backend.SaleRecord{
		Sale: domain.Sale{ID: "42", Total: 8.25, Date: time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)},
	}}
	handler := newTestPrintHandler(getter)

	req := httptest.NewRequest(http.MethodGet, "/api/print-uri?saleId=42", nil)
	rec := httptest.NewRecorder()
	handler.PrintURI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := "my.bluetoothprint.scheme://" +
		"http%3A%2F%2Flocalhost%3A8080%2Fapi%2Fprint%3FsaleId%3D42"
	if body["uri"] != want {
		t.Errorf("uri = %q, want %q", body["uri"], want)
	}
}

func TestPrintURISaleNotFound(t *testing.T) {
	getter := &fakeSaleGetter{err: backend.ErrSaleNotFound}
	handler := newTestPrintHandler(getter)

	req := httptest.NewRequest(http.MethodGet, "/api/print-uri?saleId=999", nil)
	rec := httptest.NewRecorder()
	handler.PrintURI(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
