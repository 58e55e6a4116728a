package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"retailsage/internal/domain"
)

// ErrSaleNotFound is returned by GetSale when no sale exists with the given
// id. The backend signals absence with a 200 response carrying a literal
// null body, not a 404.
var ErrSaleNotFound = errors.New("sale not found")

// SaleLine is one item of a create-sale request.
type SaleLine struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateSaleRequest is the payload for committing a sale. The backend owns
// the stock decrement.
type CreateSaleRequest struct {
	Action string     `json:"action"`
	Total  float64    `json:"total"`
	Items  []SaleLine `json:"items"`
}

// SaleRecord pairs a sale with the business details the backend attaches to
// single-sale reads; the print bridge needs both.
type SaleRecord struct {
	Sale     domain.Sale
	Business domain.BusinessProfile
}

// CreateSale persists a sale on the backend and returns the assigned sale
// id. The idempotency key lets a lost confirmation be reconciled later
// instead of re-submitted blindly.
func (c *Client) CreateSale(ctx context.Context, total float64, items []SaleLine, idempotencyKey string) (string, error) {
	req := CreateSaleRequest{Action: "create", Total: total, Items: items}

	var resp struct {
		ID      FlexInt `json:"id"`
		Message string  `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/sales.php", nil, req, &resp, requestOptions{
		idempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", err
	}
	return strconv.Itoa(int(resp.ID)), nil
}

// ListSales fetches all sales.
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	query := url.Values{"action": {"read"}}

	var resp struct {
		Sales []wireSale `json:"sales"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sales.php", query, nil, &resp, requestOptions{}); err != nil {
		return nil, err
	}

	sales := make([]domain.Sale, 0, len(resp.Sales))
	for _, w := range resp.Sales {
		sale, err := w.toDomain()
		if err != nil {
			return nil, &Error{Kind: ErrKindMalformedResponse, Message: err.Error()}
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// GetSale fetches a single sale by numeric id. The backend serves this read
// without a token; the print proxy depends on that.
func (c *Client) GetSale(ctx context.Context, id string) (*SaleRecord, error) {
	query := url.Values{
		"action": {"read_single"},
		"id":     {id},
	}

	var w *wireSale
	err := c.do(ctx, http.MethodGet, "/api/sales.php", query, nil, &w, requestOptions{anonymous: true})
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrSaleNotFound
	}

	sale, err := w.toDomain()
	if err != nil {
		return nil, &Error{Kind: ErrKindMalformedResponse, Message: err.Error()}
	}

	return &SaleRecord{
		Sale: sale,
		Business: domain.BusinessProfile{
			BusinessName:    w.BusinessName,
			BusinessAddress: w.BusinessAddress,
			RCNumber:        w.RCNumber,
			PhoneNumber:     w.PhoneNumber,
		},
	}, nil
}
