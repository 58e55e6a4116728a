package backend

import (
	"context"
	"net/http"
	"net/url"

	"retailsage/internal/domain"
)

// ListProducts fetches the full product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := url.Values{"action": {"read"}}

	var resp struct {
		Products []wireProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products.php", query, nil, &resp, requestOptions{}); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, p.toDomain())
	}
	return products, nil
}

type productPayload struct {
	Action      string  `json:"action"`
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Stock       int     `json:"stock,omitempty"`
	Category    string  `json:"category,omitempty"`
	Barcode     string  `json:"barcode,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// CreateProduct adds a product to the backend inventory.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) error {
	icon := p.Icon
	if icon == "" {
		icon = "PackageOpen"
	}
	payload := productPayload{
		Action:      "create",
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Barcode:     p.Barcode,
		Description: p.Description,
		Icon:        icon,
	}
	return c.do(ctx, http.MethodPost, "/api/products.php", nil, payload, nil, requestOptions{})
}

// UpdateProduct updates an existing product.
func (c *Client) UpdateProduct(ctx context.Context, p domain.Product) error {
	payload := productPayload{
		Action:      "update",
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Barcode:     p.Barcode,
		Description: p.Description,
		Icon:        p.Icon,
	}
	return c.do(ctx, http.MethodPost, "/api/products.php", nil, payload, nil, requestOptions{})
}

// DeleteProduct removes a product from the backend inventory.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	payload := productPayload{Action: "delete", ID: id}
	return c.do(ctx, http.MethodPost, "/api/products.php", nil, payload, nil, requestOptions{})
}
