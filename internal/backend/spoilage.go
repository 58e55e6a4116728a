package backend

import (
	"context"
	"net/http"
	"net/url"

	"retailsage/internal/domain"
)

// ListSpoilage fetches all spoilage events.
func (c *Client) ListSpoilage(ctx context.Context) ([]domain.SpoilageEvent, error) {
	query := url.Values{"action": {"read"}}

	var resp struct {
		Spoilage []wireSpoilage `json:"spoilage"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/spoilage.php", query, nil, &resp, requestOptions{}); err != nil {
		return nil, err
	}

	events := make([]domain.SpoilageEvent, 0, len(resp.Spoilage))
	for _, w := range resp.Spoilage {
		ev, err := w.toDomain()
		if err != nil {
			return nil, &Error{Kind: ErrKindMalformedResponse, Message: err.Error()}
		}
		events = append(events, ev)
	}
	return events, nil
}

// CreateSpoilage logs a spoilage event. The backend reduces the product's
// stock as a side effect.
func (c *Client) CreateSpoilage(ctx context.Context, productID, quantity int, reason string) error {
	if reason == "" {
		reason = "Unspecified"
	}
	payload := map[string]interface{}{
		"action":     "create",
		"product_id": productID,
		"quantity":   quantity,
		"reason":     reason,
	}
	return c.do(ctx, http.MethodPost, "/api/spoilage.php", nil, payload, nil, requestOptions{})
}

// DeleteSpoilage removes a spoilage record. Stock is not restored.
func (c *Client) DeleteSpoilage(ctx context.Context, id int) error {
	payload := map[string]interface{}{
		"action": "delete",
		"id":     id,
	}
	return c.do(ctx, http.MethodPost, "/api/spoilage.php", nil, payload, nil, requestOptions{})
}
