package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"retailsage/internal/domain"
)

// GetBusinessDetails fetches the merchant profile printed on receipts.
func (c *Client) GetBusinessDetails(ctx context.Context) (*domain.BusinessProfile, error) {
	query := url.Values{"action": {"read"}}

	var profile domain.BusinessProfile
	err := c.do(ctx, http.MethodGet, "/api/business-details.php", query, nil, &profile, requestOptions{})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateBusinessDetails saves the merchant profile.
func (c *Client) UpdateBusinessDetails(ctx context.Context, profile domain.BusinessProfile) error {
	payload := map[string]interface{}{
		"action":           "update",
		"shop_type":        profile.ShopType,
		"business_name":    profile.BusinessName,
		"business_address": profile.BusinessAddress,
		"rc_number":        profile.RCNumber,
		"phone_number":     profile.PhoneNumber,
	}
	return c.do(ctx, http.MethodPost, "/api/business-details.php", nil, payload, nil, requestOptions{})
}

// Backup downloads a full data export (products, sales, spoilage) as raw
// JSON. The caller decides where to store it.
func (c *Client) Backup(ctx context.Context) (json.RawMessage, error) {
	query := url.Values{"action": {"backup"}}

	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/data.php", query, nil, &raw, requestOptions{})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Restore uploads a previously exported backup, overwriting the backend's
// products, sales and spoilage records.
func (c *Client) Restore(ctx context.Context, backup json.RawMessage) error {
	query := url.Values{"action": {"restore"}}
	return c.do(ctx, http.MethodPost, "/api/data.php", query, backup, nil, requestOptions{})
}
