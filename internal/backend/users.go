package backend

import (
	"context"
	"net/http"
	"net/url"

	"retailsage/internal/domain"
)

// ListUsers fetches all staff accounts.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := url.Values{"action": {"read"}}

	var resp struct {
		Users []wireUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users.php", query, nil, &resp, requestOptions{}); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(resp.Users))
	for _, w := range resp.Users {
		users = append(users, w.toDomain())
	}
	return users, nil
}

// UpdateUser updates a staff account.
func (c *Client) UpdateUser(ctx context.Context, u domain.User) error {
	payload := map[string]interface{}{
		"action": "update",
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"role":   u.Role,
	}
	return c.do(ctx, http.MethodPost, "/api/users.php", nil, payload, nil, requestOptions{})
}

// DeleteUser removes a staff account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	payload := map[string]interface{}{
		"action": "delete",
		"id":     id,
	}
	return c.do(ctx, http.MethodPost, "/api/users.php", nil, payload, nil, requestOptions{})
}
