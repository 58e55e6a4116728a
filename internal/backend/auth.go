package backend

import (
	"context"
	"net/http"
)

// LoginResult carries the session token and the business profile fields the
// backend returns on a successful login.
type LoginResult struct {
	Token           string `json:"token"`
	ShopType        string `json:"shopType"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	RCNumber        string `json:"rcNumber"`
	PhoneNumber     string `json:"phoneNumber"`
}

// Login authenticates against the backend. The returned token is opaque;
// this client only forwards it.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login.php", nil, payload, &result, requestOptions{anonymous: true})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SignupRequest is the payload for creating a merchant account.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ShopType        string `json:"shopType"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	RCNumber        string `json:"rcNumber"`
	PhoneNumber     string `json:"phoneNumber"`
}

// Signup registers a new merchant account and returns the session token.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup.php", nil, req, &result, requestOptions{anonymous: true})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
