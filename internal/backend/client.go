package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"retailsage/internal/config"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a non-JSON error page is kept on the error.
const maxErrorBody = 2048

// TokenSource supplies the bearer token forwarded to the backend. The token
// is an opaque string minted by the backend's own auth endpoints.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource wrapping a fixed token. Useful in tests and
// for anonymous calls (empty string sends no Authorization header).
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// Client is a typed client for the external PHP REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// NewClient creates a backend client. Every request runs under the
// configured timeout.
func NewClient(cfg config.BackendConfig, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

type requestOptions struct {
	anonymous      bool
	idempotencyKey string
}

// do issues a request and decodes the JSON response into out. Error
// classification follows the taxonomy in errors.go.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}, opts requestOptions) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}

	if !opts.anonymous {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return &Error{Kind: ErrKindAuth, Message: "no session token available", Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &Error{Kind: ErrKindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: ErrKindNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// The backend sometimes answers 200 with an HTML or plain-text
		// page; surface the raw text rather than a bare decode error.
		return &Error{
			Kind:    ErrKindMalformedResponse,
			Message: "response was not valid JSON",
			RawBody: truncate(string(raw), maxErrorBody),
			Err:     err,
		}
	}

	return nil
}

// errorFromResponse builds a classified error from a non-2xx response,
// falling back to the raw body text when the payload is not JSON.
func (c *Client) errorFromResponse(status int, raw []byte) error {
	kind := ErrKindBackendRejected
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = ErrKindAuth
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Error != "" {
			message = payload.Error
		}
	}
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}

	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		RawBody:    truncate(string(raw), maxErrorBody),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
