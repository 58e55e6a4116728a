package receipt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"retailsage/internal/config"
	"retailsage/internal/domain"
)

// Sink turns a completed sale into the custom-scheme URI the external
// Bluetooth-printing app intercepts. The two implementations correspond to
// the two observed payload strategies and are never combined: a deployment
// runs one or the other, selected by configuration.
//
// Navigation to the scheme silently fails when the printing app is not
// installed; there is no callback. Callers keep the raw URI around as a
// manual copy fallback.
type Sink interface {
	PrintURI(sale domain.Sale, profile domain.BusinessProfile) (string, error)
}

// IndirectSink points the printing app at this service's print proxy route,
// which serves the print-job JSON when the app fetches it. The route must be
// reachable by the app without a session token.
type IndirectSink struct {
	scheme  string
	baseURL string
}

func NewIndirectSink(scheme, baseURL string) *IndirectSink {
	return &IndirectSink{
		scheme:  scheme,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *IndirectSink) PrintURI(sale domain.Sale, _ domain.BusinessProfile) (string, error) {
	saleID := DigitsOf(sale.ID)
	if saleID == "" {
		return "", fmt.Errorf("sale id %q has no numeric part", sale.ID)
	}
	target := fmt.Sprintf("%s/api/print?saleId=%s", s.baseURL, saleID)
	return s.scheme + "://" + url.QueryEscape(target), nil
}

// InlineSink embeds the full print-job JSON in the URI. No anonymous backend
// read is needed, at the cost of very long URIs.
type InlineSink struct {
	scheme string
}

func NewInlineSink(scheme string) *InlineSink {
	return &InlineSink{scheme: scheme}
}

func (s *InlineSink) PrintURI(sale domain.Sale, profile domain.BusinessProfile) (string, error) {
	payload := BuildPrintPayload(sale, profile)
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode print payload: %w", err)
	}
	return s.scheme + "://" + url.QueryEscape(string(encoded)), nil
}

// NewSink selects the sink for the configured strategy.
func NewSink(cfg config.PrintConfig) (Sink, error) {
	switch cfg.Strategy {
	case "indirect":
		return NewIndirectSink(cfg.Scheme, cfg.PublicBaseURL), nil
	case "inline":
		return NewInlineSink(cfg.Scheme), nil
	default:
		return nil, fmt.Errorf("unknown print strategy %q", cfg.Strategy)
	}
}
