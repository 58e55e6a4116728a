package receipt

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"retailsage/internal/config"
	"retailsage/internal/domain"
)

func TestIndirectSinkURI(t *testing.T) {
	sink := NewIndirectSink("my.bluetoothprint.scheme", "https://pos.example.com/")

	uri, err := sink.PrintURI(coffeeSale(), domain.BusinessProfile{})
	if err != nil {
		t.Fatalf("PrintURI: %v", err)
	}

	const prefix = "my.bluetoothprint.scheme://"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %q, want %q prefix", uri, prefix)
	}

	target, err := url.QueryUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not query-escaped: %v", err)
	}
	if target != "https://pos.example.com/api/print?saleId=1042" {
		t.Errorf("escaped target = %q, want print route keyed by sale digits", target)
	}
}

func TestIndirectSinkRejectsNonNumericSaleID(t *testing.T) {
	sink := NewIndirectSink("my.bluetoothprint.scheme", "https://pos.example.com")

	sale := coffeeSale()
	sale.ID = "draft"
	if _, err := sink.PrintURI(sale, domain.BusinessProfile{}); err == nil {
		t.Error("expected error for sale id with no digits")
	}
}

func TestInlineSinkEmbedsPayload(t *testing.T) {
	sink := NewInlineSink("my.bluetoothprint.scheme")

	uri, err := sink.PrintURI(coffeeSale(), domain.BusinessProfile{BusinessName: "SAJ Foods"})
	if err != nil {
		t.Fatalf("PrintURI: %v", err)
	}

	raw, err := url.QueryUnescape(strings.TrimPrefix(uri, "my.bluetoothprint.scheme://"))
	if err != nil {
		t.Fatalf("payload is not query-escaped: %v", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("embedded payload is not a JSON array: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("embedded payload is empty")
	}
	if entries[0]["content"] != "SAJ Foods" {
		t.Errorf("first entry content = %v, want business name", entries[0]["content"])
	}
	last := entries[len(entries)-1]
	if last["type"] != float64(2) || last["value"] != "1042" {
		t.Errorf("last entry = %v, want barcode for sale digits", last)
	}
}

func TestNewSinkStrategySelection(t *testing.T) {
	indirect, err := NewSink(config.PrintConfig{Strategy: "indirect", Scheme: "s", PublicBaseURL: "http://x"})
	if err != nil {
		t.Fatalf("indirect: %v", err)
	}
	if _, ok := indirect.(*IndirectSink); !ok {
		t.Errorf("indirect strategy gave %T", indirect)
	}

	inline, err := NewSink(config.PrintConfig{Strategy: "inline", Scheme: "s"})
	if err != nil {
		t.Fatalf("inline: %v", err)
	}
	if _, ok := inline.(*InlineSink); !ok {
		t.Errorf("inline strategy gave %T", inline)
	}

	if _, err := NewSink(config.PrintConfig{Strategy: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
