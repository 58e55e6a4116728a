package receipt

import (
	"fmt"
	"strings"

	"retailsage/internal/domain"
)

// The print-job JSON schema is dictated by the external Bluetooth-printing
// app and must be reproduced exactly: text entries are type 0, barcode
// entries type 2.

// Entry is one element of the vendor print-job array.
type Entry interface {
	entry()
}

// TextEntry is a printed text line. Align: 0 left, 1 center, 2 right.
type TextEntry struct {
	Type    int    `json:"type"`
	Content string `json:"content"`
	Bold    int    `json:"bold"`
	Align   int    `json:"align"`
	Format  int    `json:"format"`
}

func (TextEntry) entry() {}

// BarcodeEntry is a printed barcode.
type BarcodeEntry struct {
	Type   int    `json:"type"`
	Value  string `json:"value"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Align  int    `json:"align"`
}

func (BarcodeEntry) entry() {}

type textOptions struct {
	bold   int
	align  int
	format int
}

func text(content string, opts textOptions) TextEntry {
	return TextEntry{
		Type:    0,
		Content: content,
		Bold:    opts.bold,
		Align:   opts.align,
		Format:  opts.format,
	}
}

func barcode(value string) BarcodeEntry {
	return BarcodeEntry{
		Type:   2,
		Value:  value,
		Width:  150,
		Height: 50,
		Align:  1,
	}
}

// currencyPrefix is rendered before amounts: a plain N for naira.
const currencyPrefix = "N"

// DigitsOf strips every non-digit from a sale id, leaving the numeric part
// the barcode is keyed by.
func DigitsOf(saleID string) string {
	var b strings.Builder
	for _, r := range saleID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildPrintPayload shapes a sale and the merchant profile into the vendor
// print-job array: header, item lines, totals, footer and a barcode keyed by
// the numeric part of the sale id.
func BuildPrintPayload(sale domain.Sale, profile domain.BusinessProfile) []Entry {
	payload := []Entry{}

	// Header
	name := profile.BusinessName
	if name == "" {
		name = "RetailSage"
	}
	address := profile.BusinessAddress
	if address == "" {
		address = "123 Retail St"
	}
	payload = append(payload, text(name, textOptions{bold: 1, align: 1, format: 2}))
	payload = append(payload, text(address, textOptions{align: 1}))
	if profile.RCNumber != "" {
		payload = append(payload, text("RC: "+profile.RCNumber, textOptions{align: 1}))
	}
	if profile.PhoneNumber != "" {
		payload = append(payload, text("Tel: "+profile.PhoneNumber, textOptions{align: 1}))
	}
	payload = append(payload, text(sale.Date.Format("1/2/2006, 3:04:05 PM"), textOptions{align: 1}))
	payload = append(payload, text(" ", textOptions{}))

	// Items
	for _, item := range sale.Items {
		itemTotal := float64(item.Quantity) * item.Price
		line := fmt.Sprintf("%dx %s @ %.2f....%.2f", item.Quantity, item.Name, item.Price, itemTotal)
		payload = append(payload, text(line, textOptions{}))
	}

	payload = append(payload, text(strings.Repeat("-", 32), textOptions{align: 1}))

	// Totals
	payload = append(payload, text(fmt.Sprintf("Subtotal: %s%.2f", currencyPrefix, sale.Total), textOptions{align: 2}))
	payload = append(payload, text(fmt.Sprintf("TOTAL: %s%.2f", currencyPrefix, sale.Total), textOptions{bold: 1, align: 2, format: 1}))

	payload = append(payload, text(" ", textOptions{}))

	// Footer
	payload = append(payload, text("Thank you for your purchase!", textOptions{bold: 1, align: 1}))
	payload = append(payload, text("Powered by RetailSage", textOptions{align: 1, format: 4}))

	payload = append(payload, text(" ", textOptions{}))

	payload = append(payload, barcode(DigitsOf(sale.ID)))

	return payload
}
