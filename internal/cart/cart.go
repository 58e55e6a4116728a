package cart

import (
	"math"

	"retailsage/internal/domain"
)

// Line is one cart entry: a product snapshot plus a quantity. The snapshot's
// stock value is the ceiling for the quantity; it is captured when the line
// is created and not updated afterwards.
type Line struct {
	Product  domain.Product
	Quantity int
}

// Cart is the ephemeral in-memory collection of lines for the active
// checkout session. It is manipulated by a single session at a time and is
// not safe for concurrent use.
type Cart struct {
	lines   []Line
	taxRate float64
}

// New creates an empty cart. taxRate is the configured sales tax; 0
// disables tax.
func New(taxRate float64) *Cart {
	return &Cart{taxRate: taxRate}
}

// AddLine adds one unit of the product. Out-of-stock products are ignored.
// An existing line is incremented, capped at the stock captured when the
// line was created; attempts beyond the cap are silently dropped.
func (c *Cart) AddLine(p domain.Product) {
	if p.Stock <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Quantity < c.lines[i].Product.Stock {
				c.lines[i].Quantity++
			}
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// SetLineQuantity sets the quantity of an existing line, clamped to
// [0, stock]. A resulting quantity of 0 removes the line. Unknown product
// ids are ignored.
func (c *Cart) SetLineQuantity(productID, quantity int) {
	for i := range c.lines {
		if c.lines[i].Product.ID != productID {
			continue
		}
		if quantity > c.lines[i].Product.Stock {
			quantity = c.lines[i].Product.Stock
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = quantity
		return
	}
}

// Subtotal is the sum of price times quantity over all lines, rounded to
// cents.
func (c *Cart) Subtotal() float64 {
	sum := 0.0
	for _, line := range c.lines {
		sum += line.Product.Price * float64(line.Quantity)
	}
	return roundCents(sum)
}

// Tax is the configured rate applied to the subtotal, rounded to cents.
func (c *Cart) Tax() float64 {
	return roundCents(c.Subtotal() * c.taxRate)
}

// Total is subtotal plus tax.
func (c *Cart) Total() float64 {
	return roundCents(c.Subtotal() + c.Tax())
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// roundCents rounds to two decimals. Money stays in float64 end to end;
// rounding at every observation point keeps display and totals consistent.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
