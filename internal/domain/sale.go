package domain

import "time"

// SaleItem is a single line of a persisted sale.
type SaleItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Sale is an immutable record of a completed transaction. The backend assigns
// the id and is the source of truth for the persisted record.
type Sale struct {
	ID       string     `json:"id"`
	Items    []SaleItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
	Date     time.Time  `json:"date"`
}

// SpoilageEvent is a manual stock-deduction record for damaged or expired
// goods. Deleting an event does not restore stock.
type SpoilageEvent struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	Date        time.Time `json:"date"`
}
