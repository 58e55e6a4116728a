package domain

// Product represents a product in the catalog. The external backend owns the
// persistent record; the client holds a read-mostly cached copy.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Barcode     string  `json:"barcode,omitempty"`
	Description string  `json:"description,omitempty"`
}
