package backend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"retailsage/internal/domain"
)

// The PHP backend is schema-less and emits numeric fields inconsistently as
// strings or numbers. FlexFloat and FlexInt accept both forms but reject
// anything else, so malformed records fail the decode instead of silently
// becoming zero.

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", string(data))
	}
	*f = FlexFloat(v)
	return nil
}

type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", string(data))
	}
	*i = FlexInt(v)
	return nil
}

type wireProduct struct {
	ID          FlexInt   `json:"id"`
	Name        string    `json:"name"`
	Price       FlexFloat `json:"price"`
	Stock       FlexInt   `json:"stock"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon"`
	Barcode     string    `json:"barcode"`
	Description string    `json:"description"`
}

func (w wireProduct) toDomain() domain.Product {
	return domain.Product{
		ID:          int(w.ID),
		Name:        w.Name,
		Price:       float64(w.Price),
		Stock:       int(w.Stock),
		Category:    w.Category,
		Icon:        w.Icon,
		Barcode:     w.Barcode,
		Description: w.Description,
	}
}

type wireSaleItem struct {
	ProductID FlexInt   `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  FlexInt   `json:"quantity"`
	Price     FlexFloat `json:"price"`
}

type wireSale struct {
	ID              FlexInt        `json:"id"`
	Total           FlexFloat      `json:"total"`
	Date            string         `json:"date"`
	Items           []wireSaleItem `json:"items"`
	BusinessName    string         `json:"business_name"`
	BusinessAddress string         `json:"business_address"`
	RCNumber        string         `json:"rc_number"`
	PhoneNumber     string         `json:"phone_number"`
}

// saleDateFormats covers the timestamp encodings the backend has been seen
// to emit.
var saleDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseSaleDate(s string) (time.Time, error) {
	for _, layout := range saleDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized sale date %q", s)
}

func (w wireSale) toDomain() (domain.Sale, error) {
	date, err := parseSaleDate(w.Date)
	if err != nil {
		return domain.Sale{}, err
	}

	items := make([]domain.SaleItem, 0, len(w.Items))
	subtotal := 0.0
	for _, it := range w.Items {
		items = append(items, domain.SaleItem{
			ProductID: int(it.ProductID),
			Name:      it.Name,
			Quantity:  int(it.Quantity),
			Price:     float64(it.Price),
		})
		subtotal += float64(it.Quantity) * float64(it.Price)
	}

	return domain.Sale{
		ID:       strconv.Itoa(int(w.ID)),
		Items:    items,
		Subtotal: subtotal,
		Total:    float64(w.Total),
		Date:     date,
	}, nil
}

type wireSpoilage struct {
	ID          FlexInt `json:"id"`
	ProductID   FlexInt `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    FlexInt `json:"quantity"`
	Reason      string  `json:"reason"`
	Date        string  `json:"date"`
}

func (w wireSpoilage) toDomain() (domain.SpoilageEvent, error) {
	date, err := parseSaleDate(w.Date)
	if err != nil {
		return domain.SpoilageEvent{}, err
	}
	return domain.SpoilageEvent{
		ID:          int(w.ID),
		ProductID:   int(w.ProductID),
		ProductName: w.ProductName,
		Quantity:    int(w.Quantity),
		Reason:      w.Reason,
		Date:        date,
	}, nil
}

type wireUser struct {
	ID    FlexInt `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
}

func (w wireUser) toDomain() domain.User {
	return domain.User{
		ID:    int(w.ID),
		Name:  w.Name,
		Email: w.Email,
		Role:  w.Role,
	}
}
