package domain

// BusinessProfile holds the merchant details printed on receipts.
type BusinessProfile struct {
	ShopType        string `json:"shop_type"`
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	RCNumber        string `json:"rc_number"`
	PhoneNumber     string `json:"phone_number"`
}

// User is a staff account managed by the backend.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
