package product

import "time"

// Usage is a quantity of a product attributed to a client for a competence
// month (YYYY-MM). It is informational and independent of contracts.
type Usage struct {
	ID              string    `db:"id" json:"id"`
	ClientID        string    `db:"client_id" json:"client_id"`
	ClientName      string    `db:"client_name" json:"client_name,omitempty"`
	CompetenceMonth string    `db:"competence_month" json:"competence_month"`
	ProductName     string    `db:"product_name" json:"product_name"`
	Quantity        float64   `db:"quantity" json:"quantity"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ListOptions filters product usage listings.
type ListOptions struct {
	ClientID        string
	CompetenceMonth string
}
