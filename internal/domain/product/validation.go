package product

import (
	"strings"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/validation"
)

const (
	maxProductNameLength = 255
	maxNotesLength       = 2000
	maxQuantity          = 999999
)

// Validate checks a usage record before it is written.
func Validate(u *Usage) error {
	v := validation.Violations{}
	validation.Required("client_id", u.ClientID, v)
	if _, err := billing.ParseCompetence(u.CompetenceMonth); err != nil {
		v.Add("competence_month", "must be YYYY-MM")
	}
	validation.Required("product_name", u.ProductName, v)
	validation.MaxLen("product_name", u.ProductName, maxProductNameLength, v)
	validation.PositiveFloat("quantity", u.Quantity, v)
	if u.Quantity > maxQuantity {
		v.Add("quantity", "exceeds the limit")
	}
	validation.MaxLen("notes", u.Notes, maxNotesLength, v)
	return v.Err(ErrInvalidInput)
}

func normalize(u *Usage) {
	u.ClientID = strings.TrimSpace(u.ClientID)
	u.CompetenceMonth = strings.TrimSpace(u.CompetenceMonth)
	u.ProductName = strings.TrimSpace(u.ProductName)
	u.Notes = strings.TrimSpace(u.Notes)
}
