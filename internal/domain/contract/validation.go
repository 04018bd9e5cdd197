package contract

import (
	"strings"

	"github.com/rpggio/hourbank/internal/validation"
)

const (
	MinRecurrenceMonths = 1
	MaxRecurrenceMonths = 12
	MaxContractedHours  = 99999
	maxNotesLength      = 2000
)

// Validate checks a contract's fields before it is written.
func Validate(c *Contract) error {
	v := validation.Violations{}
	validation.Required("client_id", c.ClientID, v)
	if c.StartDate.IsZero() {
		v.Add("start_date", "is required")
	}
	if c.EndDate.IsZero() {
		v.Add("end_date", "is required")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		v.Add("end_date", "must be on or after start_date")
	}
	validation.RangeInt("contracted_hours", c.ContractedHours, 0, MaxContractedHours, v)
	validation.MaxLen("notes", c.Notes, maxNotesLength, v)
	validation.RangeInt("recurrence_months", c.RecurrenceMonths, MinRecurrenceMonths, MaxRecurrenceMonths, v)
	return v.Err(ErrInvalidInput)
}

func normalize(c *Contract) {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.Notes = strings.TrimSpace(c.Notes)
	if c.RecurrenceMonths == 0 {
		c.RecurrenceMonths = MinRecurrenceMonths
	}
}
