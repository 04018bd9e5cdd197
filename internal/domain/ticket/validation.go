package ticket

import (
	"strings"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/validation"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxRequesterLength   = 255
	maxDurationMinutes   = 24 * 60
)

// BillingInput carries the time-tracking fields of a create, update or
// completion request. Nil means "not supplied".
type BillingInput struct {
	StartTime       *string
	EndTime         *string
	DurationMinutes *int
	BilledHours     *int
}

// billingFields is the resolved time-tracking state of a ticket.
type billingFields struct {
	StartTime       *string
	EndTime         *string
	DurationMinutes *int
	BilledHours     int
}

// resolveBilling applies the time-tracking rules for a ticket in status.
// When both times are present the duration is derived from them and any
// supplied duration is ignored. Only completed tickets carry billed hours;
// they come from the explicit value, else from the duration.
func resolveBilling(policy billing.Policy, status Status, in BillingInput, v validation.Violations) billingFields {
	out := billingFields{
		StartTime: cleanClock(in.StartTime),
		EndTime:   cleanClock(in.EndTime),
	}

	var start, end time.Duration
	var startOK, endOK bool
	if out.StartTime != nil {
		d, err := billing.ParseClock(*out.StartTime)
		if err != nil {
			v.Add("start_time", "must be HH:MM")
		} else {
			start, startOK = d, true
		}
	}
	if out.EndTime != nil {
		d, err := billing.ParseClock(*out.EndTime)
		if err != nil {
			v.Add("end_time", "must be HH:MM")
		} else {
			end, endOK = d, true
		}
	}

	switch {
	case startOK && endOK:
		if end <= start {
			v.Add("end_time", "must be after start_time")
			break
		}
		minutes := billing.CalculateDurationMinutes(start, end)
		out.DurationMinutes = &minutes
	case in.DurationMinutes != nil:
		minutes := *in.DurationMinutes
		if minutes < 0 || minutes > maxDurationMinutes {
			v.Add("duration_minutes", "is out of range")
		} else {
			out.DurationMinutes = &minutes
		}
	}

	if status != StatusCompleted {
		if in.BilledHours != nil && *in.BilledHours != 0 {
			v.Add("billed_hours", "can only be set on completed tickets")
		}
		return out
	}

	minimum := policy.MinimumHours()
	switch {
	case in.BilledHours != nil:
		if *in.BilledHours < minimum {
			v.Add("billed_hours", "must be at least the minimum billable hours")
		}
		out.BilledHours = *in.BilledHours
	case out.DurationMinutes != nil && *out.DurationMinutes > 0:
		out.BilledHours = policy.BilledHours(*out.DurationMinutes)
	default:
		v.Add("billed_hours", "is required to complete a ticket")
	}
	return out
}

func validateOpen(title, description, requester string, v validation.Violations) {
	validation.Required("title", title, v)
	validation.MaxLen("title", title, maxTitleLength, v)
	validation.Required("description", description, v)
	validation.MaxLen("description", description, maxDescriptionLength, v)
	validation.MaxLen("requester_name", requester, maxRequesterLength, v)
}

func validateRecord(t *Ticket, v validation.Violations) {
	validation.Required("client_id", t.ClientID, v)
	validation.Required("requester_name", t.RequesterName, v)
	validation.MaxLen("requester_name", t.RequesterName, maxRequesterLength, v)
	validation.MaxLen("title", t.Title, maxTitleLength, v)
	validation.Required("description", t.Description, v)
	validation.MaxLen("description", t.Description, maxDescriptionLength, v)
	if t.ServiceDate.IsZero() {
		v.Add("service_date", "is required")
	}
	if !t.Status.Valid() {
		v.Add("status", "must be open, in_progress or completed")
	}
}

func cleanClock(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
