package billing

import "time"

// ContractStatus classifies a contract period relative to a date.
type ContractStatus string

const (
	StatusActive  ContractStatus = "active"
	StatusFuture  ContractStatus = "future"
	StatusExpired ContractStatus = "expired"
)

// ResolveStatus classifies the closed period [start, end] against asOf.
// Both bounds are inclusive, so the last day of a contract is still active.
func ResolveStatus(start, end, asOf time.Time) ContractStatus {
	day := Day(asOf)
	switch {
	case day.After(Day(end)):
		return StatusExpired
	case day.Before(Day(start)):
		return StatusFuture
	default:
		return StatusActive
	}
}

// DaysUntilExpiry counts the days left until end, rounded up. Zero on the
// last day, negative once expired.
func DaysUntilExpiry(end, asOf time.Time) int {
	return DaysBetween(asOf, end)
}

// ExpiresWithin reports whether end falls within horizon days of asOf,
// counting today.
func ExpiresWithin(end, asOf time.Time, horizon int) bool {
	days := DaysUntilExpiry(end, asOf)
	return days >= 0 && days <= horizon
}
