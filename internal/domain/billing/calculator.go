package billing

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultMinBilledHours is the minimum charge applied to any completed ticket.
	DefaultMinBilledHours = 1
	// DefaultExpiryHorizonDays flags contracts ending within this many days.
	DefaultExpiryHorizonDays = 7
)

// Policy carries the configurable billing rules.
type Policy struct {
	MinBilledHours    int
	ExpiryHorizonDays int
}

// DefaultPolicy returns the stock billing rules.
func DefaultPolicy() Policy {
	return Policy{
		MinBilledHours:    DefaultMinBilledHours,
		ExpiryHorizonDays: DefaultExpiryHorizonDays,
	}
}

// MinimumHours returns the effective minimum charge, never below one hour.
func (p Policy) MinimumHours() int {
	if p.MinBilledHours < 1 {
		return DefaultMinBilledHours
	}
	return p.MinBilledHours
}

// Horizon returns the effective expiring-soon window in days.
func (p Policy) Horizon() int {
	if p.ExpiryHorizonDays < 0 {
		return DefaultExpiryHorizonDays
	}
	return p.ExpiryHorizonDays
}

// BilledHours converts a worked duration into chargeable hours. Partial hours
// round up and the minimum charge always applies.
func (p Policy) BilledHours(durationMinutes int) int {
	minimum := p.MinimumHours()
	if durationMinutes <= 0 {
		return minimum
	}
	hours := (durationMinutes + 59) / 60
	if hours < minimum {
		return minimum
	}
	return hours
}

// CalculateBilledHours applies the default policy to a duration in minutes.
func CalculateBilledHours(durationMinutes int) int {
	return DefaultPolicy().BilledHours(durationMinutes)
}

// CalculateDurationMinutes returns the whole minutes between two wall-clock
// times of the same day, or 0 when end is not after start.
func CalculateDurationMinutes(start, end time.Duration) int {
	diff := int((end - start) / time.Minute)
	if diff <= 0 {
		return 0
	}
	return diff
}

// ParseClock parses an HH:MM or HH:MM:SS wall-clock time into its offset
// from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}
