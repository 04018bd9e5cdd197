package billing

import "math"

// Usage relates consumed hours to a contract allotment. All three figures
// come from a single consumed total so they never disagree.
type Usage struct {
	ContractedHours int `json:"contracted_hours"`
	ConsumedHours   int `json:"consumed_hours"`
	RemainingHours  int `json:"remaining_hours"`
	UsagePercentage int `json:"usage_percentage"`
}

// Summarize derives remaining hours and usage percentage, clamping both to
// their valid ranges.
func Summarize(contracted, consumed int) Usage {
	if contracted < 0 {
		contracted = 0
	}
	if consumed < 0 {
		consumed = 0
	}
	return Usage{
		ContractedHours: contracted,
		ConsumedHours:   consumed,
		RemainingHours:  max(0, contracted-consumed),
		UsagePercentage: Percentage(consumed, contracted),
	}
}

// Percentage returns round(part/total*100) clamped to [0, 100], or 0 when
// total is not positive.
func Percentage(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(total) * 100))
	return min(pct, 100)
}
