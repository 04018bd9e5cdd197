package billing_test

import (
	"testing"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	usage := billing.Summarize(40, 8)

	require.Equal(t, 8, usage.ConsumedHours)
	require.Equal(t, 32, usage.RemainingHours)
	require.Equal(t, 20, usage.UsagePercentage)
}

func TestSummarize_ZeroAllotment(t *testing.T) {
	usage := billing.Summarize(0, 5)

	require.Equal(t, 0, usage.RemainingHours)
	require.Equal(t, 0, usage.UsagePercentage)
}

func TestSummarize_Clamps(t *testing.T) {
	over := billing.Summarize(10, 25)
	require.Equal(t, 0, over.RemainingHours)
	require.Equal(t, 100, over.UsagePercentage)

	negative := billing.Summarize(10, -3)
	require.Equal(t, 10, negative.RemainingHours)
	require.Equal(t, 0, negative.UsagePercentage)
}

func TestPercentage_Rounds(t *testing.T) {
	require.Equal(t, 33, billing.Percentage(1, 3))
	require.Equal(t, 67, billing.Percentage(2, 3))
	require.Equal(t, 50, billing.Percentage(1, 2))
}
