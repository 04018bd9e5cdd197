package billing_test

import (
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := billing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestResolveStatus(t *testing.T) {
	start := mustDate(t, "2024-06-01")
	end := mustDate(t, "2024-06-30")

	require.Equal(t, billing.StatusFuture, billing.ResolveStatus(start, end, mustDate(t, "2024-05-31")))
	require.Equal(t, billing.StatusActive, billing.ResolveStatus(start, end, start))
	require.Equal(t, billing.StatusActive, billing.ResolveStatus(start, end, mustDate(t, "2024-06-15")))
	require.Equal(t, billing.StatusActive, billing.ResolveStatus(start, end, end))
	require.Equal(t, billing.StatusExpired, billing.ResolveStatus(start, end, mustDate(t, "2024-07-01")))
}

func TestResolveStatus_ExactlyOneHolds(t *testing.T) {
	start := mustDate(t, "2024-02-10")
	end := mustDate(t, "2024-02-20")
	for d := mustDate(t, "2024-02-01"); d.Before(mustDate(t, "2024-03-01")); d = d.AddDate(0, 0, 1) {
		status := billing.ResolveStatus(start, end, d)
		inside := !d.Before(start) && !d.After(end)
		require.Equal(t, inside, status == billing.StatusActive, d)
		require.Contains(t, []billing.ContractStatus{billing.StatusActive, billing.StatusFuture, billing.StatusExpired}, status)
	}
}

func TestResolveStatus_IgnoresTimeOfDay(t *testing.T) {
	start := mustDate(t, "2024-06-01")
	end := mustDate(t, "2024-06-30")
	lateOnLastDay := time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)

	require.Equal(t, billing.StatusActive, billing.ResolveStatus(start, end, lateOnLastDay))
}

func TestDaysUntilExpiry(t *testing.T) {
	end := mustDate(t, "2024-06-30")

	require.Equal(t, 0, billing.DaysUntilExpiry(end, end))
	require.Equal(t, 7, billing.DaysUntilExpiry(end, mustDate(t, "2024-06-23")))
	require.Equal(t, -1, billing.DaysUntilExpiry(end, mustDate(t, "2024-07-01")))
}

func TestExpiresWithin(t *testing.T) {
	end := mustDate(t, "2024-06-30")

	require.True(t, billing.ExpiresWithin(end, end, 7), "last day is both active and expiring")
	require.True(t, billing.ExpiresWithin(end, mustDate(t, "2024-06-23"), 7))
	require.False(t, billing.ExpiresWithin(end, mustDate(t, "2024-06-22"), 7))
	require.False(t, billing.ExpiresWithin(end, mustDate(t, "2024-07-01"), 7))
}
