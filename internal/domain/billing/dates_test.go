package billing_test

import (
	"testing"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/stretchr/testify/require"
)

func TestMonthBounds(t *testing.T) {
	first, last := billing.MonthBounds(mustDate(t, "2024-02-17"))
	require.Equal(t, "2024-02-01", billing.FormatDate(first))
	require.Equal(t, "2024-02-29", billing.FormatDate(last))
}

func TestParseCompetence(t *testing.T) {
	_, err := billing.ParseCompetence("2024-06")
	require.NoError(t, err)
	_, err = billing.ParseCompetence("2024-13")
	require.Error(t, err)
	_, err = billing.ParseCompetence("06/2024")
	require.Error(t, err)
}
