package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	clientID := "c1"
	entry1 := &activity.ActivityEntry{
		ClientID:     &clientID,
		ActorID:      "admin",
		ActivityType: activity.TypeTicketCreated,
		Summary:      "Opened ticket",
		Details:      `{"id":"t1"}`,
	}
	entry2 := &activity.ActivityEntry{
		ClientID:     &clientID,
		ActorID:      "system",
		ActivityType: activity.TypeContractRenewed,
		Summary:      "Renewed contract",
		Details:      `{"id":"k2"}`,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry2.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, "c1", *entries[0].ClientID)
	require.Nil(t, entries[0].TicketID)
}

func TestActivityRepository_FiltersAndClientIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	clientID := "c1"
	ticketID := "t1"
	contractID := "k1"
	entry := &activity.ActivityEntry{
		ClientID:     &clientID,
		ContractID:   &contractID,
		TicketID:     &ticketID,
		ActorID:      "admin",
		ActivityType: activity.TypeTicketCompleted,
		Summary:      "Completed ticket",
		Details:      "{}",
	}
	require.NoError(t, repo.Log(ctx, entry))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ActorID:      "system",
		ActivityType: activity.TypeRenewalFailed,
		Summary:      "Renewal failed",
	}))

	activityType := activity.TypeTicketCompleted
	opts := activity.ListActivityOptions{
		ClientID:     "c1",
		ContractID:   &contractID,
		TicketID:     &ticketID,
		ActivityType: &activityType,
	}
	entries, err := repo.List(ctx, opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ClientID: "c2"})
	require.NoError(t, err)
	require.Len(t, entries, 0)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
