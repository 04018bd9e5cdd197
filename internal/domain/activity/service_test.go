package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	clientID := "client1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ClientID:     &clientID,
		ActivityType: activity.TypeTicketCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{ClientID: clientID, Limit: 50}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	user := access.Principal{UserID: "u1", Role: access.RoleClientUser, ClientID: clientID}
	entries, err := svc.GetRecentActivity(ctx, user, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_ClientUserCannotReadOtherClient(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	user := access.Principal{UserID: "u1", Role: access.RoleClientUser, ClientID: "c1"}

	_, err := svc.GetRecentActivity(context.Background(), user, activity.ListActivityOptions{ClientID: "c2"})
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
}

func TestAppend_SwallowsRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{ActivityType: activity.TypeTicketDeleted}
	repo.On("Log", ctx, entry).Return(errors.New("disk full"))

	activity.Append(ctx, repo, nil, entry)
	activity.Append(ctx, nil, nil, entry)
	repo.AssertNumberOfCalls(t, "Log", 1)
}
