package ticket_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/rpggio/hourbank/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin = access.Principal{UserID: "admin", Role: access.RoleAdmin}
	user  = access.Principal{UserID: "ana", Role: access.RoleClientUser, ClientID: "c1"}
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := billing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newService(repo *mocks.TicketRepository) *ticket.Service {
	return ticket.NewService(repo, nil, billing.DefaultPolicy(), nil)
}

func TestTicketService_OpenForcesCallerClient(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*ticket.Ticket")).Return(nil)

	tk, err := newService(repo).Open(ctx, user, ticket.OpenRequest{
		Title:       "Printer down",
		Description: "Office printer offline",
	}, date(t, "2024-06-10"))
	require.NoError(t, err)
	require.Equal(t, "c1", tk.ClientID)
	require.Equal(t, ticket.StatusOpen, tk.Status)
	require.Equal(t, 0, tk.BilledHours)
	require.Equal(t, "ana", tk.RequesterName)
	require.Equal(t, "2024-06-10", billing.FormatDate(tk.ServiceDate))
}

func TestTicketService_OpenRejectsOtherClient(t *testing.T) {
	_, err := newService(&mocks.TicketRepository{}).Open(context.Background(), user, ticket.OpenRequest{
		ClientID:    "c2",
		Title:       "x",
		Description: "y",
	}, date(t, "2024-06-10"))
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestTicketService_OpenValidation(t *testing.T) {
	svc := newService(&mocks.TicketRepository{})
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Open(context.Background(), user, ticket.OpenRequest{Title: "", Description: "d"}, date(t, "2024-06-10"))
	require.ErrorIs(t, err, ticket.ErrInvalidInput)

	_, err = svc.Open(context.Background(), user, ticket.OpenRequest{Title: string(long), Description: "d"}, date(t, "2024-06-10"))
	require.ErrorIs(t, err, ticket.ErrInvalidInput)
}

func TestTicketService_CompleteDerivesDurationAndHours(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{
		ID:          "t1",
		ClientID:    "c1",
		Description: "VPN issue",
		ServiceDate: date(t, "2024-06-10"),
		Status:      ticket.StatusOpen,
	}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*ticket.Ticket")).Return(nil)

	tk, err := newService(repo).Complete(ctx, admin, ticket.CompleteRequest{
		ID: "t1",
		BillingInput: ticket.BillingInput{
			StartTime: strPtr("09:00"),
			EndTime:   strPtr("10:30"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, ticket.StatusCompleted, tk.Status)
	require.NotNil(t, tk.DurationMinutes)
	require.Equal(t, 90, *tk.DurationMinutes)
	require.Equal(t, 2, tk.BilledHours)
}

func TestTicketService_CompleteTimesOverrideDuration(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", ServiceDate: date(t, "2024-06-10"), Status: ticket.StatusInProgress}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	tk, err := newService(repo).Complete(ctx, admin, ticket.CompleteRequest{
		ID: "t1",
		BillingInput: ticket.BillingInput{
			StartTime:       strPtr("14:00"),
			EndTime:         strPtr("14:45"),
			DurationMinutes: intPtr(300),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 45, *tk.DurationMinutes)
	require.Equal(t, 1, tk.BilledHours)
}

func TestTicketService_CompleteExplicitHours(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", ServiceDate: date(t, "2024-06-10"), Status: ticket.StatusOpen}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	tk, err := newService(repo).Complete(ctx, admin, ticket.CompleteRequest{
		ID:           "t1",
		BillingInput: ticket.BillingInput{BilledHours: intPtr(4), DurationMinutes: intPtr(30)},
	})
	require.NoError(t, err)
	require.Equal(t, 4, tk.BilledHours)
}

func TestTicketService_CompleteGuards(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", ServiceDate: date(t, "2024-06-10"), Status: ticket.StatusOpen}, nil)
	svc := newService(repo)

	_, err := svc.Complete(ctx, admin, ticket.CompleteRequest{ID: "t1"})
	require.ErrorIs(t, err, ticket.ErrInvalidInput)

	_, err = svc.Complete(ctx, admin, ticket.CompleteRequest{
		ID:           "t1",
		BillingInput: ticket.BillingInput{StartTime: strPtr("10:30"), EndTime: strPtr("10:30"), BilledHours: intPtr(1)},
	})
	require.ErrorIs(t, err, ticket.ErrInvalidInput)

	_, err = svc.Complete(ctx, admin, ticket.CompleteRequest{
		ID:           "t1",
		BillingInput: ticket.BillingInput{BilledHours: intPtr(0)},
	})
	require.ErrorIs(t, err, ticket.ErrInvalidInput)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTicketService_CompletedIsTerminal(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", Status: ticket.StatusCompleted, BilledHours: 2}, nil)
	svc := newService(repo)

	_, err := svc.Start(ctx, admin, "t1")
	require.ErrorIs(t, err, ticket.ErrInvalidTransition)
	_, err = svc.Transition(ctx, admin, ticket.TransitionRequest{ID: "t1", To: ticket.StatusOpen})
	require.ErrorIs(t, err, ticket.ErrInvalidTransition)
}

func TestTicketService_StartOnlyChangesStatus(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", Status: ticket.StatusOpen}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(tk *ticket.Ticket) bool {
		return tk.Status == ticket.StatusInProgress && tk.BilledHours == 0
	})).Return(nil)

	tk, err := newService(repo).Start(ctx, admin, "t1")
	require.NoError(t, err)
	require.Equal(t, ticket.StatusInProgress, tk.Status)
	repo.AssertExpectations(t)
}

func TestTicketService_ClientUserCannotTransition(t *testing.T) {
	_, err := newService(&mocks.TicketRepository{}).Start(context.Background(), user, "t1")
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestTicketService_RecordCompleted(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*ticket.Ticket")).Return(nil)
	svc := newService(repo)

	tk, err := svc.Record(ctx, admin, ticket.RecordRequest{
		ClientID:      "c1",
		RequesterName: "Bruno",
		Description:   "Server migration",
		ServiceDate:   date(t, "2024-06-05"),
		Status:        ticket.StatusCompleted,
		BillingInput:  ticket.BillingInput{DurationMinutes: intPtr(121)},
	})
	require.NoError(t, err)
	require.Equal(t, 3, tk.BilledHours)

	_, err = svc.Record(ctx, admin, ticket.RecordRequest{
		ClientID:      "c1",
		RequesterName: "Bruno",
		Description:   "Pending",
		ServiceDate:   date(t, "2024-06-05"),
		Status:        ticket.StatusOpen,
		BillingInput:  ticket.BillingInput{BilledHours: intPtr(3)},
	})
	require.ErrorIs(t, err, ticket.ErrInvalidInput)

	_, err = svc.Record(ctx, admin, ticket.RecordRequest{ClientID: "c1", Description: "no requester", ServiceDate: date(t, "2024-06-05")})
	require.ErrorIs(t, err, ticket.ErrInvalidInput)
}

func TestTicketService_RecordUnknownClient(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	_, err := newService(repo).Record(ctx, admin, ticket.RecordRequest{
		ClientID:      "ghost",
		RequesterName: "Bruno",
		Description:   "x",
		ServiceDate:   date(t, "2024-06-05"),
	})
	require.ErrorIs(t, err, ticket.ErrClientNotFound)
}

func TestTicketService_UpdateRederivesBilledHours(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{
		ID:              "t1",
		ClientID:        "c1",
		RequesterName:   "Bruno",
		Description:     "x",
		ServiceDate:     date(t, "2024-06-05"),
		StartTime:       strPtr("09:00"),
		EndTime:         strPtr("10:00"),
		DurationMinutes: intPtr(60),
		BilledHours:     1,
		Status:          ticket.StatusCompleted,
	}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	tk, err := newService(repo).Update(ctx, admin, ticket.UpdateRequest{
		ID:           "t1",
		BillingInput: ticket.BillingInput{EndTime: strPtr("11:15")},
	})
	require.NoError(t, err)
	require.Equal(t, 135, *tk.DurationMinutes)
	require.Equal(t, 3, tk.BilledHours)
}

func TestTicketService_DeleteAnyStatus(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, "t1").Return(&ticket.Ticket{ID: "t1", ClientID: "c1", Status: ticket.StatusCompleted, BilledHours: 5}, nil)
	repo.On("Delete", ctx, "t1").Return(nil)
	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.AnythingOfType("*activity.ActivityEntry")).Return(nil)

	svc := ticket.NewService(repo, activities, billing.DefaultPolicy(), nil)
	require.NoError(t, svc.Delete(ctx, admin, "t1"))
	activities.AssertExpectations(t)
}

func TestTicketService_ListScopesClientUser(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("List", ctx, ticket.ListOptions{ClientID: "c1", Search: "vpn", Limit: 200}).Return([]ticket.Ticket{}, nil)

	_, err := newService(repo).List(ctx, user, ticket.ListOptions{Search: "  vpn "})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
