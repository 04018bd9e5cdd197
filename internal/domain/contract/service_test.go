package contract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/rpggio/hourbank/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var admin = access.Principal{UserID: "admin", Role: access.RoleAdmin}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := billing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newService(repo *mocks.ContractRepository) *contract.Service {
	return contract.NewService(repo, nil, billing.DefaultPolicy(), nil)
}

func TestContractService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContractRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*contract.Contract")).Return(nil)
	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.AnythingOfType("*activity.ActivityEntry")).Return(nil)

	svc := contract.NewService(repo, activities, billing.DefaultPolicy(), nil)
	c, err := svc.Create(ctx, admin, contract.CreateRequest{
		ClientID:        "c1",
		StartDate:       date(t, "2024-06-01"),
		EndDate:         date(t, "2024-06-30"),
		ContractedHours: 40,
		IsRecurring:     true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.RecurrenceMonths)
	require.NotEmpty(t, c.ID)
	activities.AssertExpectations(t)
}

func TestContractService_CreateValidation(t *testing.T) {
	svc := newService(&mocks.ContractRepository{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  contract.CreateRequest
	}{
		{"missing client", contract.CreateRequest{StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-01-31")}},
		{"end before start", contract.CreateRequest{ClientID: "c1", StartDate: date(t, "2024-02-01"), EndDate: date(t, "2024-01-31")}},
		{"negative hours", contract.CreateRequest{ClientID: "c1", StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-01-31"), ContractedHours: -1}},
		{"recurrence too long", contract.CreateRequest{ClientID: "c1", StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-01-31"), RecurrenceMonths: 13}},
		{"missing dates", contract.CreateRequest{ClientID: "c1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin, tc.req)
			require.ErrorIs(t, err, contract.ErrInvalidInput)
		})
	}
}

func TestContractService_CreateSameDayIsValid(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContractRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	_, err := newService(repo).Create(ctx, admin, contract.CreateRequest{
		ClientID:  "c1",
		StartDate: date(t, "2024-01-01"),
		EndDate:   date(t, "2024-01-01"),
	})
	require.NoError(t, err)
}

func TestContractService_CreateDuplicatePeriod(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContractRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := newService(repo).Create(ctx, admin, contract.CreateRequest{
		ClientID:  "c1",
		StartDate: date(t, "2024-01-01"),
		EndDate:   date(t, "2024-01-31"),
	})
	require.ErrorIs(t, err, contract.ErrDuplicatePeriod)
}

func TestContractService_Active_MostRecentStartWins(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-15")
	repo := &mocks.ContractRepository{}
	repo.On("ActiveOn", ctx, "c1", asOf).Return([]contract.Contract{
		{ID: "upgrade", ClientID: "c1", StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-07-09")},
		{ID: "base", ClientID: "c1", StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-06-30")},
	}, nil)

	c, err := newService(repo).Active(ctx, admin, "c1", asOf)
	require.NoError(t, err)
	require.Equal(t, "upgrade", c.ID)
}

func TestContractService_Active_ClientScope(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-15")
	repo := &mocks.ContractRepository{}
	repo.On("ActiveOn", ctx, "c1", asOf).Return([]contract.Contract{}, nil)

	svc := newService(repo)
	user := access.Principal{UserID: "u1", Role: access.RoleClientUser, ClientID: "c1"}

	_, err := svc.Active(ctx, user, "", asOf)
	require.ErrorIs(t, err, contract.ErrNoActiveContract)

	_, err = svc.Active(ctx, user, "c2", asOf)
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestContractService_GetForbiddenForOtherClient(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContractRepository{}
	repo.On("Get", ctx, "k1").Return(&contract.Contract{ID: "k1", ClientID: "c2"}, nil)
	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := newService(repo)
	user := access.Principal{UserID: "u1", Role: access.RoleClientUser, ClientID: "c1"}

	_, err := svc.Get(ctx, user, "k1")
	require.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.Get(ctx, admin, "missing")
	require.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestContractService_ListExpiring_IncludesEndingToday(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-30")
	repo := &mocks.ContractRepository{}
	repo.On("EndingBetween", ctx, asOf, date(t, "2024-07-07")).Return([]contract.Contract{
		{ID: "today", ClientID: "c1", StartDate: date(t, "2024-06-01"), EndDate: asOf},
		{ID: "soon", ClientID: "c2", StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-07-05")},
	}, nil)

	views, err := newService(repo).ListExpiring(ctx, admin, asOf, -1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, billing.StatusActive, views[0].Status)
	require.Equal(t, 0, views[0].DaysLeft)
	require.Equal(t, 5, views[1].DaysLeft)
}

func TestContractService_ListExpiring_ZeroHorizonMeansToday(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-30")
	repo := &mocks.ContractRepository{}
	repo.On("EndingBetween", ctx, asOf, asOf).Return([]contract.Contract{
		{ID: "today", ClientID: "c1", StartDate: date(t, "2024-06-01"), EndDate: asOf},
	}, nil).Once()

	views, err := newService(repo).ListExpiring(ctx, admin, asOf, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "today", views[0].ID)
	require.Equal(t, 0, views[0].DaysLeft)
	repo.AssertExpectations(t)
}

func TestContractService_ListActive_OnePerClient(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-15")
	repo := &mocks.ContractRepository{}
	repo.On("ActiveOn", ctx, "", asOf).Return([]contract.Contract{
		{ID: "a2", ClientID: "a", StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-06-30")},
		{ID: "a1", ClientID: "a", StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-06-30")},
		{ID: "b1", ClientID: "b", StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-06-30")},
	}, nil)

	views, err := newService(repo).ListActive(ctx, admin, asOf)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "a2", views[0].ID)
	require.Equal(t, "b1", views[1].ID)
}

func TestContractService_ListActiveStorageError(t *testing.T) {
	ctx := context.Background()
	asOf := date(t, "2024-06-15")
	repo := &mocks.ContractRepository{}
	repo.On("ActiveOn", ctx, "", asOf).Return(nil, errors.New("db down"))

	_, err := newService(repo).ListActive(ctx, admin, asOf)
	require.Error(t, err)
}

func TestContract_SuccessorPeriod(t *testing.T) {
	cases := []struct {
		start, end string
		months     int
		wantStart  string
		wantEnd    string
	}{
		{"2024-01-01", "2024-01-31", 1, "2024-02-01", "2024-02-29"},
		{"2023-01-01", "2023-01-31", 1, "2023-02-01", "2023-02-28"},
		{"2024-01-01", "2024-03-31", 3, "2024-04-01", "2024-06-30"},
		{"2024-01-01", "2024-12-31", 12, "2025-01-01", "2025-12-31"},
		{"2024-01-15", "2024-02-14", 1, "2024-02-15", "2024-03-14"},
		{"2024-07-01", "2024-08-30", 1, "2024-08-31", "2024-09-30"},
		{"2024-08-31", "2024-09-30", 1, "2024-10-01", "2024-10-31"},
		{"2024-01-01", "2024-01-30", 1, "2024-01-31", "2024-03-01"},
		{"2023-03-01", "2023-03-30", 11, "2023-03-31", "2024-03-01"},
	}
	for _, tc := range cases {
		c := contract.Contract{StartDate: date(t, tc.start), EndDate: date(t, tc.end), RecurrenceMonths: tc.months}
		start, end := c.SuccessorPeriod()
		require.Equal(t, tc.wantStart, billing.FormatDate(start), tc.end)
		require.Equal(t, tc.wantEnd, billing.FormatDate(end), tc.end)
	}
}
