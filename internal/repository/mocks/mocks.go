package mocks

import (
	"context"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/stretchr/testify/mock"
)

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClientRepository) List(ctx context.Context, opts client.ListOptions) ([]client.Client, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContractRepository is a mock for contract.Repository.
type ContractRepository struct {
	mock.Mock
}

func (m *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContractRepository) Get(ctx context.Context, id string) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*contract.Contract); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContractRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ContractRepository) List(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) ActiveOn(ctx context.Context, clientID string, asOf time.Time) ([]contract.Contract, error) {
	args := m.Called(ctx, clientID, asOf)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) EndingBetween(ctx context.Context, from, to time.Time) ([]contract.Contract, error) {
	args := m.Called(ctx, from, to)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RenewalRepository is a mock for renewal.Repository.
type RenewalRepository struct {
	mock.Mock
}

func (m *RenewalRepository) ListExpiredRecurring(ctx context.Context, asOf time.Time) ([]contract.Contract, error) {
	args := m.Called(ctx, asOf)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RenewalRepository) HasSuccessor(ctx context.Context, clientID string, after time.Time) (bool, error) {
	args := m.Called(ctx, clientID, after)
	return args.Bool(0), args.Error(1)
}

func (m *RenewalRepository) Renew(ctx context.Context, originalID string, successor *contract.Contract) (bool, error) {
	args := m.Called(ctx, originalID, successor)
	return args.Bool(0), args.Error(1)
}

// TicketRepository is a mock for ticket.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TicketRepository) List(ctx context.Context, opts ticket.ListOptions) ([]ticket.Ticket, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]ticket.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProductRepository is a mock for product.Repository.
type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, u *product.Usage) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *ProductRepository) Get(ctx context.Context, id string) (*product.Usage, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*product.Usage); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, u *product.Usage) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *ProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepository) List(ctx context.Context, opts product.ListOptions) ([]product.Usage, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]product.Usage); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ConsumptionRepository is a mock for consumption.Repository.
type ConsumptionRepository struct {
	mock.Mock
}

func (m *ConsumptionRepository) Totals(ctx context.Context, clientID string, from, to time.Time) (consumption.Totals, error) {
	args := m.Called(ctx, clientID, from, to)
	return args.Get(0).(consumption.Totals), args.Error(1)
}

func (m *ConsumptionRepository) HoursByDay(ctx context.Context, clientID string, from, to time.Time) ([]consumption.DayHours, error) {
	args := m.Called(ctx, clientID, from, to)
	if list, ok := args.Get(0).([]consumption.DayHours); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ConsumptionRepository) HoursByRequester(ctx context.Context, clientID string, from, to time.Time, limit int) ([]consumption.RequesterHours, error) {
	args := m.Called(ctx, clientID, from, to, limit)
	if list, ok := args.Get(0).([]consumption.RequesterHours); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ConsumptionRepository) HoursByClient(ctx context.Context, from, to time.Time, limit int) ([]consumption.ClientHours, error) {
	args := m.Called(ctx, from, to, limit)
	if list, ok := args.Get(0).([]consumption.ClientHours); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for access.Repository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, key *access.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*access.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if key, ok := args.Get(0).(*access.APIKey); ok {
		return key, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *APIKeyRepository) TouchLastUsed(ctx context.Context, keyHash string) error {
	args := m.Called(ctx, keyHash)
	return args.Error(0)
}
