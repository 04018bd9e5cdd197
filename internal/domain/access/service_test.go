package access_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/rpggio/hourbank/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_IssueKeyAndResolve(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.APIKeyRepository{}
	svc := access.NewService(repo, nil)

	var stored *access.APIKey
	repo.On("Create", ctx, mock.AnythingOfType("*access.APIKey")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*access.APIKey) }).
		Return(nil)

	token, key, err := svc.IssueKey(ctx, access.IssueRequest{
		UserID:   "user-1",
		Role:     access.RoleClientUser,
		ClientID: "client-1",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "hb_"))
	require.Equal(t, access.HashToken(token), key.KeyHash)
	require.Same(t, stored, key)

	repo.On("GetByHash", ctx, key.KeyHash).Return(key, nil)
	repo.On("TouchLastUsed", ctx, key.KeyHash).Return(nil)

	p, err := svc.ResolvePrincipal(ctx, token)
	require.NoError(t, err)
	require.Equal(t, access.Principal{UserID: "user-1", Role: access.RoleClientUser, ClientID: "client-1"}, p)
	repo.AssertExpectations(t)
}

func TestService_IssueKeyRejectsUnboundClientUser(t *testing.T) {
	svc := access.NewService(&mocks.APIKeyRepository{}, nil)
	_, _, err := svc.IssueKey(context.Background(), access.IssueRequest{Role: access.RoleClientUser})
	require.ErrorIs(t, err, access.ErrInvalidInput)
}

func TestService_ResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.APIKeyRepository{}
	repo.On("GetByHash", ctx, access.HashToken("nope")).Return(nil, repository.ErrNotFound)

	svc := access.NewService(repo, nil)
	_, err := svc.ResolvePrincipal(ctx, "nope")
	require.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = svc.ResolvePrincipal(ctx, "  ")
	require.ErrorIs(t, err, access.ErrUnauthenticated)
}
