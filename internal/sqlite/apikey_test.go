package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_ResolveAndTouch(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	svc := access.NewService(repo, nil)
	token, key, err := svc.IssueKey(ctx, access.IssueRequest{
		UserID:   "u-ana",
		Role:     access.RoleClientUser,
		ClientID: "c1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	require.Equal(t, "u-ana", stored.UserID)
	require.Equal(t, access.RoleClientUser, stored.Role)
	require.NotNil(t, stored.ClientID)
	require.Equal(t, "c1", *stored.ClientID)
	require.Nil(t, stored.LastUsed)

	p, err := svc.ResolvePrincipal(ctx, token)
	require.NoError(t, err)
	require.Equal(t, access.Principal{UserID: "u-ana", Role: access.RoleClientUser, ClientID: "c1"}, p)

	stored, err = repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	require.NotNil(t, stored.LastUsed)
}

func TestAPIKeyRepository_Errors(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	_, err := repo.GetByHash(ctx, "nope")
	require.Equal(t, repository.ErrNotFound, err)
	require.ErrorIs(t, repo.TouchLastUsed(ctx, "nope"), repository.ErrNotFound)

	ghost := "ghost"
	err = repo.Create(ctx, &access.APIKey{KeyHash: "h1", UserID: "u", Role: access.RoleClientUser, ClientID: &ghost, CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
