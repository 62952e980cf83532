package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/internal/testutil"
)

func TestRefreshTokenRepository_UpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	users := persistence.NewUserRepository(db.DB)
	tokens := persistence.NewRefreshTokenRepository(db.DB)

	u := newUser("rt@factory.test", entity.RoleAccountant)
	require.NoError(t, users.Create(ctx, u))

	exp := time.Now().Add(7 * 24 * time.Hour)
	require.NoError(t, tokens.Upsert(ctx, &entity.RefreshToken{UserID: u.ID, TokenHash: "first", ExpiresAt: exp}))
	require.NoError(t, tokens.Upsert(ctx, &entity.RefreshToken{UserID: u.ID, TokenHash: "second", ExpiresAt: exp}))

	got, err := tokens.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.TokenHash)
	assert.WithinDuration(t, exp, got.ExpiresAt, time.Second)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, u.ID).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRefreshTokenRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	users := persistence.NewUserRepository(db.DB)
	tokens := persistence.NewRefreshTokenRepository(db.DB)

	u := newUser("del@factory.test", entity.RoleDirector)
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, tokens.Upsert(ctx, &entity.RefreshToken{UserID: u.ID, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, tokens.Delete(ctx, u.ID))
	_, err := tokens.Get(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, tokens.Delete(ctx, u.ID))
}

func TestRefreshTokenRepository_ReplaceRequiresCurrentHash(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	users := persistence.NewUserRepository(db.DB)
	tokens := persistence.NewRefreshTokenRepository(db.DB)

	u := newUser("swap@factory.test", entity.RoleGatekeeper)
	require.NoError(t, users.Create(ctx, u))
	exp := time.Now().Add(time.Hour)
	require.NoError(t, tokens.Upsert(ctx, &entity.RefreshToken{UserID: u.ID, TokenHash: "old", ExpiresAt: exp}))

	require.NoError(t, tokens.Replace(ctx, "old", &entity.RefreshToken{UserID: u.ID, TokenHash: "new", ExpiresAt: exp}))
	err := tokens.Replace(ctx, "old", &entity.RefreshToken{UserID: u.ID, TokenHash: "other", ExpiresAt: exp})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := tokens.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.TokenHash)
}
