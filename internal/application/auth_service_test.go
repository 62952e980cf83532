package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/pkg/apperr"
	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "ana@factory.test", "Secret123!", entity.RoleAccountant)

	u, pair, err := f.auth.Login(ctx, "  ANA@factory.test ", "Secret123!", LoginMeta{IP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAccountant, u.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, []string{tpl.AccountCreated, tpl.LoginNotification}, f.jobs.templates())

	claims, err := f.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "gk@factory.test", "Secret123!", entity.RoleGatekeeper)

	_, _, err := f.auth.Login(ctx, "gk@factory.test", "wrong", LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "nobody@factory.test", "Secret123!", LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.SetActive(ctx, "admin-id", u.ID, false)
	require.NoError(t, err)
	_, _, err = f.auth.Login(ctx, "gk@factory.test", "Secret123!", LoginMeta{})
	assert.ErrorIs(t, err, ErrAccountDisabled)
	assert.Equal(t, 401, apperr.As(err).Status())
}

func TestAuthService_RefreshRotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "dir@factory.test", "Secret123!", entity.RoleDirector)

	_, first, err := f.auth.Login(ctx, "dir@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)

	_, second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, _, err = f.auth.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, CodeTokenInvalid, apperr.As(err).Code)
	assert.Equal(t, 403, apperr.As(err).Status())
}

func TestAuthService_NewLoginInvalidatesOldRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "acc@factory.test", "Secret123!", entity.RoleAccountant)

	_, first, err := f.auth.Login(ctx, "acc@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)
	_, _, err = f.auth.Login(ctx, "acc@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)

	_, _, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.Equal(t, 403, apperr.As(err).Status())
}

func TestAuthService_RefreshExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "acc@factory.test", "Secret123!", entity.RoleAccountant)
	_, pair, err := f.auth.Login(ctx, "acc@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)
	_, _, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, 401, apperr.As(err).Status())
	assert.Equal(t, CodeTokenExpired, apperr.As(err).Code)
}

func TestAuthService_RefreshCarriesCurrentRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "promo@factory.test", "Secret123!", entity.RoleGatekeeper)
	_, pair, err := f.auth.Login(ctx, "promo@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)

	_, err = f.users.ChangeRole(ctx, "admin-id", u.ID, entity.RoleDirector)
	require.NoError(t, err)

	// the role change revoked the old refresh token
	_, _, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, 403, apperr.As(err).Status())

	_, fresh, err := f.auth.Login(ctx, "promo@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)
	claims, err := f.tokens.VerifyAccess(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDirector, claims.Role)
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createUser(t, "me@factory.test", "Secret123!", entity.RoleAccountant)
	_, pair, err := f.auth.Login(ctx, "me@factory.test", "Secret123!", LoginMeta{})
	require.NoError(t, err)

	u, err := f.auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	require.NoError(t, f.auth.Logout(ctx, u.ID))
	_, _, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, 403, apperr.As(err).Status())

	_, err = f.users.SetActive(ctx, "admin-id", u.ID, false)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
