package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/application"
	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/internal/testutil"
	"github.com/oksasatya/factory-erp/pkg/apperr"
)

func newUser(email string, role entity.Role) *entity.User {
	return &entity.User{Email: email, Password: "hash", Name: "Test " + string(role), Role: role, IsActive: true}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewUserRepository(testutil.NewSQLite(t).DB)

	u := newUser("ana@factory.test", entity.RoleAccountant)
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, entity.RoleAccountant, byID.Role)
	assert.True(t, byID.IsActive)
	assert.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Millisecond)

	byEmail, err := repo.GetByEmail(ctx, "ana@factory.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewUserRepository(testutil.NewSQLite(t).DB)

	require.NoError(t, repo.Create(ctx, newUser("dup@factory.test", entity.RoleAdmin)))
	err := repo.Create(ctx, newUser("dup@factory.test", entity.RoleDirector))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_RejectsUnknownRole(t *testing.T) {
	repo := persistence.NewUserRepository(testutil.NewSQLite(t).DB)
	err := repo.Create(context.Background(), newUser("x@factory.test", "janitor"))
	assert.Error(t, err)
}

func TestUserRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewUserRepository(testutil.NewSQLite(t).DB)

	for _, u := range []*entity.User{
		newUser("a@factory.test", entity.RoleGatekeeper),
		newUser("b@factory.test", entity.RoleGatekeeper),
		newUser("c@factory.test", entity.RoleAdmin),
	} {
		require.NoError(t, repo.Create(ctx, u))
	}
	gk, err := repo.GetByEmail(ctx, "b@factory.test")
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, gk.ID, false))

	all, err := repo.List(ctx, entity.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	gatekeepers, err := repo.List(ctx, entity.UserFilter{Role: entity.RoleGatekeeper})
	require.NoError(t, err)
	assert.Len(t, gatekeepers, 2)

	active := true
	activeGK, err := repo.List(ctx, entity.UserFilter{Role: entity.RoleGatekeeper, Active: &active})
	require.NoError(t, err)
	require.Len(t, activeGK, 1)
	assert.Equal(t, "a@factory.test", activeGK[0].Email)

	page, err := repo.List(ctx, entity.UserFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestUserRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewUserRepository(testutil.NewSQLite(t).DB)

	u := newUser("m@factory.test", entity.RoleGatekeeper)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.SetRole(ctx, u.ID, entity.RoleDirector))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	u.Name = "Renamed"
	u.AvatarURL = "https://cdn.test/a.png"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDirector, got.Role)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "https://cdn.test/a.png", got.AvatarURL)

	assert.ErrorIs(t, repo.SetRole(ctx, "missing", entity.RoleAdmin), repository.ErrNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), repository.ErrNotFound)
}

func TestUserRepository_DriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	repo := persistence.NewUserRepository(db)
	_, err = repo.GetByID(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	castErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("abc").
		WillReturnError(castErr)
	mock.ExpectExec("UPDATE users SET is_active").
		WillReturnError(castErr)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("abc").
		WillReturnError(castErr)

	repo := persistence.NewUserRepository(db)
	_, err = repo.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.SetActive(context.Background(), "abc", false), repository.ErrNotFound)

	svc := &application.UserService{Users: repo}
	_, err = svc.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).Status())
	assert.NoError(t, mock.ExpectationsWereMet())
}
