package application

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/internal/infrastructure/search"
	"github.com/oksasatya/factory-erp/internal/infrastructure/storage"
	"github.com/oksasatya/factory-erp/pkg/apperr"
	"github.com/oksasatya/factory-erp/pkg/helpers"
	"github.com/oksasatya/factory-erp/pkg/mailer"
	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

type UserSearcher interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]search.UserDocument, error)
}

type AvatarStore interface {
	Put(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

type UserService struct {
	Users    repository.UserRepository
	Tokens   *TokenService
	Search   UserSearcher
	Avatars  AvatarStore
	Jobs     JobPublisher
	Branding tpl.Branding
	Logger   *logrus.Logger
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     entity.Role
}

type UpdateProfileInput struct {
	Name string
}

func (s *UserService) List(ctx context.Context, f entity.UserFilter) ([]entity.User, error) {
	users, err := s.Users.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list users failed", err)
	}
	return users, nil
}

func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]search.UserDocument, error) {
	if s.Search == nil {
		return []search.UserDocument{}, nil
	}
	docs, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "user search unavailable", err)
	}
	return docs, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return u, nil
}

// Create registers an account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation("invalid role", map[string]any{"role": "unknown role"})
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password failed", err)
	}
	u := &entity.User{
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Name:     in.Name,
		Role:     in.Role,
		IsActive: true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal("create user failed", err)
	}
	s.index(ctx, u)

	enqueueEmail(ctx, s.Jobs, s.Logger, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.AccountCreated,
		Data:     tpl.NewAccountCreatedData(s.Branding, u.Name, u.Email, string(u.Role)),
	})
	return u, nil
}

// ChangeRole assigns role to id and revokes its refresh token so the next
// session carries the new role.
func (s *UserService) ChangeRole(ctx context.Context, actorID, id string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role", map[string]any{"role": "unknown role"})
	}
	if actorID == id {
		return nil, apperr.New(apperr.KindConflict, "self_modification", "cannot change your own role")
	}
	if err := s.Users.SetRole(ctx, id, role); err != nil {
		return nil, userLookupError(err)
	}
	return s.afterAccessChange(ctx, id)
}

// SetActive enables or disables id. Disabling also revokes its refresh token.
func (s *UserService) SetActive(ctx context.Context, actorID, id string, active bool) (*entity.User, error) {
	if actorID == id && !active {
		return nil, apperr.New(apperr.KindConflict, "self_modification", "cannot disable your own account")
	}
	if err := s.Users.SetActive(ctx, id, active); err != nil {
		return nil, userLookupError(err)
	}
	if active {
		u, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		s.index(ctx, u)
		return u, nil
	}
	return s.afterAccessChange(ctx, id)
}

func (s *UserService) afterAccessChange(ctx context.Context, id string) (*entity.User, error) {
	if err := s.Tokens.Revoke(ctx, id); err != nil {
		return nil, apperr.Internal("revoke refresh token failed", err)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, u)
	s.Logger.WithFields(logrus.Fields{"user_id": id, "role": u.Role, "active": u.IsActive}).Info("user access changed")
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, userLookupError(err)
	}
	s.index(ctx, u)
	return u, nil
}

// UploadAvatar stores r and points the user's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrStorageDisabled
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Put(ctx, userID, filename, contentType, r)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, ErrStorageDisabled
		}
		return nil, apperr.Wrap(apperr.KindUnavailable, "avatar upload failed", err)
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, userLookupError(err)
	}
	s.index(ctx, u)
	return u, nil
}

// index refreshes the search document. The database row is the record, so a
// failed index write is logged and the request still succeeds.
func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user search index failed")
	}
}
