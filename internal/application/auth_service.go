package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/pkg/apperr"
	"github.com/oksasatya/factory-erp/pkg/helpers"
	"github.com/oksasatya/factory-erp/pkg/mailer"
	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

// LoginMeta describes the client that is logging in; it only feeds the notification email.
type LoginMeta struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	Users    repository.UserRepository
	Tokens   *TokenService
	Jobs     JobPublisher
	Branding tpl.Branding
	Logger   *logrus.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, jobs JobPublisher, branding tpl.Branding, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Jobs: jobs, Branding: branding, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues a fresh pair, replacing any earlier refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string, meta LoginMeta) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.BurnCompare(password)
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, apperr.Internal("load user failed", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, TokenPair{}, ErrAccountDisabled
	}

	pair, err := s.Tokens.IssueTokens(ctx, u.ID, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue tokens failed")
		return nil, TokenPair{}, apperr.Internal("issue tokens failed", err)
	}

	enqueueEmail(ctx, s.Jobs, s.Logger, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.LoginNotification,
		Data: tpl.NewLoginNotificationData(s.Branding, u.Name, u.Email, string(u.Role),
			tpl.WithIP(meta.IP), tpl.WithUserAgent(meta.UserAgent), tpl.WithTime(time.Now())),
	})
	return u, pair, nil
}

// Refresh exchanges the stored refresh token for a new pair carrying the
// user's current role. Concurrent refreshes with one token yield one winner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.Tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, TokenPair{}, TokenError(err)
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.Tokens.RotateTokens(ctx, refreshToken, u.ID, u.Role)
	if errors.Is(err, ErrTokenRevoked) {
		return nil, TokenPair{}, TokenError(err)
	}
	if err != nil {
		return nil, TokenPair{}, apperr.Internal("rotate tokens failed", err)
	}
	return u, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.Tokens.Revoke(ctx, userID); err != nil {
		return apperr.Internal("revoke refresh token failed", err)
	}
	return nil
}

// Authenticate resolves an access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.Tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, TokenError(err)
	}
	return s.activeUser(ctx, claims.UserID)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return u, nil
}

// activeUser loads userID and rejects unknown or disabled accounts with 401.
func (s *AuthService) activeUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountDisabled
		}
		return nil, apperr.Internal("load user failed", err)
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}
