package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/pkg/apperr"
	"github.com/oksasatya/factory-erp/pkg/helpers"
)

// ErrTokenRevoked means a well-formed refresh token is no longer the one on record.
var ErrTokenRevoked = errors.New("refresh token revoked")

const (
	CodeTokenExpired = "token_expired"
	CodeTokenInvalid = "token_invalid"
)

type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiresAt"`
}

type AccessClaims struct {
	UserID string
	Role   entity.Role
}

type RefreshClaims struct {
	UserID string
}

// TokenService issues and verifies the access/refresh pair and keeps the
// single stored refresh token of each user.
type TokenService struct {
	JWT    *helpers.JWTManager
	Tokens repository.RefreshTokenRepository
}

func NewTokenService(jwt *helpers.JWTManager, tokens repository.RefreshTokenRepository) *TokenService {
	return &TokenService{JWT: jwt, Tokens: tokens}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssueTokens signs a new pair and replaces the user's stored refresh token.
func (s *TokenService) IssueTokens(ctx context.Context, userID string, role entity.Role) (TokenPair, error) {
	pair, err := s.sign(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.Upsert(ctx, storedToken(userID, pair)); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// RotateTokens exchanges a verified refresh token for a new pair. The swap is
// conditional on oldRefresh still being the stored token, so each refresh
// token is redeemable once; a replay gets ErrTokenRevoked.
func (s *TokenService) RotateTokens(ctx context.Context, oldRefresh, userID string, role entity.Role) (TokenPair, error) {
	pair, err := s.sign(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.Replace(ctx, hashToken(oldRefresh), storedToken(userID, pair)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrTokenRevoked
		}
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *TokenService) sign(userID string, role entity.Role) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, string(role))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func storedToken(userID string, pair TokenPair) *entity.RefreshToken {
	return &entity.RefreshToken{UserID: userID, TokenHash: hashToken(pair.RefreshToken), ExpiresAt: pair.RefreshTokenExpiry}
}

func (s *TokenService) VerifyAccess(token string) (AccessClaims, error) {
	c, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return AccessClaims{}, err
	}
	return AccessClaims{UserID: c.UserID, Role: entity.Role(c.Role)}, nil
}

func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (RefreshClaims, error) {
	c, err := s.JWT.ParseRefreshToken(token)
	if err != nil {
		return RefreshClaims{}, err
	}
	stored, err := s.Tokens.Get(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RefreshClaims{}, ErrTokenRevoked
		}
		return RefreshClaims{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored.TokenHash), []byte(hashToken(token))) != 1 {
		return RefreshClaims{}, ErrTokenRevoked
	}
	return RefreshClaims{UserID: c.UserID}, nil
}

// Revoke drops the stored refresh token so no outstanding one can be exchanged.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	return s.Tokens.Delete(ctx, userID)
}

// TokenError converts a verification failure into its transport error:
// expiry is an authentication failure, anything else about the token is a rejection.
func TokenError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, helpers.ErrTokenExpired):
		return apperr.New(apperr.KindAuthentication, CodeTokenExpired, "token expired")
	case errors.Is(err, helpers.ErrTokenInvalid),
		errors.Is(err, helpers.ErrTokenWrongType),
		errors.Is(err, ErrTokenRevoked):
		return &apperr.Error{Kind: apperr.KindAuthorization, Code: CodeTokenInvalid, Message: "invalid token", Err: err}
	default:
		return apperr.Internal("token verification failed", err)
	}
}
