package repository

import (
	"context"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// RefreshTokenRepository stores at most one refresh token per user.
type RefreshTokenRepository interface {
	// Upsert replaces any token previously stored for t.UserID.
	Upsert(ctx context.Context, t *entity.RefreshToken) error
	// Replace swaps the stored token only while it still has oldHash;
	// ErrNotFound means it was already rotated or revoked.
	Replace(ctx context.Context, oldHash string, t *entity.RefreshToken) error
	Get(ctx context.Context, userID string) (*entity.RefreshToken, error)
	Delete(ctx context.Context, userID string) error
}
