package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Upsert(ctx context.Context, t *entity.RefreshToken) error {
	t.UpdatedAt = now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET token_hash = excluded.token_hash,
		    expires_at = excluded.expires_at,
		    updated_at = excluded.updated_at
	`, t.UserID, t.TokenHash, t.ExpiresAt.UTC(), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Replace(ctx context.Context, oldHash string, t *entity.RefreshToken) error {
	t.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET token_hash = $1, expires_at = $2, updated_at = $3
		WHERE user_id = $4 AND token_hash = $5
	`, t.TokenHash, t.ExpiresAt.UTC(), t.UpdatedAt, t.UserID, oldHash)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, userID string) (*entity.RefreshToken, error) {
	t := &entity.RefreshToken{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, token_hash, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE user_id = $1
	`, userID).Scan(&t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	return t, nil
}

// Delete is idempotent; a missing row is not an error.
func (r *RefreshTokenRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)
