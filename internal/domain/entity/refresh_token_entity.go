package entity

import "time"

// RefreshToken is the single stored refresh credential of a user.
// Only the sha256 of the token string is persisted.
type RefreshToken struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
