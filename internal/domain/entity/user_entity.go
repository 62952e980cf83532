package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash. Users are deactivated, never deleted.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      Role
	IsActive  bool
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   Role
	Active *bool
	Limit  int
	Offset int
}
