package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f entity.UserFilter) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SetRole(ctx context.Context, id string, role entity.Role) error
	SetActive(ctx context.Context, id string, active bool) error
}
