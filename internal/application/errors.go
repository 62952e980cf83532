package application

import (
	"errors"

	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/pkg/apperr"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "invalid_credentials", "invalid email or password")
	ErrAccountDisabled    = apperr.New(apperr.KindAuthentication, "account_disabled", "account is disabled")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "email_taken", "email already registered")
	ErrStorageDisabled    = apperr.New(apperr.KindUnavailable, "storage_unavailable", "avatar storage is not configured")
)

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return apperr.Internal("load user failed", err)
}
