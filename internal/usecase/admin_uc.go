package usecase

import (
	"context"
	"errors"
	"strings"

	"twinsfashion/internal/domain"
)

type AdminUC struct {
	Admins domain.AdminUserRepo
}

// Authorise checks a username/password pair against the admin store.
// Unknown users and wrong passwords both come back as a plain false.
func (uc *AdminUC) Authorise(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}
	u, err := uc.Admins.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return domain.CheckPassword(u.PasswordHash, password), nil
}

// CreateAdminUser is idempotent: an existing username is success.
func (uc *AdminUC) CreateAdminUser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return domain.ErrValidation
	}
	if _, err := uc.Admins.ByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := domain.HashPassword(password)
	if err != nil {
		return err
	}
	return uc.Admins.Create(ctx, &domain.AdminUser{Username: username, PasswordHash: hash})
}
