package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("bootstrap admin needs both an email and a password")

type BootstrapService struct {
	Store    store.Store
	Users    *UserService
	Email    string
	Password string
}

// EnsureAdmin creates the configured admin when the store has no users yet.
// It reports whether a user was created. Without configured credentials it
// does nothing.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	if s.Email == "" && s.Password == "" {
		return false, nil
	}
	if s.Email == "" || s.Password == "" {
		return false, ErrBootstrapIncomplete
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.Debug("bootstrap skipped, users already exist")
		return false, nil
	}

	name := "Administrator"
	roles := []domain.Role{domain.RoleAdmin}
	u, err := s.Users.Create(ctx, domain.UserPatch{
		Email:    &s.Email,
		Name:     &name,
		Password: &s.Password,
		Roles:    &roles,
	})
	if err != nil {
		return false, err
	}

	l.Info("bootstrap admin created", slog.String("admin_user_id", u.ID))
	return true, nil
}
