package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

// Create validates p, hashes its password and stores the new user. Users
// created without roles become developers.
func (s *UserService) Create(ctx context.Context, p domain.UserPatch) (domain.User, error) {
	p.Normalize()
	if err := p.ValidateCreate(); err != nil {
		return domain.User{}, err
	}
	if p.Roles == nil || len(*p.Roles) == 0 {
		roles := domain.DefaultRoles
		p.Roles = &roles
	}
	if err := hashPassword(&p); err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().Insert(ctx, p)
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created",
		slog.String("created_user_id", u.ID),
		slog.Any("roles", u.Roles),
	)
	return u, nil
}

func (s *UserService) Find(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	return s.Store.Users().Find(ctx, f)
}

func (s *UserService) FindOne(ctx context.Context, f domain.Filter) (domain.User, error) {
	return s.Store.Users().FindOne(ctx, f)
}

func (s *UserService) FindByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().FindByID(ctx, id)
}

// Update applies the set fields of p. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id string, p domain.UserPatch) (domain.User, error) {
	p.Normalize()
	if err := p.ValidateUpdate(); err != nil {
		return domain.User{}, err
	}
	if p.Roles != nil && len(*p.Roles) == 0 {
		return domain.User{}, &domain.ValidationError{Field: "roles", Message: "must not be empty"}
	}
	if err := hashPassword(&p); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().Update(ctx, id, p)
}

// UpdateMe is Update for the caller's own account; roles are not writable.
func (s *UserService) UpdateMe(ctx context.Context, id string, p domain.UserPatch) (domain.User, error) {
	p.Roles = nil
	return s.Update(ctx, id, p)
}

func (s *UserService) Remove(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().Delete(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	slogx.FromContext(ctx).Info("user removed", slog.String("removed_user_id", u.ID))
	return u, nil
}

func (s *UserService) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.User], error) {
	return s.Store.Users().Paginate(ctx, q)
}

// hashPassword moves the clear text password of p into PasswordHash.
func hashPassword(p *domain.UserPatch) error {
	if p.Password == nil {
		return nil
	}
	hash, err := cryptox.HashPassword(*p.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = &hash
	p.Password = nil
	return nil
}
