package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Authenticate checks email/password and mints an access token for the user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, domain.User, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return "", domain.User{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same time a real check would take.
		_ = cryptox.VerifyPassword(password, dummyHash())
		l.Info("authentication failed", slog.String("reason", "unknown_email"))
		return "", domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("authentication failed",
			slog.String("reason", "bad_password"),
			slog.String("user_id", u.ID),
		)
		return "", domain.User{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(u.ID, u.Email, domain.RoleNames(u.Roles), ttl, s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", domain.User{}, err
	}

	l.Info("user authenticated", slog.String("user_id", u.ID))
	return token, u, nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = cryptox.HashPassword("not-a-real-password")
	})
	return dummy
}
