package httpx

import (
	"context"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

type ctxKey string

// CtxKeyClaims holds the verified *jwtx.Claims of the caller.
const CtxKeyClaims ctxKey = "claims"

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, CtxKeyClaims, &c)
}

// ClaimsFrom returns the verified claims of the caller, if any.
func ClaimsFrom(ctx context.Context) (*jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(*jwtx.Claims)
	return c, ok && c != nil
}

// UserID returns the authenticated subject, if any.
func UserID(ctx context.Context) (string, bool) {
	c, ok := ClaimsFrom(ctx)
	if !ok || c.Subject == "" {
		return "", false
	}
	return c.Subject, true
}

// Roles returns the roles of the authenticated caller.
func Roles(ctx context.Context) []string {
	if c, ok := ClaimsFrom(ctx); ok {
		return c.Roles
	}
	return nil
}

// HasRole reports whether the authenticated caller holds role.
func HasRole(ctx context.Context, role string) bool {
	c, ok := ClaimsFrom(ctx)
	return ok && c.HasRole(role)
}
