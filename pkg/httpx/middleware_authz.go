package httpx

import "net/http"

// RequireAnyRole lets the request through when the caller's claims hold at
// least one of roles, otherwise it answers 403 Permission denied.
func RequireAnyRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if ok {
				for _, role := range roles {
					if claims.HasRole(role) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			WriteError(w, ErrPermissionDenied)
		})
	}
}
