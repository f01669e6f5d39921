package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// requireMember only lets members of the project named by the path value key
// through. Admins pass too when allowAdmin is set. An unknown project is a 404.
func requireMember(projects *service.ProjectService, key string, allowAdmin bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if allowAdmin && httpx.HasRole(ctx, string(domain.RoleAdmin)) {
				next.ServeHTTP(w, r)
				return
			}

			userID, _ := httpx.UserID(ctx)
			ok, err := projects.IsMember(ctx, r.PathValue(key), userID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !ok {
				slogx.FromContext(ctx).Info("membership denied", "project", r.PathValue(key), "user", userID)
				httpx.WriteError(w, httpx.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
