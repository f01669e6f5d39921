package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/taskboardsdk"
)

const serviceName = "taskboard"

// HomeHandler godoc
//
//	@Summary		Service banner
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskboardsdk.ServiceInfo
//	@Router			/ [get]
func HomeHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, taskboardsdk.ServiceInfo{
			Name:    serviceName,
			Version: version,
			Docs:    "/swagger/index.html",
		})
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness check
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskboardsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, taskboardsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness check
//	@Description	Pings the store; 503 while it is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskboardsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	taskboardsdk.HealthResponse	"database unreachable"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &taskboardsdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, taskboardsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// notFoundHandler answers every unrouted path with the JSON 404 body.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, httpx.ErrNotFound)
}
