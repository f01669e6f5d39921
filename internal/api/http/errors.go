package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

var (
	errConflict = httpx.NewError(http.StatusConflict, "Conflict", "Already exists")
	errBadJSON  = httpx.NewError(http.StatusBadRequest, "BadRequest", "Invalid JSON body")
	errBadLogin = httpx.NewError(http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
)

func badRequest(msg string) *httpx.Error {
	return httpx.NewError(http.StatusBadRequest, "BadRequest", msg)
}

// writeError is the single place where layer errors become HTTP answers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		httpErr  *httpx.Error
		validErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &httpErr):
		httpx.WriteError(w, httpErr)
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, httpx.ErrNotFound)
	case errors.As(err, &validErr):
		httpx.WriteError(w, badRequest(validErr.Error()))
	case errors.Is(err, store.ErrInvalidField):
		httpx.WriteError(w, badRequest(strings.TrimPrefix(err.Error(), "store: ")))
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, errConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, errBadLogin)
	case errors.Is(err, context.Canceled):
		log.Debug("request canceled", "path", r.URL.Path)
		httpx.WriteError(w, err)
	default:
		log.Error("request failed", "path", r.URL.Path, "error", err)
		httpx.WriteError(w, err)
	}
}
