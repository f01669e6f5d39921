package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is the JSON error body every failing request answers with.
type Error struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNotFound = &Error{
		Status:  http.StatusNotFound,
		Name:    "NotFound",
		Message: "Not Found",
	}
	ErrPermissionDenied = &Error{
		Status:  http.StatusForbidden,
		Name:    "Forbidden",
		Message: "Permission denied",
	}
)

// NewError builds an Error with a custom message.
func NewError(status int, name, message string) *Error {
	return &Error{Status: status, Name: name, Message: message}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an Error body. Errors that don't carry their own
// status are reported as a 500 named InternalServerError with err's text as
// the message.
func WriteError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{
			Status:  http.StatusInternalServerError,
			Name:    "InternalServerError",
			Message: err.Error(),
		}
	}
	WriteJSON(w, e.Status, e)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
