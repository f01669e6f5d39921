package taskboardsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taskboard: %d %s: %s", e.Status, e.Name, e.Message)
}

// parseErrorResponse builds an APIError from a failed response, falling back
// to the status line when the body isn't the usual JSON.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Name == "" {
		apiErr.Name = http.StatusText(resp.StatusCode)
		apiErr.Message = string(body)
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
