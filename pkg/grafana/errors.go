package grafana

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any non 2xx answer of the Grafana API.
type APIError struct {
	StatusCode int
	// Message is the "message" field of the response body, when there is one.
	Message string
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	return &APIError{StatusCode: status, Message: payload.Message}
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("grafana API error (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("grafana API error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError carrying a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorMessage returns the message sent by Grafana for err, falling back to
// err.Error() when the API did not provide one.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// DocumentError reports a dashboard document that is missing a required
// field or declares something outside of what an import understands.
type DocumentError struct {
	Field  string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("invalid dashboard document: %s %s", e.Field, e.Reason)
}
