package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// APIError is an application or HTTP level failure reported by the lab API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage(e.Status)
}

// TransportError covers network failures, timeouts and undecodable bodies
type TransportError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return e.Op + ": request timed out"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(op string, err error) *TransportError {
	return &TransportError{
		Op:      op,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

var (
	duplicateMarkers = []string{"already", "duplicate", "مسجل"}
	missingMarkers   = []string{"not exist", "doesn't exist", "not found", "غير موجود"}
)

// IsDuplicate reports whether the API rejected a write because the
// name, phone or rank is taken
func IsDuplicate(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	for _, marker := range missingMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsTooLarge reports whether the API refused the request body size
func IsTooLarge(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusRequestEntityTooLarge
}

// IsTimeout reports whether the request hit its deadline
func IsTimeout(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.Timeout
}

// UserMessage turns an error into the text shown in a toast
func UserMessage(err error, what string) string {
	var apiErr *APIError
	var transportErr *TransportError

	switch {
	case err == nil:
		return ""
	case IsDuplicate(err):
		return fmt.Sprintf("%s already exists: %s", what, err.Error())
	case IsTooLarge(err):
		return "The image is too large for the server, choose a smaller file"
	case IsTimeout(err):
		return "The upload took too long and was cancelled, try again with a smaller image"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &transportErr):
		return "Could not reach the server, check your connection and try again"
	default:
		return err.Error()
	}
}

func fallbackMessage(status int) string {
	if status == 0 {
		return "request failed"
	}
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("request failed with status %d (%s)", status, text)
}
