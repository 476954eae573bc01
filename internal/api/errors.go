package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kopeyka/receipt-service/internal/wire"
)

// Error is a failed backend response: the HTTP status plus whatever detail
// message the backend attached.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// RetryError reports that all retry attempts for a request were exhausted.
type RetryError struct {
	Endpoint   string
	Attempts   int
	LastStatus int
	LastErr    error
}

func (e *RetryError) Error() string {
	msg := fmt.Sprintf("request to %s failed after %d attempts", e.Endpoint, e.Attempts)
	if e.LastStatus != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.LastStatus)
	}
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastErr }

// IsUnauthorized reports whether err is a 401 from the backend, meaning the
// session is no longer valid.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsValidation reports whether err is a validation rejection (422 or 400)
// whose detail should be shown inline next to the triggering action.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) &&
		(apiErr.Status == http.StatusUnprocessableEntity || apiErr.Status == http.StatusBadRequest)
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// retryableStatus reports whether a status code is worth retrying:
// 429 and 5xx.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// DetailMessage extracts a human-readable message from a backend error body.
// FastAPI emits either {"detail": "message"} or, for validation errors,
// {"detail": [{"msg": ...}, ...]}.
func DetailMessage(body []byte) string {
	var envelope wire.ErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Detail == nil {
		return ""
	}

	var msg string
	if json.Unmarshal(envelope.Detail, &msg) == nil {
		return msg
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(envelope.Detail, &items) == nil {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				parts = append(parts, it.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
