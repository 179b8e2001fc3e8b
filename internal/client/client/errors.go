package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a failed response decoded from the server's error envelope.
// errors.Is matches it against the closest sentinel, so callers can test for
// ErrUnauthorized or common.ErrNotFound without looking at codes.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "duplicate_email":
		return common.ErrDuplicateEmail
	case e.Code == "invalid_credentials":
		return common.ErrInvalidCredentials
	case e.Code == "validation_error":
		return common.ErrValidation
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	default:
		return nil
	}
}
