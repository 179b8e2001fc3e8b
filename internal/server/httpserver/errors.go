package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

// APIError is the body of every failed response, nested under "error".
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// WithDetails returns a copy of the error carrying details.
func (e *APIError) WithDetails(details any) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    details,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    message,
		StatusCode: e.StatusCode,
		Details:    e.Details,
	}
}

var (
	ErrBadRequest = &APIError{
		Code:       "bad_request",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrValidation = &APIError{
		Code:       "validation_error",
		Message:    "One or more fields failed validation",
		StatusCode: http.StatusBadRequest,
	}

	ErrDuplicateEmail = &APIError{
		Code:       "duplicate_email",
		Message:    "Email already registered",
		StatusCode: http.StatusBadRequest,
	}

	ErrInvalidCredentials = &APIError{
		Code:       "invalid_credentials",
		Message:    "Invalid email or password",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrUnauthorized never says whether a token was missing, expired or forged.
	ErrUnauthorized = &APIError{
		Code:       "unauthorized",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrNotFound = &APIError{
		Code:       "not_found",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternal = &APIError{
		Code:       "internal_error",
		Message:    "An internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
)

// AsAPIError maps service errors onto the wire representation. Anything
// unrecognised becomes ErrInternal so driver messages never reach clients.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return ErrValidation.WithDetails(verr.Fields)
	case errors.Is(err, common.ErrValidation):
		return ErrValidation
	case errors.Is(err, common.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, common.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenInvalid):
		return ErrUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return ErrNotFound
	default:
		return ErrInternal
	}
}
