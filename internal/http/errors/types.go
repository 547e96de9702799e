package errors

import (
	"fmt"
	"net/http"
)

// AppError es el error estándar que viaja hasta el borde HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa; se loguea, no se expone
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FromError convierte un error genérico en AppError.
// Si no es un AppError, devuelve un 500 conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con detalle; no muta las variables base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is missing parameters or is malformed.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "The login state is invalid, expired or was already used.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrAccessDenied = &AppError{
		Code:       "ACCESS_DENIED",
		Message:    "The identity provider denied the authorization request.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrAuthenticationFailed = &AppError{
		Code:       "AUTHENTICATION_FAILED",
		Message:    "The user could not be authenticated.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many login attempts. Try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrBadGateway = &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "The identity provider returned an error.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
