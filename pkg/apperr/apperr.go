package apperr

import (
	"errors"
	"net/http"
)

// Error kinds. Every error surfaced to a caller wraps exactly one of these so
// handlers can pick a status code with errors.Is.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnavailable       = errors.New("backing store unavailable")
	ErrUploadRejected    = errors.New("upload rejected")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("resource already exists")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Error carries a user-safe message next to the kind and the underlying cause.
// Message is what the caller sees; Err is only ever logged.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap builds an Error of the given kind.
func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func InvalidCredential(msg string) *Error { return Wrap(ErrInvalidCredential, msg, nil) }

func Unavailable(msg string, err error) *Error { return Wrap(ErrUnavailable, msg, err) }

func UploadRejected(msg string, err error) *Error { return Wrap(ErrUploadRejected, msg, err) }

func Validation(msg string) *Error { return Wrap(ErrValidation, msg, nil) }

func NotFound(msg string) *Error { return Wrap(ErrNotFound, msg, nil) }

func Forbidden(msg string) *Error { return Wrap(ErrForbidden, msg, nil) }

func Conflict(msg string) *Error { return Wrap(ErrConflict, msg, nil) }

func Unauthenticated(msg string) *Error { return Wrap(ErrUnauthenticated, msg, nil) }

// HTTPStatus maps an error to the status code the API answers with.
// Unknown errors are 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUploadRejected):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether re-submitting the same request may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrUploadRejected)
}

// UserMessage returns the message that is safe to show to the end user.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Internal server error"
}
