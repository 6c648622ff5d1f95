// Package myerror defines the coded error carried across edgemesh HTTP surfaces and the echo
// error handler that turns it into a JSON response.
package myerror

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that the addressed record is absent (unknown instance, user).
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that a provided parameter does not match the declared contract.
	ErrBadParameter = "bad_parameter"
	// ErrConflict means that the entity already exists (duplicate signup).
	ErrConflict = "conflict"
	// ErrInvalidUserOrPassword means that credential verification failed.
	ErrInvalidUserOrPassword = "invalid_user_or_password"
	// ErrTooManyRequests means that the caller exceeded its request budget.
	ErrTooManyRequests = "too_many_requests"
)

// MyError represents an error within the context of edgemesh services.
type MyError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers.
	Inner error `json:"-"`
}

// NewMyError creates a new MyError.
func NewMyError(code string, message string, inner error) *MyError {
	return &MyError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

// NewInternalServerError keeps an already coded inner error, otherwise wraps inner as internal_server_error.
func NewInternalServerError(message string, inner error) *MyError {
	if myInner := ToMyError(inner); myInner != nil {
		return myInner
	}
	return NewMyError(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	return NewMyError(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	return NewMyError(ErrBadParameter, message, inner)
}

func NewConflictError(message string, inner error) *MyError {
	return NewMyError(ErrConflict, message, inner)
}

func NewInvalidUserOrPasswordError(message string, inner error) *MyError {
	return NewMyError(ErrInvalidUserOrPassword, message, inner)
}

func NewTooManyRequestsError(message string) *MyError {
	return NewMyError(ErrTooManyRequests, message, nil)
}

func (e MyError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e MyError) Unwrap() error {
	return e.Inner
}

// ToMyError returns the first *MyError in err's chain, or nil.
func ToMyError(err error) *MyError {
	var e *MyError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsMyError reports whether err carries a MyError with the given code.
func IsMyError(err error, code string) bool {
	if myerr := ToMyError(err); myerr != nil {
		return myerr.Code == code
	}
	return false
}

func IsEntityNotFoundError(err error) bool {
	return IsMyError(err, ErrEntityNotFound)
}

func IsBadParameterError(err error) bool {
	return IsMyError(err, ErrBadParameter)
}

func IsConflictError(err error) bool {
	return IsMyError(err, ErrConflict)
}
