package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error that knows how it should be reported over HTTP.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so that a wrapped or cloned error still compares equal
// to its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a cause to a sentinel while keeping its code and status.
func Wrap(err error, sentinel *Error, message string) *Error {
	if message == "" {
		message = sentinel.Message
	}
	return &Error{Code: sentinel.Code, Status: sentinel.Status, Message: message, Err: err}
}

// Clone returns a copy of the sentinel with a more specific message.
func Clone(sentinel *Error, message string) *Error {
	clone := *sentinel
	if message != "" {
		clone.Message = message
	}
	return &clone
}

var (
	ErrStoreUnavailable  = New("STORE_UNAVAILABLE", http.StatusServiceUnavailable, "data store unavailable")
	ErrStoreWriteFailure = New("STORE_WRITE_FAILURE", http.StatusInternalServerError, "failed to save data")
	ErrWeekLocked        = New("WEEK_LOCKED", http.StatusLocked, "week is locked")
	ErrForbidden         = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrAlreadyLocked     = New("ALREADY_LOCKED", http.StatusConflict, "week is already submitted")
	ErrNotLocked         = New("NOT_LOCKED", http.StatusConflict, "week is not submitted")
	ErrAlreadyRequested  = New("ALREADY_REQUESTED", http.StatusConflict, "unlock already requested")
	ErrNotRequested      = New("NOT_REQUESTED", http.StatusConflict, "no unlock request pending")
	ErrEmptyWeek         = New("EMPTY_WEEK", http.StatusUnprocessableEntity, "save hours (> 0) before submitting")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized      = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict          = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, "")
}
