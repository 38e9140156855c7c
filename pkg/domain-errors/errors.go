// Package domainerrors defines the coded error type used at service
// boundaries. Gateway clients return sentinel errors; services translate
// those into coded errors here so transport can map them to HTTP statuses
// without inspecting collaborator internals.
package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// Code identifies the class of a domain error.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnavailable  Code = "unavailable"
	CodeNotification Code = "notification_failed"
	CodeDocument     Code = "document_failed"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Error carries a code alongside a human-readable message and an optional
// wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate from this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FromInfra translates a sentinel infrastructure error into a coded error,
// keeping the original in the chain. Errors that already carry a code pass
// through unchanged.
func FromInfra(err error, message string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return Wrap(err, CodeNotFound, message)
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrAlreadyUsed):
		return Wrap(err, CodeConflict, message)
	case errors.Is(err, sentinel.ErrUnauthorized):
		return Wrap(err, CodeUnauthorized, message)
	case errors.Is(err, sentinel.ErrUnavailable):
		return Wrap(err, CodeUnavailable, message)
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, CodeTimeout, message)
	default:
		return Wrap(err, CodeInternal, message)
	}
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeNotification, CodeDocument:
		// The case mutation already committed; the failure is on our side
		// of the contract, not the caller's.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
