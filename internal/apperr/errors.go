// Package apperr defines the error kinds returned by the service layer.
// Handlers never pick status codes for these themselves; the echo error
// handler converts an *Error into the JSON envelope using Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// defaultStatus is the status used unless a constructor overrides it.
func (k Kind) defaultStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with the HTTP status it maps to.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && (e.Message == "" || e.Message == e.Err.Error()) {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithStatus returns a copy of e answering with a different status code.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

// WithDetails returns a copy of e carrying extra payload (field errors).
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Status: kind.defaultStatus(), Message: msg}
}

func Validation(msg string) *Error     { return newError(KindValidation, msg) }
func Authentication(msg string) *Error { return newError(KindAuthentication, msg) }
func Authorization(msg string) *Error  { return newError(KindAuthorization, msg) }
func Conflict(msg string) *Error       { return newError(KindConflict, msg) }
func NotFound(msg string) *Error       { return newError(KindNotFound, msg) }

// Internal wraps an unexpected store or runtime failure.  The cause's
// message is what clients see.
func Internal(err error) *Error {
	e := newError(KindInternal, "")
	if err != nil {
		e.Message = err.Error()
	} else {
		e.Message = "internal error"
	}
	e.Err = err
	return e
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
