package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-readable category of a failure. Handlers
// map kinds to HTTP status codes; clients can switch on the kind string.
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindAccountDisabled   ErrorKind = "account_disabled"
	KindInsufficientScope ErrorKind = "insufficient_scope"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindRoleNotFound      ErrorKind = "role_not_found"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindStore             ErrorKind = "store_error"
)

// Error is the typed failure returned by services and repositories.
// Message is safe to show to API consumers; Err carries the internal cause
// and is only ever logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind, so errors.Is(err, ErrPostNotFound) holds for any
// not_found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "could not validate credentials"}
	ErrTokenExpired       = &Error{Kind: KindUnauthenticated, Message: "signature has expired"}
	ErrAccountDisabled    = &Error{Kind: KindAccountDisabled, Message: "banned user"}
	ErrInsufficientScope  = &Error{Kind: KindInsufficientScope, Message: "not enough permissions"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "you don't have permission to modify this post"}
	ErrPostNotFound       = &Error{Kind: KindNotFound, Message: "post not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrUserExists         = &Error{Kind: KindConflict, Message: "user already exists"}
	ErrInvalidCredentials = &Error{Kind: KindValidation, Message: "incorrect username or password"}
)

// RoleNotFound reports a role name that is absent from the catalog.
func RoleNotFound(name string) *Error {
	return &Error{Kind: KindRoleNotFound, Message: fmt.Sprintf("role %q does not exist", name)}
}

// Validation reports a malformed request.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// StoreError wraps an infrastructure failure behind a generic message.
// Typed errors pass through untouched.
func StoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of err, treating untyped errors as store errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStore
}
