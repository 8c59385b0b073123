// Package apperr defines the stable error taxonomy reported to the invoking
// session. Every failure surfaced by a service carries one of these kinds so
// the CLI can name it and pick an exit path without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable classification of an application error.
type Kind string

const (
	KindValidation                Kind = "ValidationError"
	KindPermission                Kind = "PermissionError"
	KindContractNotSigned         Kind = "ContractNotSignedError"
	KindInvalidAssigneeDepartment Kind = "InvalidAssigneeDepartmentError"
	KindUnauthenticated           Kind = "UnauthenticatedError"
	KindAuthenticationExpired     Kind = "AuthenticationExpiredError"
	KindNotFound                  Kind = "NotFoundError"
	KindPersistence               Kind = "PersistenceError"
	KindInternal                  Kind = "InternalError"
)

// Error is an application error with a stable kind. Field is set for
// validation failures, Reason for permission denials (the engine's reason
// code). The wrapped cause is preserved for diagnostics but never contains
// credential material.
type Error struct {
	Kind   Kind
	Field  string
	Reason string
	Msg    string
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Msg)
	case e.Reason != "":
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a ValidationError naming the offending field.
func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

// Permission builds a PermissionError carrying the engine's reason code.
func Permission(reason, msg string) *Error {
	return &Error{Kind: KindPermission, Reason: reason, Msg: msg}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

// Persistence wraps a storage-layer failure after rollback.
func Persistence(cause error) *Error {
	return &Error{Kind: KindPersistence, Msg: "storage operation failed", cause: cause}
}

// Internal wraps an unexpected failure while preserving the original cause.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Msg: "unexpected error", cause: cause}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
