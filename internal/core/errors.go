package core

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Handlers map them to HTTP statuses.
var (
	ErrInvalidArgument    = errors.New("invalid-argument")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrPermissionDenied   = errors.New("permission-denied")
	ErrConflict           = errors.New("already-exists")
	ErrFailedPrecondition = errors.New("failed-precondition")
	ErrNotFound           = errors.New("not-found")
	ErrDeadlineExceeded   = errors.New("deadline-exceeded")
	ErrInternal           = errors.New("internal")
)

// Error pairs a kind with a message that is safe to show the caller.
// Cause holds internal detail for logs only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// PublicMessage returns the caller-safe message carried by err, or fallback.
func PublicMessage(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
