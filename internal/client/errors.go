package client

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindForbidden        Kind = "forbidden"
	KindAlreadyClosed    Kind = "already_closed"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindTransport        Kind = "transport"
	KindCancelled        Kind = "cancelled"
)

// Error is the single failure type returned by the client. Status and Code
// are set when the server answered.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

// Sentinels for errors.Is. Matching compares kinds only, and a capacity
// rejection also matches ErrAlreadyClosed.
var (
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated, Message: "login required"}
	ErrForbidden        = &Error{Kind: KindForbidden, Message: "only the owner can change this"}
	ErrAlreadyClosed    = &Error{Kind: KindAlreadyClosed, Message: "group buy already closed"}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded, Message: "group buy is full"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "changed concurrently"}
	ErrTransport        = &Error{Kind: KindTransport, Message: "request failed"}
	ErrCancelled        = &Error{Kind: KindCancelled, Message: "cancelled"}
)

func (e *Error) Error() string {
	message := e.Message
	if message == "" {
		message = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", message, e.Err)
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindAlreadyClosed && e.Kind == KindCapacityExceeded
}

// Retryable reports whether the user may simply try again. Only transport
// failures qualify; rejections are final for the attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport
}

func Retryable(err error) bool {
	var clientErr *Error
	return errors.As(err, &clientErr) && clientErr.Retryable()
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
