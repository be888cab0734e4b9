package groupbuy

import (
	"errors"
	"fmt"

	"linkcook-go/internal/domain/ownership"
)

var (
	ErrGroupBuyNotFound   = errors.New("group buy not found")
	ErrUnauthenticated    = errors.New("login required")
	ErrForbidden          = ownership.ErrForbidden
	ErrAlreadyClosed      = errors.New("group buy already closed")
	ErrCapacityExceeded   = fmt.Errorf("%w: capacity exceeded", ErrAlreadyClosed)
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidUnits       = fmt.Errorf("%w: exactly one unit per participant", ErrInvalidInput)
	ErrCapacityBelowCount = fmt.Errorf("%w: capacity below current participant count", ErrInvalidInput)
	ErrConcurrentUpdate   = errors.New("group buy changed concurrently")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
