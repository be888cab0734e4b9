package share

import (
	"errors"
	"fmt"

	"linkcook-go/internal/domain/ownership"
)

var (
	ErrShareNotFound    = errors.New("share not found")
	ErrUnauthenticated  = errors.New("login required")
	ErrForbidden        = ownership.ErrForbidden
	ErrInvalidInput     = errors.New("invalid input")
	ErrConcurrentUpdate = errors.New("share changed concurrently")
)

func invalid(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, message)
}
