package recipe

import (
	"errors"
	"fmt"

	"linkcook-go/internal/domain/ownership"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrUnauthenticated  = errors.New("login required")
	ErrForbidden        = ownership.ErrForbidden
	ErrInvalidInput     = errors.New("invalid input")
	ErrConcurrentUpdate = errors.New("recipe changed concurrently")
)

func invalid(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, message)
}
