package engagement

import "errors"

var (
	ErrUnauthenticated = errors.New("login required")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrUnknownKind     = errors.New("unknown engagement kind")
)
