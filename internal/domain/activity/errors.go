package activity

import "errors"

var ErrUnauthenticated = errors.New("login required")
