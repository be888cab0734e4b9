package activity

import "context"

type Repository interface {
	Summary(ctx context.Context, userID string) (Summary, error)
}
