package engagement

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Lock serializes toggles on one entity for the rest of the transaction.
	Lock(ctx context.Context, kind Kind, entityID string) error
	DeleteMark(ctx context.Context, kind Kind, entityID, userID string) (bool, error)
	AddMark(ctx context.Context, mark *Mark) error
	CountMarks(ctx context.Context, kind Kind, entityID string) (int64, error)
	HasMark(ctx context.Context, kind Kind, entityID, userID string) (bool, error)
}
