package groupbuy

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]GroupBuy, int64, error)
	// GetByID loads the row with its participants and bookmarks.
	GetByID(ctx context.Context, id string) (*GroupBuy, error)
	// GetForUpdate loads the bare row and locks it for the rest of the transaction.
	GetForUpdate(ctx context.Context, id string) (*GroupBuy, error)
	IsParticipant(ctx context.Context, id, userID string) (bool, error)
	Create(ctx context.Context, groupBuy *GroupBuy) error
	// UpdateFields applies updates when the stored version still matches and
	// bumps the version. It reports whether a row was changed.
	UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error)
	// AddParticipant reports false when the participant already exists.
	AddParticipant(ctx context.Context, participant *Participant) (bool, error)
	// IncrementParticipants adds one participant to the counter unless the
	// capacity is reached or the version moved.
	IncrementParticipants(ctx context.Context, id string, version int64) (bool, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
