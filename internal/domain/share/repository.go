package share

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Share, int64, error)
	GetByID(ctx context.Context, id string) (*Share, error)
	GetForUpdate(ctx context.Context, id string) (*Share, error)
	Create(ctx context.Context, share *Share) error
	UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
