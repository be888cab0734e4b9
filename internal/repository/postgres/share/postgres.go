package share

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"linkcook-go/internal/domain/engagement"
	sharedomain "linkcook-go/internal/domain/share"
	"linkcook-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(sharedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter sharedomain.ListFilter) ([]sharedomain.Share, int64, error) {
	query := r.db.WithContext(ctx).Model(&sharedomain.Share{})
	if filter.Query != "" {
		pattern := postgres.Like(filter.Query)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(item) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var shares []sharedomain.Share
	if err := query.Find(&shares).Error; err != nil {
		return nil, 0, err
	}
	if shares == nil {
		shares = []sharedomain.Share{}
	}
	for i := range shares {
		count, err := r.bookmarkCount(ctx, shares[i].ID)
		if err != nil {
			return nil, 0, err
		}
		shares[i].BookmarkCount = count
	}

	return shares, total, nil
}

func (r *PostgresRepository) bookmarkCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&engagement.Mark{}).
		Where("kind = ? AND entity_id = ?", string(engagement.KindShareBookmark), id).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*sharedomain.Share, error) {
	share, err := r.first(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	count, err := r.bookmarkCount(ctx, id)
	if err != nil {
		return nil, err
	}
	share.BookmarkCount = count
	return share, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*sharedomain.Share, error) {
	return r.first(postgres.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *PostgresRepository) first(db *gorm.DB, id string) (*sharedomain.Share, error) {
	if !postgres.ValidID(id) {
		return nil, sharedomain.ErrShareNotFound
	}

	var share sharedomain.Share
	if err := db.Where("id = ?", id).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharedomain.ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *PostgresRepository) Create(ctx context.Context, share *sharedomain.Share) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error) {
	values := make(map[string]interface{}, len(updates)+2)
	for column, value := range updates {
		values[column] = value
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&sharedomain.Share{}).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if err := postgres.AdvisoryLock(ctx, r.db, engagement.LockKey(engagement.KindShareBookmark, id)); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Delete(&engagement.Mark{}, "kind = ? AND entity_id = ?", string(engagement.KindShareBookmark), id).Error; err != nil {
		return err
	}
	return db.Delete(&sharedomain.Share{}, "id = ?", id).Error
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !postgres.ValidID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sharedomain.Share{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
