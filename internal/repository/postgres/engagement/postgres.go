package engagement

import (
	"context"

	"gorm.io/gorm"

	engagementdomain "linkcook-go/internal/domain/engagement"
	"linkcook-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(engagementdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// Lock takes the per-entity advisory lock that entity deletes also hold.
func (r *PostgresRepository) Lock(ctx context.Context, kind engagementdomain.Kind, entityID string) error {
	return postgres.AdvisoryLock(ctx, r.db, engagementdomain.LockKey(kind, entityID))
}

func (r *PostgresRepository) DeleteMark(ctx context.Context, kind engagementdomain.Kind, entityID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&engagementdomain.Mark{}, "kind = ? AND entity_id = ? AND user_id = ?", string(kind), entityID, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) AddMark(ctx context.Context, mark *engagementdomain.Mark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *PostgresRepository) CountMarks(ctx context.Context, kind engagementdomain.Kind, entityID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&engagementdomain.Mark{}).
		Where("kind = ? AND entity_id = ?", string(kind), entityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) HasMark(ctx context.Context, kind engagementdomain.Kind, entityID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&engagementdomain.Mark{}).
		Where("kind = ? AND entity_id = ? AND user_id = ?", string(kind), entityID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
