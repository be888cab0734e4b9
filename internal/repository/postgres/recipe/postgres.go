package recipe

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"linkcook-go/internal/domain/engagement"
	recipedomain "linkcook-go/internal/domain/recipe"
	"linkcook-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(recipedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter recipedomain.ListFilter) ([]recipedomain.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&recipedomain.Recipe{})
	if filter.Query != "" {
		pattern := postgres.Like(filter.Query)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", pattern, pattern)
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

	var recipes []recipedomain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	if recipes == nil {
		recipes = []recipedomain.Recipe{}
	}
	for i := range recipes {
		count, err := r.likeCount(ctx, recipes[i].ID)
		if err != nil {
			return nil, 0, err
		}
		recipes[i].LikeCount = count
	}

	return recipes, total, nil
}

func (r *PostgresRepository) likeCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&engagement.Mark{}).
		Where("kind = ? AND entity_id = ?", string(engagement.KindRecipeLike), id).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*recipedomain.Recipe, error) {
	recipe, err := r.first(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	count, err := r.likeCount(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.LikeCount = count
	return recipe, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*recipedomain.Recipe, error) {
	return r.first(postgres.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *PostgresRepository) first(db *gorm.DB, id string) (*recipedomain.Recipe, error) {
	if !postgres.ValidID(id) {
		return nil, recipedomain.ErrRecipeNotFound
	}

	var recipe recipedomain.Recipe
	if err := db.Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipedomain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *recipedomain.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error) {
	values := make(map[string]interface{}, len(updates)+2)
	for column, value := range updates {
		values[column] = value
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&recipedomain.Recipe{}).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if err := postgres.AdvisoryLock(ctx, r.db, engagement.LockKey(engagement.KindRecipeLike, id)); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Delete(&engagement.Mark{}, "kind = ? AND entity_id = ?", string(engagement.KindRecipeLike), id).Error; err != nil {
		return err
	}
	return db.Delete(&recipedomain.Recipe{}, "id = ?", id).Error
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !postgres.ValidID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&recipedomain.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
