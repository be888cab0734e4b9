package groupbuy

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkcook-go/internal/domain/engagement"
	groupbuydomain "linkcook-go/internal/domain/groupbuy"
	"linkcook-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupbuydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter groupbuydomain.ListFilter) ([]groupbuydomain.GroupBuy, int64, error) {
	query := r.db.WithContext(ctx).Model(&groupbuydomain.GroupBuy{})
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

	query = query.Order("deadline asc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []groupbuydomain.GroupBuy
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return []groupbuydomain.GroupBuy{}, total, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	counts, err := r.bookmarkCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].BookmarkCount = counts[items[i].ID]
	}

	return items, total, nil
}

func (r *PostgresRepository) bookmarkCounts(ctx context.Context, ids []string) (map[string]int, error) {
	type countRow struct {
		EntityID string `gorm:"column:entity_id"`
		Total    int    `gorm:"column:total"`
	}

	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&engagement.Mark{}).
		Select("entity_id, COUNT(*) AS total").
		Where("kind = ? AND entity_id IN ?", string(engagement.KindGroupBuyBookmark), ids).
		Group("entity_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.EntityID] = row.Total
	}
	return counts, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*groupbuydomain.GroupBuy, error) {
	groupBuy, err := r.first(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	var participants []groupbuydomain.Participant
	if err := r.db.WithContext(ctx).
		Where("group_buy_id = ?", id).
		Order("joined_at asc, user_id asc").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	var bookmarkedBy []string
	if err := r.db.WithContext(ctx).
		Model(&engagement.Mark{}).
		Where("kind = ? AND entity_id = ?", string(engagement.KindGroupBuyBookmark), id).
		Order("created_at asc, user_id asc").
		Pluck("user_id", &bookmarkedBy).Error; err != nil {
		return nil, err
	}

	if participants == nil {
		participants = []groupbuydomain.Participant{}
	}
	if bookmarkedBy == nil {
		bookmarkedBy = []string{}
	}
	groupBuy.Participants = participants
	groupBuy.BookmarkedBy = bookmarkedBy
	groupBuy.BookmarkCount = len(bookmarkedBy)
	return groupBuy, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*groupbuydomain.GroupBuy, error) {
	return r.first(postgres.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *PostgresRepository) first(db *gorm.DB, id string) (*groupbuydomain.GroupBuy, error) {
	if !postgres.ValidID(id) {
		return nil, groupbuydomain.ErrGroupBuyNotFound
	}

	var groupBuy groupbuydomain.GroupBuy
	if err := db.Where("id = ?", id).First(&groupBuy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupbuydomain.ErrGroupBuyNotFound
		}
		return nil, err
	}
	return &groupBuy, nil
}

func (r *PostgresRepository) IsParticipant(ctx context.Context, id, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupbuydomain.Participant{}).
		Where("group_buy_id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, groupBuy *groupbuydomain.GroupBuy) error {
	return r.db.WithContext(ctx).Create(groupBuy).Error
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error) {
	values := make(map[string]interface{}, len(updates)+2)
	for column, value := range updates {
		values[column] = value
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&groupbuydomain.GroupBuy{}).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, participant *groupbuydomain.Participant) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(participant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) IncrementParticipants(ctx context.Context, id string, version int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&groupbuydomain.GroupBuy{}).
		Where("id = ? AND version = ? AND participant_count < total_capacity", id, version).
		Updates(map[string]interface{}{
			"participant_count": gorm.Expr("participant_count + 1"),
			"version":           gorm.Expr("version + 1"),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if err := postgres.AdvisoryLock(ctx, r.db, engagement.LockKey(engagement.KindGroupBuyBookmark, id)); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Delete(&groupbuydomain.Participant{}, "group_buy_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Delete(&engagement.Mark{}, "kind = ? AND entity_id = ?", string(engagement.KindGroupBuyBookmark), id).Error; err != nil {
		return err
	}
	return db.Delete(&groupbuydomain.GroupBuy{}, "id = ?", id).Error
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !postgres.ValidID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupbuydomain.GroupBuy{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
