package activity

import (
	"context"

	"gorm.io/gorm"

	activitydomain "linkcook-go/internal/domain/activity"
	"linkcook-go/internal/domain/engagement"
	"linkcook-go/internal/domain/share"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const summaryQuery = `SELECT
	(SELECT COUNT(*) FROM group_buys WHERE owner_id = @user) AS group_buys_opened,
	(SELECT COUNT(*) FROM group_buy_participants WHERE user_id = @user) AS group_buys_joined,
	(SELECT COUNT(*) FROM recipes WHERE owner_id = @user) AS recipes_written,
	(SELECT COUNT(*) FROM shares WHERE owner_id = @user) AS shares_posted,
	(SELECT COUNT(*) FROM shares WHERE owner_id = @user AND status = @open) AS open_shares,
	(SELECT COUNT(*) FROM engagement_marks WHERE user_id = @user AND kind IN @bookmarks) AS bookmarks,
	(SELECT COUNT(*) FROM engagement_marks WHERE user_id = @user AND kind = @like) AS recipes_liked`

func (r *PostgresRepository) Summary(ctx context.Context, userID string) (activitydomain.Summary, error) {
	var row struct {
		GroupBuysOpened int64 `gorm:"column:group_buys_opened"`
		GroupBuysJoined int64 `gorm:"column:group_buys_joined"`
		RecipesWritten  int64 `gorm:"column:recipes_written"`
		SharesPosted    int64 `gorm:"column:shares_posted"`
		OpenShares      int64 `gorm:"column:open_shares"`
		Bookmarks       int64 `gorm:"column:bookmarks"`
		RecipesLiked    int64 `gorm:"column:recipes_liked"`
	}

	args := map[string]interface{}{
		"user":      userID,
		"open":      string(share.StatusOpen),
		"bookmarks": []string{string(engagement.KindGroupBuyBookmark), string(engagement.KindShareBookmark)},
		"like":      string(engagement.KindRecipeLike),
	}
	if err := r.db.WithContext(ctx).Raw(summaryQuery, args).Scan(&row).Error; err != nil {
		return activitydomain.Summary{}, err
	}

	return activitydomain.Summary(row), nil
}
