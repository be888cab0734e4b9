package engagement

import "time"

type Kind string

const (
	KindGroupBuyBookmark Kind = "groupbuy_bookmark"
	KindRecipeLike       Kind = "recipe_like"
	KindShareBookmark    Kind = "share_bookmark"
)

// LockKey names the lock that serializes toggles on an entity with its
// deletion.
func LockKey(kind Kind, entityID string) string {
	return string(kind) + ":" + entityID
}

func (k Kind) Valid() bool {
	switch k {
	case KindGroupBuyBookmark, KindRecipeLike, KindShareBookmark:
		return true
	default:
		return false
	}
}

// Mark records that a user bookmarked or liked an entity.
type Mark struct {
	Kind      string    `gorm:"primaryKey"`
	EntityID  string    `gorm:"primaryKey"`
	UserID    string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Mark) TableName() string {
	return "engagement_marks"
}

type Result struct {
	IsMember bool  `json:"isMember"`
	Count    int64 `json:"count"`
}
