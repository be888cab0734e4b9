package groupbuy

import (
	"time"

	"linkcook-go/internal/domain/identity"
)

type GroupBuy struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	Title            string    `gorm:"not null"`
	Item             string    `gorm:"not null"`
	Description      string    `gorm:"not null;default:''"`
	TotalCapacity    int       `gorm:"not null"`
	PricePerUnit     int64     `gorm:"not null"`
	Deadline         time.Time `gorm:"not null;index"`
	Location         string    `gorm:"not null;default:''"`
	Region           string    `gorm:"not null;default:'';index"`
	Image            string    `gorm:"not null;default:''"`
	OwnerID          *string   `gorm:"index"`
	OwnerName        string    `gorm:"not null;default:''"`
	ParticipantCount int       `gorm:"not null;default:0"`
	Version          int64     `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Participants  []Participant `gorm:"-"`
	BookmarkedBy  []string      `gorm:"-"`
	BookmarkCount int           `gorm:"-"`
}

func (GroupBuy) TableName() string {
	return "group_buys"
}

type Participant struct {
	GroupBuyID  string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"primaryKey"`
	DisplayName string    `gorm:"not null;default:''"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`
}

func (Participant) TableName() string {
	return "group_buy_participants"
}

// HasParticipant reports membership from the loaded participant list.
func (g *GroupBuy) HasParticipant(userID string) bool {
	for _, participant := range g.Participants {
		if participant.UserID == userID {
			return true
		}
	}
	return false
}

func (g *GroupBuy) IsBookmarkedBy(userID string) bool {
	for _, id := range g.BookmarkedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type ListFilter struct {
	Query  string
	Region string
	Limit  int
	Offset int
}

type CreateInput struct {
	Owner         identity.Identity
	Title         string
	Item          string
	Description   string
	TotalCapacity int
	PricePerUnit  int64
	Deadline      time.Time
	Location      string
	Region        string
	Image         string
}

// UpdateInput is a partial update. A nil field leaves the stored value
// unchanged; an empty optional text field clears it.
type UpdateInput struct {
	Title         *string
	Item          *string
	Description   *string
	Location      *string
	Region        *string
	Image         *string
	TotalCapacity *int
	PricePerUnit  *int64
	Deadline      *time.Time
}

func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Item == nil && in.Description == nil &&
		in.Location == nil && in.Region == nil && in.Image == nil &&
		in.TotalCapacity == nil && in.PricePerUnit == nil && in.Deadline == nil
}

func (in UpdateInput) touchesSchedule() bool {
	return in.TotalCapacity != nil || in.Deadline != nil
}
