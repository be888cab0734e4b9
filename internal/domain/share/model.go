package share

import (
	"time"

	"linkcook-go/internal/domain/countdown"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

// Share is a giveaway of surplus food.
type Share struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"not null;default:''"`
	Item        string     `gorm:"not null"`
	Description string     `gorm:"not null;default:''"`
	Quantity    float64    `gorm:"not null;default:0"`
	Unit        string     `gorm:"not null;default:''"`
	Expiry      *time.Time `gorm:"index"`
	Location    string     `gorm:"not null;default:''"`
	Region      string     `gorm:"not null;default:'';index"`
	Image       string     `gorm:"not null;default:''"`
	Status      Status     `gorm:"type:varchar(16);not null;default:'open'"`
	OwnerID     *string    `gorm:"index"`
	OwnerName   string     `gorm:"not null;default:''"`
	Version     int64      `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`

	BookmarkCount int64 `gorm:"-"`
}

func (Share) TableName() string {
	return "shares"
}

// DisplayTitle falls back to the item when no title was given.
func (s *Share) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Item
}

func IsExpired(s *Share, now time.Time) bool {
	return s.Expiry != nil && !now.Before(*s.Expiry)
}

func IsClosed(s *Share, now time.Time) bool {
	return s.Status == StatusClosed || IsExpired(s, now)
}

func Remaining(s *Share, now time.Time) countdown.Remaining {
	if s.Status == StatusClosed {
		return countdown.Closed()
	}
	if s.Expiry == nil {
		return countdown.Remaining{}
	}
	return countdown.Until(*s.Expiry, now)
}

type ListFilter struct {
	Query  string
	Region string
	Limit  int
	Offset int
}

type CreateInput struct {
	Title       string
	Item        string
	Description string
	Quantity    float64
	Unit        string
	Expiry      *time.Time
	Location    string
	Region      string
	Image       string
}

// UpdateInput is a partial update. ClearExpiry removes the expiry date.
type UpdateInput struct {
	Title       *string
	Item        *string
	Description *string
	Quantity    *float64
	Unit        *string
	Expiry      *time.Time
	ClearExpiry bool
	Location    *string
	Region      *string
	Image       *string
	Status      *Status
}
