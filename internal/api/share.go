package api

import (
	"time"

	"linkcook-go/internal/domain/share"
)

type Share struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Item          string     `json:"item"`
	Description   string     `json:"description"`
	Quantity      float64    `json:"quantity"`
	Unit          string     `json:"unit"`
	Expiry        *time.Time `json:"expiry"`
	Location      string     `json:"location"`
	Region        string     `json:"region"`
	Image         string     `json:"image"`
	Status        string     `json:"status"`
	Closed        bool       `json:"closed"`
	Remaining     Remaining  `json:"remaining"`
	OwnerID       *string    `json:"ownerId"`
	OwnerName     string     `json:"ownerName"`
	BookmarkCount int64      `json:"bookmarkCount"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func FromShare(s *share.Share, now time.Time) Share {
	return Share{
		ID:            s.ID,
		Title:         s.DisplayTitle(),
		Item:          s.Item,
		Description:   s.Description,
		Quantity:      s.Quantity,
		Unit:          s.Unit,
		Expiry:        s.Expiry,
		Location:      s.Location,
		Region:        s.Region,
		Image:         s.Image,
		Status:        string(s.Status),
		Closed:        share.IsClosed(s, now),
		Remaining:     FromRemaining(share.Remaining(s, now)),
		OwnerID:       s.OwnerID,
		OwnerName:     s.OwnerName,
		BookmarkCount: s.BookmarkCount,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type CreateShareRequest struct {
	Title       string   `json:"title,omitempty" validate:"max=200"`
	Item        string   `json:"item" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        string   `json:"unit,omitempty" validate:"max=20"`
	Expiry      string   `json:"expiry,omitempty"`
	Location    string   `json:"location,omitempty" validate:"max=200"`
	Region      string   `json:"region,omitempty" validate:"max=100"`
	Image       string   `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdateShareRequest clears the expiry when it is sent as an empty string.
type UpdateShareRequest struct {
	Auth0ID     string   `json:"auth0Id,omitempty"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Item        *string  `json:"item,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	Expiry      *string  `json:"expiry,omitempty"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	Region      *string  `json:"region,omitempty" validate:"omitempty,max=100"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,max=2000"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=open closed"`
}
