package api

import (
	"time"

	"linkcook-go/internal/domain/countdown"
	"linkcook-go/internal/domain/groupbuy"
)

type Remaining struct {
	Closed  bool   `json:"closed"`
	Days    int    `json:"days"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

func FromRemaining(r countdown.Remaining) Remaining {
	return Remaining{Closed: r.Closed, Days: r.Days, Hours: r.Hours, Minutes: r.Minutes, Text: r.String()}
}

type Participant struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// GroupBuy is the authoritative snapshot returned after every read and
// mutation. Derived fields are computed at response time.
type GroupBuy struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Item             string        `json:"item"`
	Description      string        `json:"description"`
	TotalQuantity    int           `json:"totalQuantity"`
	PricePerUnit     int64         `json:"pricePerUnit"`
	Deadline         time.Time     `json:"deadline"`
	Location         string        `json:"location"`
	Region           string        `json:"region"`
	Image            string        `json:"image"`
	OwnerID          *string       `json:"ownerId"`
	OwnerName        string        `json:"ownerName"`
	Participants     []Participant `json:"participants"`
	ParticipantCount int           `json:"participantCount"`
	BookmarkedBy     []string      `json:"bookmarkedBy"`
	BookmarkCount    int           `json:"bookmarkCount"`
	ProgressPercent  int           `json:"progressPercent"`
	Status           string        `json:"status"`
	Remaining        Remaining     `json:"remaining"`
	Version          int64         `json:"version"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func FromGroupBuy(g *groupbuy.GroupBuy, now time.Time) GroupBuy {
	participants := make([]Participant, 0, len(g.Participants))
	for _, p := range g.Participants {
		participants = append(participants, Participant{UserID: p.UserID, DisplayName: p.DisplayName, JoinedAt: p.JoinedAt})
	}
	bookmarkedBy := g.BookmarkedBy
	if bookmarkedBy == nil {
		bookmarkedBy = []string{}
	}

	return GroupBuy{
		ID:               g.ID,
		Title:            g.Title,
		Item:             g.Item,
		Description:      g.Description,
		TotalQuantity:    g.TotalCapacity,
		PricePerUnit:     g.PricePerUnit,
		Deadline:         g.Deadline,
		Location:         g.Location,
		Region:           g.Region,
		Image:            g.Image,
		OwnerID:          g.OwnerID,
		OwnerName:        g.OwnerName,
		Participants:     participants,
		ParticipantCount: g.ParticipantCount,
		BookmarkedBy:     bookmarkedBy,
		BookmarkCount:    g.BookmarkCount,
		ProgressPercent:  groupbuy.ProgressPercent(g),
		Status:           string(groupbuy.StatusAt(g, now)),
		Remaining:        FromRemaining(groupbuy.Remaining(g, now)),
		Version:          g.Version,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

// Domain converts the snapshot back so clients can recompute derived state
// locally. ParticipantCount falls back to the participant list length.
func (g GroupBuy) Domain() *groupbuy.GroupBuy {
	participants := make([]groupbuy.Participant, 0, len(g.Participants))
	for _, p := range g.Participants {
		participants = append(participants, groupbuy.Participant{
			GroupBuyID:  g.ID,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			JoinedAt:    p.JoinedAt,
		})
	}
	count := g.ParticipantCount
	if count < len(participants) {
		count = len(participants)
	}

	return &groupbuy.GroupBuy{
		ID:               g.ID,
		Title:            g.Title,
		Item:             g.Item,
		Description:      g.Description,
		TotalCapacity:    g.TotalQuantity,
		PricePerUnit:     g.PricePerUnit,
		Deadline:         g.Deadline,
		Location:         g.Location,
		Region:           g.Region,
		Image:            g.Image,
		OwnerID:          g.OwnerID,
		OwnerName:        g.OwnerName,
		ParticipantCount: count,
		Version:          g.Version,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		Participants:     participants,
		BookmarkedBy:     append([]string(nil), g.BookmarkedBy...),
		BookmarkCount:    g.BookmarkCount,
	}
}

type CreateGroupBuyRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Item          string `json:"item" validate:"required,max=200"`
	Description   string `json:"description,omitempty" validate:"max=5000"`
	TotalQuantity int    `json:"totalQuantity" validate:"required,gt=0"`
	PricePerUnit  *int64 `json:"pricePerUnit" validate:"required,gte=0"`
	Deadline      string `json:"deadline" validate:"required"`
	Location      string `json:"location,omitempty" validate:"max=200"`
	Region        string `json:"region,omitempty" validate:"max=100"`
	Image         string `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdateGroupBuyRequest is a partial update. Absent or null fields are left
// unchanged; an empty string clears optional text.
type UpdateGroupBuyRequest struct {
	Auth0ID       string  `json:"auth0Id,omitempty"`
	Title         *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Item          *string `json:"item,omitempty" validate:"omitempty,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	TotalQuantity *int    `json:"totalQuantity,omitempty"`
	PricePerUnit  *int64  `json:"pricePerUnit,omitempty"`
	Deadline      *string `json:"deadline,omitempty"`
	Location      *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Region        *string `json:"region,omitempty" validate:"omitempty,max=100"`
	Image         *string `json:"image,omitempty" validate:"omitempty,max=2000"`
}

type JoinRequest struct {
	Count   *int   `json:"count,omitempty"`
	Auth0ID string `json:"auth0Id,omitempty"`
}

// ActorRequest is the optional body of delete and toggle calls.
type ActorRequest struct {
	Auth0ID string `json:"auth0Id,omitempty"`
}
