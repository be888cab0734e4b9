package recipe

import (
	"time"

	"gorm.io/datatypes"
)

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

type Step struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

type Recipe struct {
	ID          string                         `gorm:"type:uuid;primaryKey"`
	Title       string                         `gorm:"not null"`
	Description string                         `gorm:"not null;default:''"`
	Ingredients datatypes.JSONSlice[Ingredient] `gorm:"not null"`
	Steps       datatypes.JSONSlice[Step]       `gorm:"not null"`
	Image       string                         `gorm:"not null;default:''"`
	OwnerID     *string                        `gorm:"index"`
	Author      string                         `gorm:"not null;default:''"`
	Version     int64                          `gorm:"not null;default:1"`
	CreatedAt   time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                      `gorm:"autoUpdateTime"`

	LikeCount int64 `gorm:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}

type CreateInput struct {
	Title       string
	Description string
	Ingredients []Ingredient
	Steps       []Step
	Image       string
	Author      string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Image       *string
	Author      *string
	Ingredients *[]Ingredient
	Steps       *[]Step
}
