package user

import "time"

// Profile mirrors the identity provider's view of a user so that owner and
// participant names stay resolvable after the token expires.
type Profile struct {
	UserID      string    `gorm:"type:text;primaryKey"`
	DisplayName *string   `gorm:"type:text"`
	Email       *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
