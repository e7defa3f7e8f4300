package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the account service; this module only reads it for display data.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the profile's full name over the username.
func (u *User) DisplayName() string {
	if u.Profile != nil && u.Profile.FullName != "" {
		return u.Profile.FullName
	}
	return u.Username
}

type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
