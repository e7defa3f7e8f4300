package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Posts, stories, likes, comments and follow requests are written by the CRUD
// layer. Notifications only reference them and read display data back.

type Post struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Caption   string      `gorm:"type:text" json:"caption"`
	Media     []PostMedia `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type PostMedia struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index:idx_post_media_order,priority:1" json:"post_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Position int       `gorm:"not null;default:0;index:idx_post_media_order,priority:2" json:"position"`
}

type Story struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MediaName string    `gorm:"size:255;not null" json:"media_name"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index:idx_likes_unique,unique,priority:1" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_likes_unique,unique,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}

// StoryLike is written and removed by the stories CRUD layer.
type StoryLike struct {
	StoryID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"story_id"`
	Story     *Story    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type FollowRequestStatus string

const (
	FollowRequestPending   FollowRequestStatus = "pending"
	FollowRequestAccepted  FollowRequestStatus = "accepted"
	FollowRequestWithdrawn FollowRequestStatus = "withdrawn"
)

type FollowRequest struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID           `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"to_user_id"`
	Status     FollowRequestStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (r *FollowRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
