package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetKind names which foreign target column of a Notification is populated.
type TargetKind string

const (
	TargetLike    TargetKind = "like"
	TargetComment TargetKind = "comment"
	TargetRequest TargetKind = "request"
	TargetStory   TargetKind = "story"
)

// TargetKinds lists every kind; lookup tables keyed by TargetKind must cover all of them.
func TargetKinds() []TargetKind {
	return []TargetKind{TargetLike, TargetComment, TargetRequest, TargetStory}
}

type ActionType string

const (
	ActionFollowRequested        ActionType = "follow_requested"
	ActionFollowAccepted         ActionType = "follow_accepted"
	ActionFollowRequestWithdrawn ActionType = "follow_request_withdrawn"
	ActionPostLiked              ActionType = "post_liked"
	ActionPostCommented          ActionType = "post_commented"
	ActionStoryLiked             ActionType = "story_liked"
)

// Notification is never hard deleted. Repeated triggers for the same
// (from, to, kind, target) update the row in place.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_pair,priority:1" json:"from_user_id"`
	ToUserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_pair,priority:2;index:idx_notifications_inbox,priority:1" json:"to_user_id"`
	ActionType ActionType `gorm:"size:50;not null" json:"action_type"`
	TargetKind TargetKind `gorm:"size:20;not null" json:"target_kind"`
	LikeID     *uuid.UUID `gorm:"type:uuid;index" json:"like_id,omitempty"`
	CommentID  *uuid.UUID `gorm:"type:uuid;index" json:"comment_id,omitempty"`
	RequestID  *uuid.UUID `gorm:"type:uuid;index" json:"request_id,omitempty"`
	StoryID    *uuid.UUID `gorm:"type:uuid;index" json:"story_id,omitempty"`
	IsDeleted  bool       `gorm:"default:false" json:"is_deleted"`
	CreatedAt  time.Time  `gorm:"index:idx_notifications_inbox,priority:2" json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// TargetID returns whichever foreign target is populated, or uuid.Nil.
func (n *Notification) TargetID() uuid.UUID {
	for _, id := range []*uuid.UUID{n.LikeID, n.CommentID, n.RequestID, n.StoryID} {
		if id != nil {
			return *id
		}
	}
	return uuid.Nil
}
