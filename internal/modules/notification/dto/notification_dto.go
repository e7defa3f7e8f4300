package dto

import (
	commonDto "anoa.com/socialhub/pkg/dto"
	"github.com/google/uuid"
)

// NotificationPayload is rebuilt from the stored record on every push and is never persisted.
type NotificationPayload struct {
	NotificationID     uuid.UUID  `json:"notification_id"`
	ActorUserID        uuid.UUID  `json:"actor_user_id"`
	ActorDisplayName   string     `json:"actor_display_name"`
	ActorAvatar        string     `json:"actor_avatar"`
	ActionType         string     `json:"action_type"`
	HumanMessage       string     `json:"human_message"`
	RelatedStoryID     *uuid.UUID `json:"related_story_id"`
	RelatedPostID      *uuid.UUID `json:"related_post_id"`
	RelatedCommentText string     `json:"related_comment_text,omitempty"`
	RelatedPhotoName   string     `json:"related_photo_name,omitempty"`
	IsDeleted          bool       `json:"is_deleted"`
	CreatedAt          string     `json:"created_at"`
	ModifiedAt         string     `json:"modified_at"`
}

type ListNotificationsQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type PaginatedNotificationsResponse struct {
	Data []NotificationPayload    `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
