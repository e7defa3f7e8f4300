package dto

import (
	"time"

	"anoa.com/socialhub/internal/entity"
	commonDto "anoa.com/socialhub/pkg/dto"
	"github.com/google/uuid"
)

// SendMessageRequest is the body of SendMessageToUser, over HTTP or the socket.
type SendMessageRequest struct {
	ToUserID uuid.UUID `json:"to_user_id" binding:"required" validate:"required"`
	ChatID   uuid.UUID `json:"chat_id" validate:"required"`
	Text     string    `json:"text" binding:"required,max=4000" validate:"required,max=4000"`
}

type ListMessagesQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ChatMessageResponse is the ReceiveMessage payload.
type ChatMessageResponse struct {
	ID          uuid.UUID `json:"id"`
	ChatID      uuid.UUID `json:"chat_id"`
	FromUserID  uuid.UUID `json:"from_user_id"`
	ToUserID    uuid.UUID `json:"to_user_id"`
	Text        string    `json:"text"`
	IsSeen      bool      `json:"is_seen"`
	IsDelivered bool      `json:"is_delivered"`
	CreatedAt   string    `json:"created_at"`
}

type PaginatedMessagesResponse struct {
	Data []ChatMessageResponse    `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

func ToChatMessageResponse(m *entity.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:          m.ID,
		ChatID:      m.ChatID,
		FromUserID:  m.FromUserID,
		ToUserID:    m.ToUserID,
		Text:        m.Text,
		IsSeen:      m.IsSeen,
		IsDelivered: m.IsDelivered,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
