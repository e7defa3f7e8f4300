package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID      uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_chat,priority:1" json:"chat_id"`
	FromUserID  uuid.UUID `gorm:"type:uuid;not null" json:"from_user_id"`
	ToUserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"to_user_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsSeen      bool      `gorm:"default:false" json:"is_seen"`
	IsDelivered bool      `gorm:"default:false" json:"is_delivered"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_chat_messages_chat,priority:2" json:"created_at"`
}

func (m *ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
