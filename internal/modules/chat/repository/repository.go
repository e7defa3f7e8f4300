package repository

import (
	"context"

	"anoa.com/socialhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SaveMessage(ctx context.Context, message *entity.ChatMessage) error
	// ListByChat returns only messages participantID sent or received.
	ListByChat(ctx context.Context, chatID, participantID uuid.UUID, limit, offset int) ([]entity.ChatMessage, int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SaveMessage(ctx context.Context, message *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListByChat(ctx context.Context, chatID, participantID uuid.UUID, limit, offset int) ([]entity.ChatMessage, int64, error) {
	var messages []entity.ChatMessage
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Where("chat_id = ?", chatID).
		Where("(from_user_id = ? OR to_user_id = ?)", participantID, participantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, total, err
}
