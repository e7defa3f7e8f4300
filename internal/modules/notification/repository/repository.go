package repository

import (
	"context"

	"anoa.com/socialhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	// FindByKey returns (nil, nil) when no record matches.
	FindByKey(ctx context.Context, fromUserID, toUserID uuid.UUID, targetColumn string, targetID uuid.UUID) (*entity.Notification, error)
	// Upsert inserts records without an id and updates the rest in place.
	Upsert(ctx context.Context, notification *entity.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) FindByKey(ctx context.Context, fromUserID, toUserID uuid.UUID, targetColumn string, targetID uuid.UUID) (*entity.Notification, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var existing []entity.Notification
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Where(clause.Eq{Column: clause.Column{Name: targetColumn}, Value: targetID}).
		Order("created_at asc").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *notificationRepository) Upsert(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		return r.db.WithContext(ctx).Create(notification).Error
	}
	return r.db.WithContext(ctx).
		Model(notification).
		Select("action_type", "is_deleted", "modified_at").
		Updates(notification).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	var notifications []entity.Notification
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("to_user_id = ? AND is_deleted = ?", userID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("modified_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}
