package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/socialhub/internal/entity"
	notifDto "anoa.com/socialhub/internal/modules/notification/dto"
	notifRepo "anoa.com/socialhub/internal/modules/notification/repository"
	"anoa.com/socialhub/pkg/apperror"
	commonDto "anoa.com/socialhub/pkg/dto"
	"github.com/google/uuid"
)

// Trigger describes one user action that should notify another user.
type Trigger struct {
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	ActionType entity.ActionType
	TargetKind entity.TargetKind
	TargetID   uuid.UUID
	// Active is false when the action is being undone (unlike, withdraw).
	Active bool
}

// ContentLookup is the read side of the relational store used for display data.
type ContentLookup interface {
	GetDisplayName(ctx context.Context, userID uuid.UUID) (name string, avatarURL string, err error)
	GetPostMediaName(ctx context.Context, postID uuid.UUID) (string, error)
	GetStoryMediaName(ctx context.Context, storyID uuid.UUID) (string, error)
	FindLike(ctx context.Context, likeID uuid.UUID) (*entity.Like, error)
	FindComment(ctx context.Context, commentID uuid.UUID) (*entity.Comment, error)
}

type NotificationService interface {
	// Notify upserts the single record for the trigger's dedup key and returns
	// the payload to push. It never pushes itself.
	Notify(ctx context.Context, trigger Trigger) (*notifDto.NotificationPayload, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) (*notifDto.PaginatedNotificationsResponse, error)
}

type Options struct {
	// StoryDeletedPolicy applies to story targets; other kinds use HideWhenInactive.
	StoryDeletedPolicy DeletedPolicy
	Now                func() time.Time
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	content     ContentLookup
	storyPolicy DeletedPolicy
	now         func() time.Time
}

func NewNotificationService(repo notifRepo.NotificationRepository, content ContentLookup, opts Options) NotificationService {
	if opts.StoryDeletedPolicy == nil {
		opts.StoryDeletedPolicy = HideWhenInactive
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &notificationService{
		repo:        repo,
		content:     content,
		storyPolicy: opts.StoryDeletedPolicy,
		now:         opts.Now,
	}
}

// Two concurrent triggers for the same key can both miss in FindByKey and
// insert twice; the store offers no compare-and-swap here.
func (s *notificationService) Notify(ctx context.Context, t Trigger) (*notifDto.NotificationPayload, error) {
	target, err := lookupTarget(t.TargetKind)
	if err != nil {
		log.Printf("[notification] %v", err)
		return nil, err
	}

	existing, err := s.repo.FindByKey(ctx, t.FromUserID, t.ToUserID, target.column, t.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: find notification: %v", apperror.ErrPersistence, err)
	}

	now := s.now()
	record := existing
	if record == nil {
		record = &entity.Notification{
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			TargetKind: t.TargetKind,
			CreatedAt:  now,
		}
		target.assign(record, t.TargetID)
	} else if now.Before(record.ModifiedAt) {
		now = record.ModifiedAt
	}

	record.ActionType = t.ActionType
	record.ModifiedAt = now
	record.IsDeleted = s.deletedFlag(t)

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: save notification: %v", apperror.ErrPersistence, err)
	}

	return s.buildPayload(ctx, record), nil
}

func (s *notificationService) deletedFlag(t Trigger) bool {
	if t.TargetKind == entity.TargetStory {
		return s.storyPolicy(t.Active)
	}
	return HideWhenInactive(t.Active)
}

func (s *notificationService) buildPayload(ctx context.Context, n *entity.Notification) *notifDto.NotificationPayload {
	p := &notifDto.NotificationPayload{
		NotificationID: n.ID,
		ActorUserID:    n.FromUserID,
		ActionType:     string(n.ActionType),
		HumanMessage:   HumanMessage(n.ActionType),
		IsDeleted:      n.IsDeleted,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		ModifiedAt:     n.ModifiedAt.Format(time.RFC3339),
	}

	name, avatar, err := s.content.GetDisplayName(ctx, n.FromUserID)
	if err != nil {
		logLookup("user", n.FromUserID, err)
	} else {
		p.ActorDisplayName = name
		p.ActorAvatar = avatar
	}

	if entry, ok := actions[n.ActionType]; ok && entry.related != nil {
		entry.related(ctx, s, n, p)
	}
	return p
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, page, limit int) (*notifDto.PaginatedNotificationsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	records, total, err := s.repo.ListForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	data := make([]notifDto.NotificationPayload, 0, len(records))
	for i := range records {
		data = append(data, *s.buildPayload(ctx, &records[i]))
	}

	return &notifDto.PaginatedNotificationsResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}
