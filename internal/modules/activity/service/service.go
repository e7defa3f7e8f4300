package service

import (
	"context"
	"fmt"

	"anoa.com/socialhub/internal/entity"
	activityDto "anoa.com/socialhub/internal/modules/activity/dto"
	notification "anoa.com/socialhub/internal/modules/notification/service"
	"anoa.com/socialhub/internal/modules/presence/gateway"
	"anoa.com/socialhub/pkg/apperror"
	"github.com/google/uuid"
)

// OwnerLookup resolves who owns the thing an action targets.
type OwnerLookup interface {
	FindLike(ctx context.Context, likeID uuid.UUID) (*entity.Like, error)
	FindComment(ctx context.Context, commentID uuid.UUID) (*entity.Comment, error)
	FindPost(ctx context.Context, postID uuid.UUID) (*entity.Post, error)
	FindStory(ctx context.Context, storyID uuid.UUID) (*entity.Story, error)
	HasStoryLike(ctx context.Context, storyID, userID uuid.UUID) (bool, error)
	FindFollowRequest(ctx context.Context, requestID uuid.UUID) (*entity.FollowRequest, error)
}

// ActivityService is called by the CRUD layer after it has written a like,
// comment, follow request or story like.
type ActivityService interface {
	Trigger(ctx context.Context, trigger notification.Trigger) (*activityDto.ActivityResponse, error)

	// LikePost must be called while the like row still exists, also on unlike.
	LikePost(ctx context.Context, actorID, likeID uuid.UUID, active bool) (*activityDto.ActivityResponse, error)
	CommentPost(ctx context.Context, actorID, commentID uuid.UUID) (*activityDto.ActivityResponse, error)
	FollowRequest(ctx context.Context, actorID, requestID uuid.UUID, transition activityDto.FollowTransition) (*activityDto.ActivityResponse, error)
	// LikeStory is called after the story like row was written (active) or
	// removed (inactive); the row must agree with active.
	LikeStory(ctx context.Context, actorID, storyID uuid.UUID, active bool) (*activityDto.ActivityResponse, error)
}

type activityService struct {
	notifications notification.NotificationService
	owners        OwnerLookup
	pusher        gateway.Pusher
}

func NewActivityService(notifications notification.NotificationService, owners OwnerLookup, pusher gateway.Pusher) ActivityService {
	return &activityService{
		notifications: notifications,
		owners:        owners,
		pusher:        pusher,
	}
}

func (s *activityService) Trigger(ctx context.Context, t notification.Trigger) (*activityDto.ActivityResponse, error) {
	// 1. Persist the notification record
	payload, err := s.notifications.Notify(ctx, t)
	if err != nil {
		return nil, err
	}

	resp := &activityDto.ActivityResponse{Notification: payload}

	// 2. Push to the recipient, never to yourself
	if t.FromUserID != t.ToUserID {
		resp.Pushed = s.pusher.Push(t.ToUserID, gateway.EventReceiveNotification, payload)
	}

	return resp, nil
}

func (s *activityService) LikePost(ctx context.Context, actorID, likeID uuid.UUID, active bool) (*activityDto.ActivityResponse, error) {
	like, err := s.owners.FindLike(ctx, likeID)
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	if like.UserID != actorID {
		return nil, fmt.Errorf("like %s belongs to another user: %w", likeID, apperror.ErrForbidden)
	}

	ownerID, err := s.postOwner(ctx, like.Post, like.PostID)
	if err != nil {
		return nil, err
	}

	return s.Trigger(ctx, notification.Trigger{
		FromUserID: actorID,
		ToUserID:   ownerID,
		ActionType: entity.ActionPostLiked,
		TargetKind: entity.TargetLike,
		TargetID:   likeID,
		Active:     active,
	})
}

func (s *activityService) CommentPost(ctx context.Context, actorID, commentID uuid.UUID) (*activityDto.ActivityResponse, error) {
	comment, err := s.owners.FindComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment.UserID != actorID {
		return nil, fmt.Errorf("comment %s belongs to another user: %w", commentID, apperror.ErrForbidden)
	}

	ownerID, err := s.postOwner(ctx, comment.Post, comment.PostID)
	if err != nil {
		return nil, err
	}

	return s.Trigger(ctx, notification.Trigger{
		FromUserID: actorID,
		ToUserID:   ownerID,
		ActionType: entity.ActionPostCommented,
		TargetKind: entity.TargetComment,
		TargetID:   commentID,
		Active:     true,
	})
}

// FollowRequest announces a transition of the request. Requests and
// withdrawals go from requester to target; acceptance goes back the other way
// and so lives under its own key.
func (s *activityService) FollowRequest(ctx context.Context, actorID, requestID uuid.UUID, transition activityDto.FollowTransition) (*activityDto.ActivityResponse, error) {
	if !transition.Valid() {
		return nil, fmt.Errorf("unknown follow transition %q: %w", transition, apperror.ErrInvalidInput)
	}

	req, err := s.owners.FindFollowRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("find follow request: %w", err)
	}

	t := notification.Trigger{
		TargetKind: entity.TargetRequest,
		TargetID:   requestID,
	}

	switch transition {
	case activityDto.FollowRequested, activityDto.FollowWithdrawn:
		if req.FromUserID != actorID {
			return nil, fmt.Errorf("only the requester can %s: %w", transition, apperror.ErrForbidden)
		}
		t.FromUserID, t.ToUserID = req.FromUserID, req.ToUserID
		t.ActionType = entity.ActionFollowRequested
		t.Active = true
		if transition == activityDto.FollowWithdrawn {
			t.ActionType = entity.ActionFollowRequestWithdrawn
			t.Active = false
		}
	case activityDto.FollowAccepted:
		if req.ToUserID != actorID {
			return nil, fmt.Errorf("only the target can accept: %w", apperror.ErrForbidden)
		}
		t.FromUserID, t.ToUserID = req.ToUserID, req.FromUserID
		t.ActionType = entity.ActionFollowAccepted
		t.Active = true
	}

	return s.Trigger(ctx, t)
}

func (s *activityService) LikeStory(ctx context.Context, actorID, storyID uuid.UUID, active bool) (*activityDto.ActivityResponse, error) {
	story, err := s.owners.FindStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("find story: %w", err)
	}

	liked, err := s.owners.HasStoryLike(ctx, storyID, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: find story like: %v", apperror.ErrPersistence, err)
	}
	if liked != active {
		return nil, fmt.Errorf("story %s like state of user %s is %t: %w", storyID, actorID, liked, apperror.ErrForbidden)
	}

	return s.Trigger(ctx, notification.Trigger{
		FromUserID: actorID,
		ToUserID:   story.UserID,
		ActionType: entity.ActionStoryLiked,
		TargetKind: entity.TargetStory,
		TargetID:   storyID,
		Active:     active,
	})
}

func (s *activityService) postOwner(ctx context.Context, post *entity.Post, postID uuid.UUID) (uuid.UUID, error) {
	if post != nil {
		return post.UserID, nil
	}
	found, err := s.owners.FindPost(ctx, postID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find post: %w", err)
	}
	return found.UserID, nil
}
