package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/socialhub/internal/entity"
	notifDto "anoa.com/socialhub/internal/modules/notification/dto"
	"anoa.com/socialhub/pkg/apperror"
	"github.com/google/uuid"
)

// DeletedPolicy turns the triggering action's active flag into the record's
// is_deleted flag.
type DeletedPolicy func(active bool) bool

var (
	// HideWhenInactive hides the record once the action is undone (unlike, withdraw).
	HideWhenInactive DeletedPolicy = func(active bool) bool { return !active }
	// MirrorActiveFlag copies the active flag as-is. Story likes were historically
	// stored this way; see STORY_LIKE_DELETED_POLICY.
	MirrorActiveFlag DeletedPolicy = func(active bool) bool { return active }
)

func ParseDeletedPolicy(name string) (DeletedPolicy, error) {
	switch name {
	case "", "hide_when_inactive":
		return HideWhenInactive, nil
	case "mirror_active_flag":
		return MirrorActiveFlag, nil
	}
	return nil, fmt.Errorf("%w: unknown deleted policy %q", apperror.ErrConfiguration, name)
}

type targetSpec struct {
	column string
	assign func(n *entity.Notification, id uuid.UUID)
}

// targets must have an entry for every entity.TargetKinds() value.
var targets = map[entity.TargetKind]targetSpec{
	entity.TargetLike: {
		column: "like_id",
		assign: func(n *entity.Notification, id uuid.UUID) { n.LikeID = &id },
	},
	entity.TargetComment: {
		column: "comment_id",
		assign: func(n *entity.Notification, id uuid.UUID) { n.CommentID = &id },
	},
	entity.TargetRequest: {
		column: "request_id",
		assign: func(n *entity.Notification, id uuid.UUID) { n.RequestID = &id },
	},
	entity.TargetStory: {
		column: "story_id",
		assign: func(n *entity.Notification, id uuid.UUID) { n.StoryID = &id },
	},
}

func lookupTarget(kind entity.TargetKind) (targetSpec, error) {
	entry, ok := targets[kind]
	if !ok {
		return targetSpec{}, fmt.Errorf("%w: unmapped notification target kind %q", apperror.ErrConfiguration, kind)
	}
	return entry, nil
}

// relatedResolver fills the related post/story/comment/photo fields of p.
type relatedResolver func(ctx context.Context, s *notificationService, n *entity.Notification, p *notifDto.NotificationPayload)

type actionSpec struct {
	message string
	related relatedResolver
}

const fallbackMessage = "interacted with you."

var actions = map[entity.ActionType]actionSpec{
	entity.ActionFollowRequested:        {message: "sent you a follow request."},
	entity.ActionFollowAccepted:         {message: "accepted your follow request."},
	entity.ActionFollowRequestWithdrawn: {message: "withdrew their follow request."},
	entity.ActionPostLiked:              {message: "liked your post.", related: relatedPostLike},
	entity.ActionPostCommented:          {message: "commented on your post.", related: relatedPostComment},
	entity.ActionStoryLiked:             {message: "liked your story.", related: relatedStory},
}

// HumanMessage never fails; unknown actions get a generic sentence.
func HumanMessage(action entity.ActionType) string {
	if entry, ok := actions[action]; ok {
		return entry.message
	}
	return fallbackMessage
}

func relatedPostLike(ctx context.Context, s *notificationService, n *entity.Notification, p *notifDto.NotificationPayload) {
	if n.LikeID == nil {
		return
	}
	like, err := s.content.FindLike(ctx, *n.LikeID)
	if err != nil {
		logLookup("like", *n.LikeID, err)
		return
	}
	postID := like.PostID
	p.RelatedPostID = &postID
	p.RelatedPhotoName = s.postPhoto(ctx, postID)
}

func relatedPostComment(ctx context.Context, s *notificationService, n *entity.Notification, p *notifDto.NotificationPayload) {
	if n.CommentID == nil {
		return
	}
	comment, err := s.content.FindComment(ctx, *n.CommentID)
	if err != nil {
		logLookup("comment", *n.CommentID, err)
		return
	}
	postID := comment.PostID
	p.RelatedPostID = &postID
	p.RelatedCommentText = comment.Text
	p.RelatedPhotoName = s.postPhoto(ctx, postID)
}

func relatedStory(ctx context.Context, s *notificationService, n *entity.Notification, p *notifDto.NotificationPayload) {
	if n.StoryID == nil {
		return
	}
	storyID := *n.StoryID
	p.RelatedStoryID = &storyID
	name, err := s.content.GetStoryMediaName(ctx, storyID)
	if err != nil {
		logLookup("story", storyID, err)
		return
	}
	p.RelatedPhotoName = name
}

func (s *notificationService) postPhoto(ctx context.Context, postID uuid.UUID) string {
	name, err := s.content.GetPostMediaName(ctx, postID)
	if err != nil {
		logLookup("post media", postID, err)
		return ""
	}
	return name
}

func logLookup(what string, id uuid.UUID, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		log.Printf("[notification] %s %s not found, payload field left empty", what, id)
		return
	}
	log.Printf("[notification] lookup %s %s: %v", what, id, err)
}
