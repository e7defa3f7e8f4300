package repository

import (
	"context"
	"errors"

	"anoa.com/socialhub/internal/entity"
	"anoa.com/socialhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRepository reads the rows written by the posts/stories/follows CRUD
// layer. Missing rows come back as apperror.ErrNotFound.
type ContentRepository interface {
	GetDisplayName(ctx context.Context, userID uuid.UUID) (name string, avatarURL string, err error)
	GetPostMediaName(ctx context.Context, postID uuid.UUID) (string, error)
	GetStoryMediaName(ctx context.Context, storyID uuid.UUID) (string, error)
	GetCommentText(ctx context.Context, commentID uuid.UUID) (string, error)

	FindLike(ctx context.Context, likeID uuid.UUID) (*entity.Like, error)
	FindComment(ctx context.Context, commentID uuid.UUID) (*entity.Comment, error)
	FindPost(ctx context.Context, postID uuid.UUID) (*entity.Post, error)
	FindStory(ctx context.Context, storyID uuid.UUID) (*entity.Story, error)
	HasStoryLike(ctx context.Context, storyID, userID uuid.UUID) (bool, error)
	FindFollowRequest(ctx context.Context, requestID uuid.UUID) (*entity.FollowRequest, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}

func (r *contentRepository) GetDisplayName(ctx context.Context, userID uuid.UUID) (string, string, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Select("id", "username", "avatar_url").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return "", "", notFound(err)
	}

	avatar := ""
	if user.AvatarURL != nil {
		avatar = *user.AvatarURL
	}
	return user.DisplayName(), avatar, nil
}

// GetPostMediaName returns the name of the post's first media item, or "" when it has none.
func (r *contentRepository) GetPostMediaName(ctx context.Context, postID uuid.UUID) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&entity.PostMedia{}).
		Where("post_id = ?", postID).
		Order("position asc").
		Limit(1).
		Pluck("name", &names).Error
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

func (r *contentRepository) GetStoryMediaName(ctx context.Context, storyID uuid.UUID) (string, error) {
	story, err := r.FindStory(ctx, storyID)
	if err != nil {
		return "", err
	}
	return story.MediaName, nil
}

func (r *contentRepository) GetCommentText(ctx context.Context, commentID uuid.UUID) (string, error) {
	comment, err := r.FindComment(ctx, commentID)
	if err != nil {
		return "", err
	}
	return comment.Text, nil
}

func (r *contentRepository) FindLike(ctx context.Context, likeID uuid.UUID) (*entity.Like, error) {
	var like entity.Like
	if err := r.db.WithContext(ctx).Preload("Post").Where("id = ?", likeID).First(&like).Error; err != nil {
		return nil, notFound(err)
	}
	return &like, nil
}

func (r *contentRepository) FindComment(ctx context.Context, commentID uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("Post").Where("id = ?", commentID).First(&comment).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (r *contentRepository) FindPost(ctx context.Context, postID uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *contentRepository) FindStory(ctx context.Context, storyID uuid.UUID) (*entity.Story, error) {
	var story entity.Story
	if err := r.db.WithContext(ctx).Where("id = ?", storyID).First(&story).Error; err != nil {
		return nil, notFound(err)
	}
	return &story, nil
}

func (r *contentRepository) HasStoryLike(ctx context.Context, storyID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.StoryLike{}).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *contentRepository) FindFollowRequest(ctx context.Context, requestID uuid.UUID) (*entity.FollowRequest, error) {
	var req entity.FollowRequest
	if err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error; err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}
