package service

import (
	"context"
	"sort"
	"sync"

	"anoa.com/socialhub/internal/entity"
	"anoa.com/socialhub/pkg/apperror"
	"github.com/google/uuid"
)

type memoryNotificationRepo struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*entity.Notification
	upsertErr error
	findErr   error
	inserts   int
	updates   int
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{records: make(map[uuid.UUID]*entity.Notification)}
}

func targetColumnValue(n *entity.Notification, column string) *uuid.UUID {
	switch column {
	case "like_id":
		return n.LikeID
	case "comment_id":
		return n.CommentID
	case "request_id":
		return n.RequestID
	case "story_id":
		return n.StoryID
	}
	return nil
}

func (r *memoryNotificationRepo) FindByKey(_ context.Context, from, to uuid.UUID, column string, targetID uuid.UUID) (*entity.Notification, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.records {
		v := targetColumnValue(n, column)
		if n.FromUserID == from && n.ToUserID == to && v != nil && *v == targetID {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryNotificationRepo) Upsert(_ context.Context, n *entity.Notification) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
		r.inserts++
	} else {
		r.updates++
	}
	cp := *n
	r.records[n.ID] = &cp
	return nil
}

func (r *memoryNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.records {
		if n.ToUserID == userID && !n.IsDeleted {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memoryNotificationRepo) all() []entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Notification, 0, len(r.records))
	for _, n := range r.records {
		out = append(out, *n)
	}
	return out
}

type fakeContent struct {
	names      map[uuid.UUID]string
	likes      map[uuid.UUID]*entity.Like
	comments   map[uuid.UUID]*entity.Comment
	postMedia  map[uuid.UUID]string
	storyMedia map[uuid.UUID]string
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		names:      make(map[uuid.UUID]string),
		likes:      make(map[uuid.UUID]*entity.Like),
		comments:   make(map[uuid.UUID]*entity.Comment),
		postMedia:  make(map[uuid.UUID]string),
		storyMedia: make(map[uuid.UUID]string),
	}
}

func (f *fakeContent) GetDisplayName(_ context.Context, id uuid.UUID) (string, string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", "", apperror.ErrNotFound
	}
	return name, "avatars/" + name + ".png", nil
}

func (f *fakeContent) GetPostMediaName(_ context.Context, id uuid.UUID) (string, error) {
	return f.postMedia[id], nil
}

func (f *fakeContent) GetStoryMediaName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := f.storyMedia[id]
	if !ok {
		return "", apperror.ErrNotFound
	}
	return name, nil
}

func (f *fakeContent) FindLike(_ context.Context, id uuid.UUID) (*entity.Like, error) {
	if l, ok := f.likes[id]; ok {
		return l, nil
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeContent) FindComment(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrNotFound
}
