package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/socialhub/internal/entity"
	chatDto "anoa.com/socialhub/internal/modules/chat/dto"
	chatRepo "anoa.com/socialhub/internal/modules/chat/repository"
	"anoa.com/socialhub/internal/modules/presence/gateway"
	"anoa.com/socialhub/pkg/apperror"
	commonDto "anoa.com/socialhub/pkg/dto"
	"anoa.com/socialhub/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

type ChatService interface {
	// SendMessage persists the message, then attempts a realtime push to the
	// recipient. The push outcome never changes the result.
	SendMessage(ctx context.Context, fromUserID, toUserID, chatID uuid.UUID, text string) (*entity.ChatMessage, error)
	// ListMessages returns the chat history visible to userID. A caller with no
	// message in the chat gets apperror.ErrForbidden.
	ListMessages(ctx context.Context, userID, chatID uuid.UUID, page, limit int) (*chatDto.PaginatedMessagesResponse, error)
}

const rateLimitAction = "message"

type chatService struct {
	repo         chatRepo.MessageRepository
	pusher       gateway.Pusher
	sanitizer    *bluemonday.Policy
	redisClient  *redis.Client
	messageLimit time.Duration
}

// NewChatService throttles each sender to one message per messageLimit when
// redisClient is set.
func NewChatService(repo chatRepo.MessageRepository, pusher gateway.Pusher, redisClient *redis.Client, messageLimit time.Duration) ChatService {
	return &chatService{
		repo:         repo,
		pusher:       pusher,
		sanitizer:    bluemonday.StrictPolicy(),
		redisClient:  redisClient,
		messageLimit: messageLimit,
	}
}

func (s *chatService) SendMessage(ctx context.Context, fromUserID, toUserID, chatID uuid.UUID, text string) (*entity.ChatMessage, error) {
	// StrictPolicy escapes entities; unescape so "it's" is stored as typed.
	text = strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
	if text == "" {
		return nil, fmt.Errorf("message text is empty: %w", apperror.ErrInvalidInput)
	}
	if toUserID == uuid.Nil || chatID == uuid.Nil {
		return nil, fmt.Errorf("recipient and chat are required: %w", apperror.ErrInvalidInput)
	}

	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, fromUserID, rateLimitAction, s.messageLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := ratelimit.TTL(ctx, s.redisClient, fromUserID, rateLimitAction)
		return nil, &ratelimit.RateLimitError{
			Message:    "you are sending messages too fast",
			RetryAfter: ttl,
		}
	}

	message := &entity.ChatMessage{
		ChatID:     chatID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Text:       text,
	}

	// 1. Save to DB
	if err := s.repo.SaveMessage(ctx, message); err != nil {
		_ = ratelimit.Clear(ctx, s.redisClient, fromUserID, rateLimitAction)
		return nil, fmt.Errorf("%w: save chat message: %v", apperror.ErrPersistence, err)
	}

	// 2. Best-effort push, result is advisory
	s.pusher.Push(toUserID, gateway.EventReceiveMessage, chatDto.ToChatMessageResponse(message))

	return message, nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, chatID uuid.UUID, page, limit int) (*chatDto.PaginatedMessagesResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	messages, total, err := s.repo.ListByChat(ctx, chatID, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list chat messages: %v", apperror.ErrPersistence, err)
	}
	if total == 0 {
		return nil, fmt.Errorf("user %s has no messages in chat %s: %w", userID, chatID, apperror.ErrForbidden)
	}

	data := make([]chatDto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, chatDto.ToChatMessageResponse(&messages[i]))
	}

	return &chatDto.PaginatedMessagesResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}
