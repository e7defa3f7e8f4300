package ratelimit

import (
	"context"
	"fmt"
	"time"

	"anoa.com/socialhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// CheckAndSet reports whether the user may perform action now, and locks it for limit if so.
// A nil client or a non-positive limit always allows.
func CheckAndSet(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func TTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, action)).Result()
}

func Clear(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, key(userID, action)).Result()
	return err
}

// RateLimitError carries how long the caller must wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}
