package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PresenceService mirrors local connections into redis so that other
// instances can answer "is this user online". The in-process registry is
// still what pushes consult; mirror errors are logged and ignored.
type PresenceService interface {
	MarkOnline(ctx context.Context, userID uuid.UUID, connID string)
	Refresh(ctx context.Context, userID uuid.UUID, connID string)
	MarkOffline(ctx context.Context, userID uuid.UUID, connID string)
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

type LocalLookup interface {
	IsConnected(userID uuid.UUID) bool
}

type presenceService struct {
	redisClient *redis.Client
	local       LocalLookup
	ttl         time.Duration
}

// NewPresenceService falls back to a one minute TTL when ttl is not positive.
func NewPresenceService(redisClient *redis.Client, local LocalLookup, ttl time.Duration) PresenceService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &presenceService{
		redisClient: redisClient,
		local:       local,
		ttl:         ttl,
	}
}

func presenceKey(userID uuid.UUID) string {
	return fmt.Sprintf("presence:%s", userID.String())
}

func (s *presenceService) MarkOnline(ctx context.Context, userID uuid.UUID, connID string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Set(ctx, presenceKey(userID), connID, s.ttl).Err(); err != nil {
		log.Printf("[presence] mark online %s: %v", userID, err)
	}
}

// refreshScript extends the TTL while ARGV[1] owns the key and claims the key
// when it has expired. Another owner is left alone.
var refreshScript = redis.NewScript(`
local owner = redis.call("GET", KEYS[1])
if not owner then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
if owner == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// offlineScript deletes the key only while ARGV[1] owns it.
var offlineScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Refresh extends the TTL only while connID still owns the key.
func (s *presenceService) Refresh(ctx context.Context, userID uuid.UUID, connID string) {
	if s.redisClient == nil {
		return
	}
	err := refreshScript.Run(ctx, s.redisClient, []string{presenceKey(userID)}, connID, s.ttl.Milliseconds()).Err()
	if err != nil {
		log.Printf("[presence] refresh %s: %v", userID, err)
	}
}

// MarkOffline deletes the key only if connID still owns it, so a newer session
// on another instance is not cleared. The check and delete run as one script.
func (s *presenceService) MarkOffline(ctx context.Context, userID uuid.UUID, connID string) {
	if s.redisClient == nil {
		return
	}
	err := offlineScript.Run(ctx, s.redisClient, []string{presenceKey(userID)}, connID).Err()
	if err != nil {
		log.Printf("[presence] mark offline %s: %v", userID, err)
	}
}

func (s *presenceService) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	if s.local != nil && s.local.IsConnected(userID) {
		return true, nil
	}
	if s.redisClient == nil {
		return false, nil
	}
	n, err := s.redisClient.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n == 1, nil
}
