package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/socialhub/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestNilClientAlwaysAllows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		ok, err := CheckAndSet(ctx, nil, userID, "send_message", time.Second)
		if err != nil || !ok {
			t.Fatalf("attempt %d: got (%v, %v), want (true, nil)", i, ok, err)
		}
	}
	if ttl, err := TTL(ctx, nil, userID, "send_message"); err != nil || ttl != 0 {
		t.Errorf("TTL = (%v, %v), want (0, nil)", ttl, err)
	}
	if err := Clear(ctx, nil, userID, "send_message"); err != nil {
		t.Errorf("Clear: %v", err)
	}
}

func TestKeyFormat(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0190b7c4-0000-7000-8000-000000000001")
	want := "rate_limit:user:0190b7c4-0000-7000-8000-000000000001:send_message"
	if got := key(id, "send_message"); got != want {
		t.Errorf("key = %q, want %q", got, want)
	}
}

func TestRateLimitErrorUnwrapsSentinel(t *testing.T) {
	t.Parallel()

	var err error = &RateLimitError{Message: "slow down", RetryAfter: 2 * time.Second}
	if !errors.Is(err, apperror.ErrRateLimitExceeded) {
		t.Error("RateLimitError must match ErrRateLimitExceeded")
	}
	if err.Error() != "slow down" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestCheckAndSetLocksWindow(t *testing.T) {
	t.Parallel()

	mr, client := newTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	ok, err := CheckAndSet(ctx, client, userID, "message", 2*time.Second)
	if err != nil || !ok {
		t.Fatalf("first attempt = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = CheckAndSet(ctx, client, userID, "message", 2*time.Second)
	if err != nil || ok {
		t.Fatalf("second attempt = (%v, %v), want (false, nil)", ok, err)
	}

	ttl, err := TTL(ctx, client, userID, "message")
	if err != nil || ttl <= 0 || ttl > 2*time.Second {
		t.Errorf("TTL = (%v, %v)", ttl, err)
	}

	// other users and actions are independent
	if ok, _ := CheckAndSet(ctx, client, uuid.New(), "message", 2*time.Second); !ok {
		t.Error("another user was throttled")
	}
	if ok, _ := CheckAndSet(ctx, client, userID, "comment", 2*time.Second); !ok {
		t.Error("another action was throttled")
	}

	mr.FastForward(3 * time.Second)
	if ok, _ := CheckAndSet(ctx, client, userID, "message", 2*time.Second); !ok {
		t.Error("window did not expire")
	}
}

func TestClearReopensWindow(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	if ok, _ := CheckAndSet(ctx, client, userID, "message", time.Minute); !ok {
		t.Fatal("first attempt refused")
	}
	if err := Clear(ctx, client, userID, "message"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ok, _ := CheckAndSet(ctx, client, userID, "message", time.Minute); !ok {
		t.Error("attempt after Clear refused")
	}
}

func TestCheckAndSetRedisFailure(t *testing.T) {
	t.Parallel()

	mr, client := newTestRedis(t)
	mr.SetError("LOADING redis is loading")

	if ok, err := CheckAndSet(context.Background(), client, uuid.New(), "message", time.Second); err == nil || ok {
		t.Errorf("got (%v, %v), want (false, error)", ok, err)
	}
}
