package config

import (
	"os"
	"testing"
	"time"
)

// Tests here use t.Setenv, which forbids t.Parallel.

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "WS_PING_INTERVAL", "WS_WRITE_TIMEOUT", "PRESENCE_TTL", "RATE_LIMIT_MESSAGE", "STORY_LIKE_DELETED_POLICY", "JWT_SECRET"} {
		unsetEnv(t, k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.WSPingInterval != 25*time.Second {
		t.Errorf("WSPingInterval = %v", cfg.WSPingInterval)
	}
	if cfg.PresenceTTL != time.Minute {
		t.Errorf("PresenceTTL = %v", cfg.PresenceTTL)
	}
	if cfg.RateLimitMessage != 300*time.Millisecond {
		t.Errorf("RateLimitMessage = %v", cfg.RateLimitMessage)
	}
	if cfg.JWTSecret != "12345" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.StoryLikeDeletedPolicy != "hide_when_inactive" {
		t.Errorf("StoryLikeDeletedPolicy = %q", cfg.StoryLikeDeletedPolicy)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("WS_PING_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid WS_PING_INTERVAL")
	}
}

func TestLoadInvalidPolicy(t *testing.T) {
	t.Setenv("WS_PING_INTERVAL", "25s")
	t.Setenv("WS_WRITE_TIMEOUT", "10s")
	t.Setenv("PRESENCE_TTL", "60s")
	t.Setenv("RATE_LIMIT_MESSAGE", "300ms")
	t.Setenv("STORY_LIKE_DELETED_POLICY", "sometimes")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown story like policy")
	}
}

// unsetEnv clears key for the duration of the test; t.Setenv restores the previous value.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}
