package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	RedisURL  string
	JWTSecret string

	WSPingInterval time.Duration
	WSWriteTimeout time.Duration
	PresenceTTL    time.Duration

	RateLimitMessage time.Duration

	// StoryLikeDeletedPolicy is "hide_when_inactive" or "mirror_active_flag".
	StoryLikeDeletedPolicy string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "socialhub"),
		DBPort: getEnv("DB_PORT", "5432"),

		RedisURL:  os.Getenv("REDIS_URL"),
		JWTSecret: getEnv("JWT_SECRET", "12345"),

		StoryLikeDeletedPolicy: getEnv("STORY_LIKE_DELETED_POLICY", "hide_when_inactive"),
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"WS_PING_INTERVAL", "25s", &cfg.WSPingInterval},
		{"WS_WRITE_TIMEOUT", "10s", &cfg.WSWriteTimeout},
		{"PRESENCE_TTL", "60s", &cfg.PresenceTTL},
		{"RATE_LIMIT_MESSAGE", "300ms", &cfg.RateLimitMessage},
	}
	for _, d := range durations {
		v, err := parseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	switch cfg.StoryLikeDeletedPolicy {
	case "hide_when_inactive", "mirror_active_flag":
	default:
		return nil, fmt.Errorf("invalid STORY_LIKE_DELETED_POLICY: %q", cfg.StoryLikeDeletedPolicy)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
