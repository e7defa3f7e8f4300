package database

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options holds the postgres connection settings.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (o Options) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

func Connect(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// ConnectRedis returns nil when url is empty; callers treat a nil client as "redis disabled".
func ConnectRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opt), nil
}
