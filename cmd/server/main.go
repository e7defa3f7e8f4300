package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/socialhub/internal/bootstrap"
	"anoa.com/socialhub/internal/config"
	"anoa.com/socialhub/internal/server"
	"anoa.com/socialhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDevUsers(db); err != nil {
			log.Fatalf("failed to seed development users: %v", err)
		}
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if redisClient == nil {
		log.Println("REDIS_URL not set, presence mirror and message rate limit disabled")
	} else {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server exited with error: %v", err)
		}
		return
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
