package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/socialhub/internal/entity"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&entity.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSaveMessageAssignsID(t *testing.T) {
	t.Parallel()

	repo := NewMessageRepository(newTestDB(t))
	msg := &entity.ChatMessage{ChatID: uuid.New(), FromUserID: uuid.New(), ToUserID: uuid.New(), Text: "hi"}
	if err := repo.SaveMessage(context.Background(), msg); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}
	if msg.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestListByChat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t))
	chatID, from, to := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		msg := &entity.ChatMessage{
			ChatID:     chatID,
			FromUserID: from,
			ToUserID:   to,
			Text:       text,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.SaveMessage(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.SaveMessage(ctx, &entity.ChatMessage{ChatID: uuid.New(), FromUserID: from, ToUserID: to, Text: "elsewhere"}); err != nil {
		t.Fatal(err)
	}

	got, total, err := repo.ListByChat(ctx, chatID, to, 2, 0)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(got) != 2 || got[0].Text != "third" || got[1].Text != "second" {
		t.Errorf("first page = %+v", got)
	}

	got, _, err = repo.ListByChat(ctx, chatID, from, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "first" {
		t.Errorf("second page = %+v", got)
	}
}

func TestListByChatHidesOtherUsersMessages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t))
	chatID, alice, bob := uuid.New(), uuid.New(), uuid.New()
	if err := repo.SaveMessage(ctx, &entity.ChatMessage{ChatID: chatID, FromUserID: alice, ToUserID: bob, Text: "private secret"}); err != nil {
		t.Fatal(err)
	}

	got, total, err := repo.ListByChat(ctx, chatID, uuid.New(), 10, 0)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if total != 0 || len(got) != 0 {
		t.Errorf("outsider sees total = %d, messages = %+v", total, got)
	}
}
