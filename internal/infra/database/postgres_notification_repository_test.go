package database

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"homework_status_bot/internal/domain/notification"

	"github.com/go-playground/assert/v2"
)

// Runs against a real PostgreSQL instance when TEST_DATABASE_URL is set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewPostgresConnection(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM notification_deliveries WHERE cycle_id LIKE 'test-%'`)
		db.Close()
	})
	return db
}

func TestPostgresNotificationRepositoryRecordAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	ctx := context.Background()

	ok := &notification.Delivery{ChatID: 1, Kind: notification.KindStatusChange, CycleID: "test-1", Text: "sent", Delivered: true}
	failed := &notification.Delivery{
		ChatID: 1, Kind: notification.KindFailure, CycleID: "test-1", Text: "lost",
		Error: sql.NullString{String: "chat not found", Valid: true},
	}

	assert.Equal(t, nil, repo.Record(ctx, ok))
	assert.Equal(t, nil, repo.Record(ctx, failed))
	assert.NotEqual(t, int64(0), ok.ID)

	recent, err := repo.ListRecent(ctx, 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(recent))
	assert.Equal(t, "lost", recent[0].Text)
	assert.Equal(t, "chat not found", recent[0].Error.String)
	assert.Equal(t, true, recent[1].Delivered)
}

func TestPostgresNotificationRepositoryInvalidLimit(t *testing.T) {
	repo := NewPostgresNotificationRepository(nil)

	_, err := repo.ListRecent(context.Background(), 0)

	assert.Equal(t, ErrInvalidLimit, err)
}
