package memory

import (
	"context"
	"fmt"
	"testing"

	"homework_status_bot/internal/domain/notification"

	"github.com/go-playground/assert/v2"
)

func TestNotificationRepositoryKeepsNewest(t *testing.T) {
	repo := NewNotificationRepository(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d := &notification.Delivery{Text: fmt.Sprintf("msg %d", i), Delivered: true}
		assert.Equal(t, nil, repo.Record(ctx, d))
		assert.Equal(t, int64(i), d.ID)
	}

	recent, err := repo.ListRecent(ctx, 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(recent))
	assert.Equal(t, "msg 5", recent[0].Text)
	assert.Equal(t, "msg 3", recent[2].Text)

	recent, _ = repo.ListRecent(ctx, 1)
	assert.Equal(t, 1, len(recent))
	assert.Equal(t, false, recent[0].CreatedAt.IsZero())
}
