package memory

import (
	"context"
	"sync"
	"time"

	"homework_status_bot/internal/domain/notification"
)

// NotificationRepository keeps the last deliveries in a bounded in-memory
// buffer. Used when no database is configured.
type NotificationRepository struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	items    []*notification.Delivery
}

func NewNotificationRepository(capacity int) *NotificationRepository {
	if capacity <= 0 {
		capacity = 100
	}
	return &NotificationRepository{capacity: capacity}
}

func (r *NotificationRepository) Record(_ context.Context, d *notification.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	d.ID = r.nextID
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	cp := *d
	r.items = append(r.items, &cp)
	if len(r.items) > r.capacity {
		r.items = r.items[len(r.items)-r.capacity:]
	}
	return nil
}

// ListRecent returns up to limit deliveries, newest first.
func (r *NotificationRepository) ListRecent(_ context.Context, limit int) ([]*notification.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	out := make([]*notification.Delivery, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.items[i]
		out = append(out, &cp)
	}
	return out, nil
}
