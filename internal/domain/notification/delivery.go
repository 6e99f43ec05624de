// internal/domain/notification/delivery.go
package notification

import (
	"database/sql"
	"time"
)

// Kind tells a status-change message apart from a failure summary.
type Kind string

const (
	KindStatusChange Kind = "STATUS_CHANGE"
	KindFailure      Kind = "FAILURE"
)

// Delivery is one attempt to send a message to the configured chat.
// Corresponds to the 'notification_deliveries' table.
type Delivery struct {
	ID        int64
	ChatID    int64
	Kind      Kind
	CycleID   string
	Text      string
	Delivered bool
	Error     sql.NullString // Set when Delivered is false
	CreatedAt time.Time
}
