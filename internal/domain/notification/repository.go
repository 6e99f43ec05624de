// internal/domain/notification/repository.go
package notification

import "context"

// Repository journals delivery attempts. It is write-mostly: the polling loop
// never reads it back.
type Repository interface {
	Record(ctx context.Context, d *Delivery) error
	ListRecent(ctx context.Context, limit int) ([]*Delivery, error)
}
