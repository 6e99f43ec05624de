// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/notification"
)

var ErrInvalidLimit = fmt.Errorf("limit must be positive")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Record(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO notification_deliveries (chat_id, kind, cycle_id, text, delivered, error)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, d.ChatID, d.Kind, d.CycleID, d.Text, d.Delivered, d.Error).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording notification delivery: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListRecent(ctx context.Context, limit int) ([]*notification.Delivery, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	query := `SELECT id, chat_id, kind, cycle_id, text, delivered, error, created_at
               FROM notification_deliveries
               ORDER BY created_at DESC, id DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*notification.Delivery, 0, limit)
	for rows.Next() {
		d := &notification.Delivery{}
		if err := rows.Scan(&d.ID, &d.ChatID, &d.Kind, &d.CycleID, &d.Text, &d.Delivered, &d.Error, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery rows: %w", err)
	}
	return deliveries, nil
}
