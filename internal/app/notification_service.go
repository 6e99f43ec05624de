// internal/app/notification_service.go
package app

import (
	"context"
	"database/sql"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// NotificationService delivers messages to the single configured chat.
// Delivery failures are logged and journaled, never returned.
type NotificationService struct {
	telegramClient domainTelegram.Client
	deliveries     notification.Repository
	chatID         int64
	logger         *logrus.Entry
}

func NewNotificationService(
	tc domainTelegram.Client,
	deliveries notification.Repository,
	chatID int64,
	logger *logrus.Entry,
) *NotificationService {
	return &NotificationService{
		telegramClient: tc,
		deliveries:     deliveries,
		chatID:         chatID,
		logger:         logger,
	}
}

// SendMessage makes exactly one delivery attempt and reports whether it
// succeeded.
func (s *NotificationService) SendMessage(ctx context.Context, kind notification.Kind, text string) bool {
	cycleID := CycleIDFrom(ctx)
	logCtx := s.logger.WithFields(logrus.Fields{
		"chat_id":  s.chatID,
		"kind":     kind,
		"cycle_id": cycleID,
	})

	d := &notification.Delivery{
		ChatID:  s.chatID,
		Kind:    kind,
		CycleID: cycleID,
		Text:    text,
	}

	if err := s.telegramClient.SendMessage(ctx, s.chatID, text, nil); err != nil {
		derr := homework.NewDeliveryFailed(err)
		logCtx.WithError(err).Error("Bot failed to send message")
		d.Error = sql.NullString{String: derr.Error(), Valid: true}
	} else {
		d.Delivered = true
		logCtx.WithField("text", text).Info("Bot sent message")
	}
	metrics.IncNotification(string(kind), d.Delivered)

	if s.deliveries != nil {
		if err := s.deliveries.Record(ctx, d); err != nil {
			logCtx.WithError(err).Warn("Failed to journal delivery")
		}
	}
	return d.Delivered
}
