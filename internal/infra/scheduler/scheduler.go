package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// FixedDelay pauses the polling loop between two cycles. The delay is
// constant: no jitter and no backoff however many cycles failed.
type FixedDelay struct {
	schedule cron.Schedule
	logger   *logrus.Entry
	now      func() time.Time
}

// NewFixedDelay builds a pause of period, rounded down to whole seconds
// (minimum one second) by cron.Every.
func NewFixedDelay(period time.Duration, logger *logrus.Entry) *FixedDelay {
	return &FixedDelay{
		schedule: cron.Every(period),
		logger:   logger,
		now:      time.Now,
	}
}

// Next returns when the next cycle starts if the pause begins at t.
func (s *FixedDelay) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Wait blocks until the next cycle is due or ctx is done.
func (s *FixedDelay) Wait(ctx context.Context) error {
	now := s.now()
	next := s.Next(now)
	s.logger.WithField("next_run", next.Format(time.RFC3339)).Debug("Pausing until next cycle")

	timer := time.NewTimer(next.Sub(now))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
