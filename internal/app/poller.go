package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FailurePrefix starts every failure summary sent to the chat.
const FailurePrefix = "Сбой в работе программы: "

// HomeworkAPI fetches raw homework statuses.
type HomeworkAPI interface {
	GetAPIAnswer(ctx context.Context, fromDate int64) (map[string]any, error)
}

// Sender delivers a message to the chat and swallows failures.
type Sender interface {
	SendMessage(ctx context.Context, kind notification.Kind, text string) bool
}

// Pauser blocks between two cycles.
type Pauser interface {
	Wait(ctx context.Context) error
}

// Snapshot is a read-only view of the loop state.
type Snapshot struct {
	Cursor        int64     `json:"cursor"`
	Cycles        int64     `json:"cycles"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastError     string    `json:"last_error,omitempty"`
	SeenHomeworks int       `json:"seen_homeworks"`
}

// Poller runs the fetch, check and notify cycle until its context ends.
type Poller struct {
	api      HomeworkAPI
	tracker  *StatusTracker
	statuses homework.StatusRepository
	sender   Sender
	pauser   Pauser
	logger   *logrus.Entry
	now      func() time.Time

	mu          sync.RWMutex
	cursor      int64
	cycles      int64
	lastCycleAt time.Time
	lastError   string
}

func NewPoller(
	api HomeworkAPI,
	statuses homework.StatusRepository,
	sender Sender,
	pauser Pauser,
	logger *logrus.Entry,
	startCursor int64,
) *Poller {
	return &Poller{
		api:      api,
		tracker:  NewStatusTracker(statuses, logger.WithField("component", "status_tracker")),
		statuses: statuses,
		sender:   sender,
		pauser:   pauser,
		logger:   logger,
		now:      time.Now,
		cursor:   startCursor,
	}
}

// Run loops forever: one cycle, then one pause. It returns only when ctx is
// done.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.WithField("cursor", p.Cursor()).Info("Polling loop started")
	for {
		p.RunCycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.pauser.Wait(ctx); err != nil {
			p.logger.Info("Polling loop stopped")
			return err
		}
	}
}

// RunCycle performs one fetch and notifies about every changed record.
// Any error is reported to the chat as a single failure summary and then
// returned. The cursor advances once the answer has been fetched and
// validated, even when some records are malformed.
func (p *Poller) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	ctx = WithCycleID(ctx, cycleID)
	logCtx := p.logger.WithField("cycle_id", cycleID)

	err := p.cycle(ctx, logCtx)
	p.finish(err)
	metrics.IncCycle(err == nil)

	if err == nil {
		logCtx.WithField("cursor", p.Cursor()).Debug("Cycle completed")
		return nil
	}
	if ctx.Err() != nil {
		logCtx.WithError(err).Info("Cycle interrupted by shutdown")
		return err
	}

	for _, e := range flatten(err) {
		metrics.IncCycleError(homework.KindOf(e).String())
	}
	logCtx.WithError(err).WithField("kind", homework.KindOf(err).String()).Error("Cycle failed")
	p.sender.SendMessage(ctx, notification.KindFailure, FailurePrefix+err.Error())
	return err
}

// cycle returns the joined errors of one fetch. A failed fetch or an invalid
// answer leaves the cursor where it was.
func (p *Poller) cycle(ctx context.Context, logCtx *logrus.Entry) error {
	requestedAt := p.now().Unix()
	answer, err := p.api.GetAPIAnswer(ctx, p.Cursor())
	if err != nil {
		return err
	}

	homeworks, err := homework.CheckResponse(answer)
	if err != nil {
		logCtx.WithError(err).Error("Unexpected homework API response")
		return err
	}
	logCtx.WithField("homeworks", len(homeworks)).Debug("Homework list received")

	next, ok := homework.CurrentDate(answer)
	if !ok {
		next = requestedAt
	}
	p.setCursor(next)

	var errs []error
	for _, record := range homeworks {
		message, changed, err := p.tracker.ParseStatus(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if changed {
			p.sender.SendMessage(ctx, notification.KindStatusChange, message)
		}
	}
	return errors.Join(errs...)
}

func (p *Poller) Cursor() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

func (p *Poller) setCursor(ts int64) {
	p.mu.Lock()
	p.cursor = ts
	p.mu.Unlock()
	metrics.SetCursor(ts)
}

func (p *Poller) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cycles++
	p.lastCycleAt = p.now()
	p.lastError = ""
	if err != nil {
		p.lastError = err.Error()
	}
}

// Snapshot returns the current loop state. Safe for concurrent use.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Cursor:        p.cursor,
		Cycles:        p.cycles,
		LastCycleAt:   p.lastCycleAt,
		LastError:     p.lastError,
		SeenHomeworks: p.statuses.Len(),
	}
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
