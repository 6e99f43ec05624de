package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/memory"
	"homework_status_bot/internal/infra/metrics"

	"github.com/go-playground/assert/v2"
	"github.com/sirupsen/logrus/hooks/test"
)

type fixedState struct{ snap app.Snapshot }

func (f fixedState) Snapshot() app.Snapshot { return f.snap }

func newTestServer(deliveries notification.Repository) *Server {
	logger, _ := test.NewNullLogger()
	state := fixedState{snap: app.Snapshot{
		Cursor:        1700000000,
		Cycles:        3,
		LastCycleAt:   time.Unix(1700000000, 0).UTC(),
		SeenHomeworks: 2,
	}}
	return NewServer(state, deliveries, logger.WithField("component", "http"))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(nil)
	rec := httptest.NewRecorder()

	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got app.Snapshot
	assert.Equal(t, nil, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(1700000000), got.Cursor)
	assert.Equal(t, int64(3), got.Cycles)
	assert.Equal(t, 2, got.SeenHomeworks)
}

func TestDeliveries(t *testing.T) {
	repo := memory.NewNotificationRepository(10)
	ctx := context.Background()
	repo.Record(ctx, &notification.Delivery{Kind: notification.KindStatusChange, Text: "first", Delivered: true})
	repo.Record(ctx, &notification.Delivery{
		Kind:  notification.KindFailure,
		Text:  "second",
		Error: sql.NullString{String: "chat not found", Valid: true},
	})
	s := newTestServer(repo)
	rec := httptest.NewRecorder()

	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deliveries?limit=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []deliveryView
	assert.Equal(t, nil, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "second", got[0].Text)
	assert.Equal(t, "FAILURE", got[0].Kind)
	assert.Equal(t, "chat not found", got[0].Error)
}

func TestDeliveriesInvalidLimit(t *testing.T) {
	s := newTestServer(memory.NewNotificationRepository(10))
	rec := httptest.NewRecorder()

	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deliveries?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.MustRegister()
	metrics.IncCycle(true)
	s := newTestServer(nil)
	rec := httptest.NewRecorder()

	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.MatchRegex(t, rec.Body.String(), "poll_cycles_total")
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(nil)
	assert.Equal(t, nil, s.Shutdown(context.Background()))
}
