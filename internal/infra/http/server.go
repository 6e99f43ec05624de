package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const defaultDeliveriesLimit = 20

// StateSource exposes the polling loop state.
type StateSource interface {
	Snapshot() app.Snapshot
}

// Server serves /metrics, /healthz and /deliveries.
type Server struct {
	Router chi.Router

	state      StateSource
	deliveries notification.Repository
	log        *logrus.Entry
	srv        *http.Server
}

func NewServer(state StateSource, deliveries notification.Repository, logger *logrus.Entry) *Server {
	s := &Server{state: state, deliveries: deliveries, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", s.health)
	r.Get("/deliveries", s.listDeliveries)

	s.Router = r
	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.WithField("addr", addr).Info("HTTP server started")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

type deliveryView struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	CycleID   string    `json:"cycle_id,omitempty"`
	Text      string    `json:"text"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) listDeliveries(w http.ResponseWriter, r *http.Request) {
	if s.deliveries == nil {
		writeJSON(w, http.StatusOK, []deliveryView{})
		return
	}

	limit := defaultDeliveriesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 1000 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	items, err := s.deliveries.ListRecent(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to list deliveries")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	out := make([]deliveryView, 0, len(items))
	for _, d := range items {
		out = append(out, deliveryView{
			ID:        d.ID,
			Kind:      string(d.Kind),
			CycleID:   d.CycleID,
			Text:      d.Text,
			Delivered: d.Delivered,
			Error:     d.Error.String,
			CreatedAt: d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
