package memory

import (
	"sync"

	"homework_status_bot/internal/domain/homework"
)

// StatusRepository is the process-local seen-status table. Its content is
// lost on restart.
type StatusRepository struct {
	mu       sync.RWMutex
	statuses map[string]homework.Status
}

func NewStatusRepository() *StatusRepository {
	return &StatusRepository{statuses: make(map[string]homework.Status)}
}

func (r *StatusRepository) Get(name string) (homework.Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[name]
	return s, ok
}

func (r *StatusRepository) Set(name string, status homework.Status) {
	r.mu.Lock()
	r.statuses[name] = status
	r.mu.Unlock()
}

func (r *StatusRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.statuses)
}
