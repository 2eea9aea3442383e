package memory

import (
	"context"
	"errors"
	"sync"

	"medivault/internal/domain/audit"
)

// auditRepo es append-only: el slice solo crece.
type auditRepo struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewAuditRepo() audit.Repository {
	return &auditRepo{}
}

func (r *auditRepo) Append(ctx context.Context, e audit.Event) error {
	if e.ID == "" {
		return errors.New("audit event id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	return nil
}

// List devuelve del más nuevo al más viejo.
func (r *auditRepo) List(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.Event, 0)
	for i := len(r.events) - 1; i >= 0; i-- {
		if !filter.Matches(r.events[i]) {
			continue
		}
		out = append(out, r.events[i])
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}
