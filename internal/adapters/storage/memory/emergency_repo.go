package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medivault/internal/domain/emergency"
	"medivault/internal/platform/apperr"
)

type emergencyRepo struct {
	mu   sync.RWMutex
	byID map[string]emergency.Grant
}

func NewEmergencyRepo() emergency.Repository {
	return &emergencyRepo{
		byID: make(map[string]emergency.Grant),
	}
}

func (r *emergencyRepo) Create(ctx context.Context, g emergency.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *emergencyRepo) GetByID(ctx context.Context, id string) (emergency.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return emergency.Grant{}, apperr.NotFound("emergency grant %s", id)
	}
	return g, nil
}

func (r *emergencyRepo) SaveReview(ctx context.Context, id string, rev emergency.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("emergency grant %s", id)
	}
	g.Review = rev
	r.byID[id] = g
	return nil
}

func (r *emergencyRepo) ListAll(ctx context.Context) ([]emergency.Grant, error) {
	return r.list(func(emergency.Grant) bool { return true }), nil
}

func (r *emergencyRepo) ListByDoctor(ctx context.Context, doctorID string) ([]emergency.Grant, error) {
	return r.list(func(g emergency.Grant) bool { return g.DoctorID == doctorID }), nil
}

func (r *emergencyRepo) ActiveFor(ctx context.Context, doctorID, patientID string, now time.Time) (emergency.Grant, error) {
	items := r.list(func(g emergency.Grant) bool {
		return g.DoctorID == doctorID && g.PatientID == patientID && g.IsActive(now)
	})
	if len(items) == 0 {
		return emergency.Grant{}, apperr.NotFound("no active emergency grant for doctor %s", doctorID)
	}
	return items[0], nil
}

func (r *emergencyRepo) list(keep func(emergency.Grant) bool) []emergency.Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emergency.Grant, 0)
	for _, g := range r.byID {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GrantedAt.Equal(out[j].GrantedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].GrantedAt.After(out[j].GrantedAt)
	})
	return out
}
