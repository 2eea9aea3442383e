package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medivault/internal/domain/accessrequests"
	"medivault/internal/platform/apperr"
)

type accessRequestRepo struct {
	mu   sync.RWMutex
	byID map[string]accessrequests.Request
}

func NewAccessRequestRepo() accessrequests.Repository {
	return &accessRequestRepo{
		byID: make(map[string]accessrequests.Request),
	}
}

func (r *accessRequestRepo) Create(ctx context.Context, req accessrequests.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("request already exists")
	}
	r.byID[req.ID] = cloneRequest(req)
	return nil
}

func (r *accessRequestRepo) GetByID(ctx context.Context, id string) (accessrequests.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return accessrequests.Request{}, apperr.NotFound("access request %s", id)
	}
	return cloneRequest(req), nil
}

// Transition es el compare-and-set: el lock de escritura cubre lectura y
// escritura del status.
func (r *accessRequestRepo) Transition(ctx context.Context, next accessrequests.Request, from accessrequests.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[next.ID]
	if !ok {
		return apperr.NotFound("access request %s", next.ID)
	}
	if cur.Status != from {
		return apperr.InvalidTransition("access request %s is %s, expected %s", next.ID, cur.Status, from)
	}
	r.byID[next.ID] = cloneRequest(next)
	return nil
}

func (r *accessRequestRepo) ListByDoctor(ctx context.Context, doctorID string) ([]accessrequests.Request, error) {
	return r.list(func(req accessrequests.Request) bool { return req.DoctorID == doctorID }), nil
}

func (r *accessRequestRepo) ListByPatient(ctx context.Context, patientID string) ([]accessrequests.Request, error) {
	return r.list(func(req accessrequests.Request) bool { return req.PatientID == patientID }), nil
}

func (r *accessRequestRepo) LatestActive(ctx context.Context, doctorID, patientID string, now time.Time) (accessrequests.Request, error) {
	items := r.list(func(req accessrequests.Request) bool {
		return req.DoctorID == doctorID && req.PatientID == patientID && req.IsActive(now)
	})
	if len(items) == 0 {
		return accessrequests.Request{}, apperr.NotFound("no active access for doctor %s", doctorID)
	}
	return items[0], nil
}

func (r *accessRequestRepo) list(keep func(accessrequests.Request) bool) []accessrequests.Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accessrequests.Request, 0)
	for _, req := range r.byID {
		if keep(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out
}

// cloneRequest evita que el caller comparta el slice Scope con el store.
func cloneRequest(req accessrequests.Request) accessrequests.Request {
	req.Scope = append([]accessrequests.Category(nil), req.Scope...)
	return req
}
