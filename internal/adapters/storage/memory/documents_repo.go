package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medivault/internal/domain/documents"
	"medivault/internal/platform/apperr"
)

type documentRepo struct {
	mu   sync.RWMutex
	byID map[string]documents.Document
}

func NewDocumentRepo() documents.Repository {
	return &documentRepo{
		byID: make(map[string]documents.Document),
	}
}

func (r *documentRepo) Create(ctx context.Context, d documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("document id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("document already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return documents.Document{}, apperr.NotFound("document %s", id)
	}
	return d, nil
}

func (r *documentRepo) ListByPatient(ctx context.Context, patientID string) ([]documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]documents.Document, 0)
	for _, d := range r.byID {
		if d.PatientID == patientID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DocumentDate.Equal(out[j].DocumentDate) {
			return out[i].DocumentDate.After(out[j].DocumentDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("document %s", id)
	}
	delete(r.byID, id)
	return nil
}
