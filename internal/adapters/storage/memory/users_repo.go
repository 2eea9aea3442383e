package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medivault/internal/domain/users"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"
)

type userRepo struct {
	mu     sync.RWMutex
	byID   map[string]users.User
	byCode map[string]string
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID:   make(map[string]users.User),
		byCode: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Validation("email already registered")
		}
	}
	if u.PatientCode != "" {
		if _, taken := r.byCode[u.PatientCode]; taken {
			return apperr.Validation("patient code already taken")
		}
		r.byCode[u.PatientCode] = u.ID
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, apperr.NotFound("user %s", id)
	}
	return u, nil
}

func (r *userRepo) GetByPatientCode(ctx context.Context, code string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return users.User{}, apperr.NotFound("patient %s", code)
	}
	return r.byID[id], nil
}

func (r *userRepo) ListActiveByRole(ctx context.Context, role identity.Role) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	for _, u := range r.byID {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
