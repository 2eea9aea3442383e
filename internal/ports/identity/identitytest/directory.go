// Package identitytest provee un identity.Directory en memoria para tests.
package identitytest

import (
	"context"
	"sort"
	"sync"

	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"
)

type Directory struct {
	mu   sync.RWMutex
	byID map[string]identity.Identity
	Fail error // si se setea, todas las lecturas devuelven este error
}

func NewDirectory(ids ...identity.Identity) *Directory {
	d := &Directory{byID: map[string]identity.Identity{}}
	for _, id := range ids {
		d.Add(id)
	}
	return d
}

func (d *Directory) Add(id identity.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[id.ID] = id
}

func (d *Directory) FindPatientByCode(_ context.Context, code string) (identity.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Fail != nil {
		return identity.Identity{}, d.Fail
	}
	for _, id := range d.byID {
		if id.Role == identity.RolePatient && id.PatientCode == code {
			return id, nil
		}
	}
	return identity.Identity{}, apperr.NotFound("patient %s", code)
}

func (d *Directory) GetByID(_ context.Context, id string) (identity.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Fail != nil {
		return identity.Identity{}, d.Fail
	}
	who, ok := d.byID[id]
	if !ok {
		return identity.Identity{}, apperr.NotFound("user %s", id)
	}
	return who, nil
}

func (d *Directory) ListActiveAdmins(_ context.Context) ([]identity.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Fail != nil {
		return nil, d.Fail
	}
	out := make([]identity.Identity, 0)
	for _, id := range d.byID {
		if id.Role == identity.RoleAdmin && id.Active {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Helpers de fixtures.

func Patient(id, code, name string) identity.Identity {
	return identity.Identity{ID: id, Role: identity.RolePatient, PatientCode: code, FullName: name, Email: id + "@example.test", Active: true}
}

func Doctor(id, name string) identity.Identity {
	return identity.Identity{ID: id, Role: identity.RoleDoctor, FullName: name, Email: id + "@example.test", Active: true}
}

func Admin(id, name string) identity.Identity {
	return identity.Identity{ID: id, Role: identity.RoleAdmin, FullName: name, Email: id + "@example.test", Active: true}
}
