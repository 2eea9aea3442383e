package identity

import (
	"context"
	"strings"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, true
	case RoleDoctor:
		return RoleDoctor, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Identity es la vista que el núcleo necesita de un usuario gestionado
// externamente (registro, login y perfiles quedan fuera).
type Identity struct {
	ID          string
	Role        Role
	FullName    string
	Email       string
	PatientCode string // solo pacientes, ej: MV12345678
	Active      bool
}

// Actor es la identidad que ejecuta una operación. Se pasa explícitamente
// a cada operación del núcleo; no hay "usuario actual" global.
type Actor struct {
	ID   string
	Role Role
	IP   string
}

func (a Actor) Is(role Role) bool {
	return strings.TrimSpace(a.ID) != "" && a.Role == role
}

// Directory resuelve identidades. Implementaciones: users.Service (local)
// y adapters/identity/directory (servicio externo).
// Los "no existe" se devuelven como apperr.ErrNotFound.
type Directory interface {
	FindPatientByCode(ctx context.Context, code string) (Identity, error)
	GetByID(ctx context.Context, id string) (Identity, error)
	ListActiveAdmins(ctx context.Context) ([]Identity, error)
}
