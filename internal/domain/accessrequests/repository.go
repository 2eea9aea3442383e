package accessrequests

import (
	"context"
	"time"
)

// Repository persiste solicitudes de acceso.
// Los "no existe" se devuelven como apperr.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)

	// Transition guarda next solo si el status almacenado sigue siendo from
	// (compare-and-set). Si otro request ganó la carrera devuelve
	// apperr.ErrInvalidTransition.
	Transition(ctx context.Context, next Request, from Status) error

	// Listados ordenados por RequestedAt desc.
	ListByDoctor(ctx context.Context, doctorID string) ([]Request, error)
	ListByPatient(ctx context.Context, patientID string) ([]Request, error)

	// LatestActive: la solicitud APPROVED más reciente (por RequestedAt) que
	// sigue vigente en now.
	LatestActive(ctx context.Context, doctorID, patientID string, now time.Time) (Request, error)
}
