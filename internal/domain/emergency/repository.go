package emergency

import (
	"context"
	"time"
)

// Los "no existe" se devuelven como apperr.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)

	// SaveReview reemplaza la revisión del grant (last write wins).
	SaveReview(ctx context.Context, id string, r Review) error

	// Listados ordenados por GrantedAt desc.
	ListAll(ctx context.Context) ([]Grant, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Grant, error)

	// ActiveFor: el grant más reciente del par con now < ExpiresAt.
	ActiveFor(ctx context.Context, doctorID, patientID string, now time.Time) (Grant, error)
}
