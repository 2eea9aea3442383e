package documents

import "context"

type Repository interface {
	Create(ctx context.Context, d Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// ListByPatient ordena por DocumentDate desc, CreatedAt desc.
	ListByPatient(ctx context.Context, patientID string) ([]Document, error)
	// Delete devuelve NotFound si el documento no existe.
	Delete(ctx context.Context, id string) error
}
