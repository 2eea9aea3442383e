package users

import (
	"context"

	"medivault/internal/ports/identity"
)

// Los "no existe" se devuelven como apperr.ErrNotFound; email o código de
// paciente duplicados como apperr.ErrValidation.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByPatientCode(ctx context.Context, code string) (User, error)
	ListActiveByRole(ctx context.Context, role identity.Role) ([]User, error)
}
