package auth

import "context"

// AuthVerifier valida un bearer token. Claims.Role debe ser un rol conocido
// (PATIENT, DOCTOR, ADMIN) para que el request tenga actor.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
