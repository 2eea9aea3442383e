package audit

import "context"

// Repository es append-only: no existen Update ni Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
	List(ctx context.Context, filter Filter) ([]Event, error)
}

// Filter vacío = todos los eventos. ActorID y TargetPatientID son
// excluyentes en la práctica (ver FilterFor).
type Filter struct {
	ActorID         string
	TargetPatientID string
	Limit           int
}
