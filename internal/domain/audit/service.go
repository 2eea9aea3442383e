package audit

import (
	"context"
	"strings"
	"time"

	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/ports/identity"

	"github.com/google/uuid"
)

const defaultListLimit = 500

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "audit"}),
		now:  time.Now,
	}
}

// Record agrega un evento al ledger. Siempre devuelve el evento: si la
// persistencia falla se loguea y la operación principal sigue su curso.
func (s *Service) Record(ctx context.Context, in Entry) Event {
	e := Event{
		ID:            uuid.NewString(),
		Action:        in.Action,
		DocumentTitle: strings.TrimSpace(in.DocumentTitle),
		IsEmergency:   in.IsEmergency,
		IP:            strings.TrimSpace(in.IP),
		Extra:         in.Extra,
		CreatedAt:     s.now(),
	}
	e.ActorID = optional(in.ActorID)
	e.TargetPatientID = optional(in.TargetPatientID)
	e.DocumentID = optional(in.DocumentID)
	if e.Extra == nil {
		e.Extra = map[string]any{}
	}

	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Error("audit append failed", map[string]any{
			"event":        "audit_append_failed",
			"action":       string(e.Action),
			"actor_id":     in.ActorID,
			"patient_id":   in.TargetPatientID,
			"is_emergency": e.IsEmergency,
			"error":        err,
		})
	}
	return e
}

// ListVisible lista los eventos que el actor puede ver según su rol.
func (s *Service) ListVisible(ctx context.Context, actor identity.Actor) ([]Event, error) {
	filter, err := FilterFor(actor)
	if err != nil {
		return nil, err
	}
	filter.Limit = defaultListLimit
	return s.repo.List(ctx, filter)
}

// FilterFor es la única regla de visibilidad del ledger:
// paciente => eventos donde es target; doctor => eventos donde es actor;
// admin => todo.
func FilterFor(actor identity.Actor) (Filter, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return Filter{}, apperr.PermissionDenied("anonymous actor")
	}
	switch actor.Role {
	case identity.RolePatient:
		return Filter{TargetPatientID: actor.ID}, nil
	case identity.RoleDoctor:
		return Filter{ActorID: actor.ID}, nil
	case identity.RoleAdmin:
		return Filter{}, nil
	default:
		return Filter{}, apperr.PermissionDenied("unknown role %q", actor.Role)
	}
}

// Matches aplica el filtro en memoria (lo usan los repos no-SQL).
func (f Filter) Matches(e Event) bool {
	if f.ActorID != "" && (e.ActorID == nil || *e.ActorID != f.ActorID) {
		return false
	}
	if f.TargetPatientID != "" && (e.TargetPatientID == nil || *e.TargetPatientID != f.TargetPatientID) {
		return false
	}
	return true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
