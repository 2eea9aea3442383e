package access

import (
	"context"
	"errors"
	"fmt"

	"medivault/internal/domain/accessrequests"
	"medivault/internal/domain/emergency"
	"medivault/internal/platform/apperr"
)

// ConsentSource: solicitudes aprobadas por el paciente.
type ConsentSource interface {
	LatestActive(ctx context.Context, doctorID, patientID string) (accessrequests.Request, error)
}

// EmergencySource: accesos break-glass.
type EmergencySource interface {
	ActiveFor(ctx context.Context, doctorID, patientID string) (emergency.Grant, error)
}

type Evaluator struct {
	consent   ConsentSource
	emergency EmergencySource
}

func NewEvaluator(consent ConsentSource, emergency EmergencySource) *Evaluator {
	return &Evaluator{consent: consent, emergency: emergency}
}

// AuthorizedDocuments decide el acceso de un doctor a un paciente.
// Prioridad: consentimiento vigente > emergencia vigente > nada. La
// emergencia es un fallback, nunca se suma al consentimiento.
func (e *Evaluator) AuthorizedDocuments(ctx context.Context, doctorID, patientID string) (Decision, error) {
	req, err := e.consent.LatestActive(ctx, doctorID, patientID)
	switch {
	case err == nil:
		if req.CoversAll() {
			return Decision{Mode: ModeAll, Source: SourceConsent, GrantID: req.ID}, nil
		}
		cats := make([]accessrequests.Category, len(req.Scope))
		copy(cats, req.Scope)
		return Decision{Mode: ModeCategories, Categories: cats, Source: SourceConsent, GrantID: req.ID}, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return Decision{}, fmt.Errorf("consent lookup: %w", err)
	}

	g, err := e.emergency.ActiveFor(ctx, doctorID, patientID)
	switch {
	case err == nil:
		return Decision{Mode: ModeCriticalOnly, Source: SourceEmergency, GrantID: g.ID}, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return Decision{}, fmt.Errorf("emergency lookup: %w", err)
	}

	return Decision{Mode: ModeNone}, nil
}
