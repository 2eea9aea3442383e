package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medivault/internal/domain/access"
	"medivault/internal/domain/audit"
	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/platform/validation"
	"medivault/internal/ports/identity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) audit.Event
}

type Evaluator interface {
	AuthorizedDocuments(ctx context.Context, doctorID, patientID string) (access.Decision, error)
}

type Service struct {
	repo      Repository
	dir       identity.Directory
	evaluator Evaluator
	audit     AuditRecorder
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, dir identity.Directory, evaluator Evaluator, rec AuditRecorder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		dir:       dir,
		evaluator: evaluator,
		audit:     rec,
		log:       log.With(map[string]any{"module": "documents"}),
		now:       time.Now,
	}
}

type RegisterInput struct {
	Category     Category `json:"document_type" validate:"required,oneof=PRESCRIPTION REPORT SCAN DISCHARGE VACCINATION OTHER"`
	Title        string   `json:"title" validate:"notblank,max=300"`
	Description  string   `json:"description"`
	HospitalName string   `json:"hospital_name" validate:"max=300"`
	DocumentDate string   `json:"document_date" validate:"required"`
	IsCritical   bool     `json:"is_critical"`
}

// Register guarda la metadata de un documento propio del paciente.
func (s *Service) Register(ctx context.Context, actor identity.Actor, in RegisterInput) (Document, error) {
	if !actor.Is(identity.RolePatient) {
		return Document{}, apperr.PermissionDenied("only patients can register documents")
	}

	in.Category = Category(strings.ToUpper(strings.TrimSpace(string(in.Category))))
	in.Title = strings.TrimSpace(in.Title)
	in.DocumentDate = strings.TrimSpace(in.DocumentDate)
	if err := validation.Struct(in); err != nil {
		return Document{}, err
	}
	date, err := time.Parse(dateLayout, in.DocumentDate)
	if err != nil {
		return Document{}, apperr.Validation("document_date must be YYYY-MM-DD")
	}

	d := Document{
		ID:           uuid.NewString(),
		PatientID:    actor.ID,
		UploadedBy:   actor.ID,
		Category:     in.Category,
		Title:        in.Title,
		Description:  strings.TrimSpace(in.Description),
		HospitalName: strings.TrimSpace(in.HospitalName),
		DocumentDate: date,
		IsCritical:   in.IsCritical,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Document{}, err
	}

	s.record(ctx, actor, d, audit.ActionDocumentUpload, access.Decision{})
	return d, nil
}

func (s *Service) ListOwn(ctx context.Context, actor identity.Actor) ([]Document, error) {
	if !actor.Is(identity.RolePatient) {
		return nil, apperr.PermissionDenied("only patients have own documents")
	}
	return s.repo.ListByPatient(ctx, actor.ID)
}

// ListForPatient lista los documentos de un paciente (por código) que el
// actor puede ver. Doctor: según la decisión del evaluador (sin acceso,
// lista vacía). Admin: todos.
func (s *Service) ListForPatient(ctx context.Context, actor identity.Actor, patientCode string) ([]Document, access.Decision, error) {
	if !actor.Is(identity.RoleDoctor) && !actor.Is(identity.RoleAdmin) {
		return nil, access.Decision{}, apperr.PermissionDenied("only doctors and admins can browse patient documents")
	}

	patient, err := s.dir.FindPatientByCode(ctx, strings.ToUpper(strings.TrimSpace(patientCode)))
	if err != nil {
		return nil, access.Decision{}, err
	}

	decision := access.Decision{Mode: access.ModeAll}
	if actor.Role == identity.RoleDoctor {
		decision, err = s.evaluator.AuthorizedDocuments(ctx, actor.ID, patient.ID)
		if err != nil {
			return nil, access.Decision{}, err
		}
		if !decision.Allowed() {
			return []Document{}, decision, nil
		}
	}

	items, err := s.repo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, access.Decision{}, err
	}
	out := make([]Document, 0, len(items))
	for _, d := range items {
		if decision.Permits(string(d.Category), d.IsCritical) {
			out = append(out, d)
		}
	}
	return out, decision, nil
}

// Get devuelve un documento y audita la lectura. Un documento ajeno para un
// paciente es NotFound; fuera del alcance de un doctor es PermissionDenied.
func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Document, error) {
	d, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Document{}, err
	}

	var decision access.Decision
	switch actor.Role {
	case identity.RolePatient:
		if d.PatientID != actor.ID {
			return Document{}, apperr.NotFound("document %s", id)
		}
	case identity.RoleDoctor:
		decision, err = s.evaluator.AuthorizedDocuments(ctx, actor.ID, d.PatientID)
		if err != nil {
			return Document{}, fmt.Errorf("authorize: %w", err)
		}
		if !decision.Permits(string(d.Category), d.IsCritical) {
			return Document{}, apperr.PermissionDenied("document %s is outside your access", id)
		}
	case identity.RoleAdmin:
	default:
		return Document{}, apperr.PermissionDenied("unknown role %q", actor.Role)
	}

	s.record(ctx, actor, d, audit.ActionDocumentView, decision)
	return d, nil
}

// Delete borra un documento propio del paciente. El evento de auditoría
// conserva id y título aunque el documento ya no exista.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if !actor.Is(identity.RolePatient) {
		return apperr.PermissionDenied("only patients can delete their documents")
	}

	id = strings.TrimSpace(id)
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.PatientID != actor.ID {
		return apperr.NotFound("document %s", id)
	}
	if err := s.repo.Delete(ctx, d.ID); err != nil {
		return err
	}

	s.record(ctx, actor, d, audit.ActionDocumentDelete, access.Decision{})
	s.log.Info("document deleted", map[string]any{"document_id": d.ID, "patient_id": d.PatientID})
	return nil
}

func (s *Service) record(ctx context.Context, actor identity.Actor, d Document, action audit.Action, decision access.Decision) {
	if s.audit == nil {
		return
	}
	extra := map[string]any{}
	if decision.Source != access.SourceNone {
		extra["access_source"] = string(decision.Source)
		extra["grant_id"] = decision.GrantID
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:         actor.ID,
		TargetPatientID: d.PatientID,
		Action:          action,
		DocumentID:      d.ID,
		DocumentTitle:   d.Title,
		IsEmergency:     decision.IsEmergency(),
		IP:              actor.IP,
		Extra:           extra,
	})
}
