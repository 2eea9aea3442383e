package accessrequests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medivault/internal/domain/audit"
	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/platform/validation"
	"medivault/internal/ports/identity"
	"medivault/internal/ports/notify"

	"github.com/google/uuid"
)

// AuditRecorder evita depender del Service concreto de audit.
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) audit.Event
}

type Deps struct {
	Directory identity.Directory
	Audit     AuditRecorder
	Notifier  notify.Notifier
	Mailer    notify.Mailer
	Log       logger.Logger
}

type Service struct {
	repo     Repository
	dir      identity.Directory
	audit    AuditRecorder
	notifier notify.Notifier
	mailer   notify.Mailer
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	s := &Service{
		repo:     repo,
		dir:      deps.Directory,
		audit:    deps.Audit,
		notifier: deps.Notifier,
		mailer:   deps.Mailer,
		log:      deps.Log,
		now:      time.Now,
	}
	if s.mailer == nil {
		s.mailer = notify.NopMailer{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With(map[string]any{"module": "accessrequests"})
	return s
}

type CreateInput struct {
	PatientCode   string     `json:"patient_code" validate:"notblank"`
	Scope         []Category `json:"scope" validate:"required,min=1,dive,oneof=ALL PRESCRIPTION REPORT SCAN DISCHARGE VACCINATION"`
	Reason        string     `json:"reason" validate:"notblank"`
	DurationHours int        `json:"duration_hours" validate:"min=0,max=720"`
}

// Create registra una solicitud PENDING de un doctor sobre un paciente.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (Request, error) {
	if !actor.Is(identity.RoleDoctor) {
		return Request{}, apperr.PermissionDenied("only doctors can request access")
	}

	in.PatientCode = strings.ToUpper(strings.TrimSpace(in.PatientCode))
	in.Reason = strings.TrimSpace(in.Reason)
	in.Scope = normalizeScope(in.Scope)
	if err := validation.Struct(in); err != nil {
		return Request{}, err
	}
	hours := in.DurationHours
	if hours == 0 {
		hours = DefaultDurationHours
	}

	patient, err := s.dir.FindPatientByCode(ctx, in.PatientCode)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Request{}, apperr.NotFound("patient %s", in.PatientCode)
		}
		return Request{}, fmt.Errorf("find patient: %w", err)
	}
	if !patient.Active {
		return Request{}, apperr.NotFound("patient %s", in.PatientCode)
	}

	now := s.now()
	req := Request{
		ID:                     uuid.NewString(),
		DoctorID:               actor.ID,
		PatientID:              patient.ID,
		Status:                 StatusPending,
		Scope:                  in.Scope,
		Reason:                 in.Reason,
		RequestedDurationHours: hours,
		ProposedExpiresAt:      now.Add(time.Duration(hours) * time.Hour),
		RequestedAt:            now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, err
	}

	doctor := s.lookup(ctx, actor.ID)

	s.record(ctx, audit.Entry{
		ActorID:         actor.ID,
		TargetPatientID: patient.ID,
		Action:          audit.ActionAccessRequest,
		IP:              actor.IP,
		Extra:           map[string]any{"request_id": req.ID},
	})
	s.notify(ctx, notify.Message{
		RecipientID: patient.ID,
		Type:        notify.TypeAccessRequest,
		Title:       "Access Request from Doctor",
		Body:        fmt.Sprintf("Dr. %s has requested access to your medical records. Reason: %s", doctor.FullName, req.Reason),
		ActorName:   doctor.FullName,
		ReferenceID: req.ID,
	})
	s.email(ctx, notify.EmailAccessRequested, patient.Email, map[string]any{
		"doctor_name":  doctor.FullName,
		"patient_name": patient.FullName,
		"reason":       req.Reason,
	})

	s.log.Info("access requested", map[string]any{
		"request_id": req.ID,
		"doctor_id":  req.DoctorID,
		"patient_id": req.PatientID,
	})
	return req, nil
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionRevoke  Action = "revoke"
)

type RespondInput struct {
	Action        Action `json:"action" validate:"required,oneof=approve reject revoke"`
	Note          string `json:"patient_note"`
	DurationHours int    `json:"duration_hours" validate:"min=0,max=720"`
}

// Respond aplica la decisión del paciente. La transición es compare-and-set
// sobre el status guardado: si dos respuestas compiten, la segunda recibe
// ErrInvalidTransition.
func (s *Service) Respond(ctx context.Context, actor identity.Actor, requestID string, in RespondInput) (Request, error) {
	if !actor.Is(identity.RolePatient) {
		return Request{}, apperr.PermissionDenied("only patients can respond to access requests")
	}

	in.Action = Action(strings.ToLower(strings.TrimSpace(string(in.Action))))
	in.Note = strings.TrimSpace(in.Note)
	if err := validation.Struct(in); err != nil {
		return Request{}, err
	}

	requestID = strings.TrimSpace(requestID)
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	// Una solicitud ajena no se distingue de una inexistente.
	if req.PatientID != actor.ID {
		return Request{}, apperr.NotFound("access request %s", requestID)
	}

	now := s.now()
	next := req
	var from Status

	switch in.Action {
	case ActionApprove:
		from = StatusPending
		hours := in.DurationHours
		if hours == 0 {
			hours = DefaultDurationHours
		}
		exp := now.Add(time.Duration(hours) * time.Hour)
		next.Status = StatusApproved
		next.ExpiresAt = &exp
		next.RespondedAt = &now
		next.PatientNote = in.Note
	case ActionReject:
		from = StatusPending
		next.Status = StatusRejected
		next.RespondedAt = &now
		next.PatientNote = in.Note
	case ActionRevoke:
		from = StatusApproved
		next.Status = StatusRevoked
	}

	if req.Status != from {
		return Request{}, apperr.InvalidTransition("cannot %s a %s request", in.Action, req.Status)
	}
	if err := s.repo.Transition(ctx, next, from); err != nil {
		return Request{}, err
	}

	s.afterResponse(ctx, actor, next, in.Action)
	return next, nil
}

func (s *Service) afterResponse(ctx context.Context, actor identity.Actor, req Request, action Action) {
	doctor := s.lookup(ctx, req.DoctorID)
	patient := s.lookup(ctx, req.PatientID)

	var (
		auditAction audit.Action
		msg         notify.Message
		kind        notify.EmailKind
	)
	vars := map[string]any{
		"doctor_name":  doctor.FullName,
		"patient_name": patient.FullName,
	}

	switch action {
	case ActionApprove:
		hours := int(req.ExpiresAt.Sub(*req.RespondedAt) / time.Hour)
		vars["duration_hours"] = hours
		auditAction = audit.ActionAccessApprove
		kind = notify.EmailAccessApproved
		msg = notify.Message{
			Type:  notify.TypeAccessApproved,
			Title: "Access Request Approved",
			Body: fmt.Sprintf("Patient %s approved your access to their records. Access expires in %d hours.",
				patient.FullName, hours),
		}
	case ActionReject:
		auditAction = audit.ActionAccessReject
		kind = notify.EmailAccessRejected
		msg = notify.Message{
			Type:  notify.TypeAccessRejected,
			Title: "Access Request Rejected",
			Body:  fmt.Sprintf("Patient %s rejected your access request.", patient.FullName),
		}
	case ActionRevoke:
		auditAction = audit.ActionAccessRevoke
		kind = notify.EmailAccessRevoked
		msg = notify.Message{
			Type:  notify.TypeAccessRevoked,
			Title: "Access Revoked",
			Body:  fmt.Sprintf("Patient %s has revoked your access to their records.", patient.FullName),
		}
	}

	s.record(ctx, audit.Entry{
		ActorID:         actor.ID,
		TargetPatientID: req.PatientID,
		Action:          auditAction,
		IP:              actor.IP,
		Extra:           map[string]any{"doctor": doctor.FullName, "request_id": req.ID},
	})

	msg.RecipientID = req.DoctorID
	msg.ActorName = patient.FullName
	msg.ReferenceID = req.ID
	s.notify(ctx, msg)
	s.email(ctx, kind, doctor.Email, vars)

	s.log.Info("access request "+string(action), map[string]any{
		"request_id": req.ID,
		"doctor_id":  req.DoctorID,
		"patient_id": req.PatientID,
		"status":     string(req.Status),
	})
}

// ListForDoctor devuelve las solicitudes emitidas por el doctor.
func (s *Service) ListForDoctor(ctx context.Context, actor identity.Actor) ([]Request, error) {
	if !actor.Is(identity.RoleDoctor) {
		return nil, apperr.PermissionDenied("only doctors can list their requests")
	}
	return s.repo.ListByDoctor(ctx, actor.ID)
}

// ListForPatient devuelve las solicitudes recibidas por el paciente. El
// filtro compara contra EffectiveStatus, así EXPIRED también filtra.
func (s *Service) ListForPatient(ctx context.Context, actor identity.Actor, statuses ...Status) ([]Request, error) {
	if !actor.Is(identity.RolePatient) {
		return nil, apperr.PermissionDenied("only patients can list incoming requests")
	}
	items, err := s.repo.ListByPatient(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return items, nil
	}

	allowed := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		allowed[st] = struct{}{}
	}
	now := s.now()
	out := make([]Request, 0, len(items))
	for _, r := range items {
		if _, ok := allowed[r.EffectiveStatus(now)]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// LatestActive busca la solicitud vigente más reciente del par
// doctor/paciente. apperr.ErrNotFound si no hay.
func (s *Service) LatestActive(ctx context.Context, doctorID, patientID string) (Request, error) {
	doctorID = strings.TrimSpace(doctorID)
	patientID = strings.TrimSpace(patientID)
	if doctorID == "" || patientID == "" {
		return Request{}, apperr.Validation("doctor and patient ids are required")
	}
	return s.repo.LatestActive(ctx, doctorID, patientID, s.now())
}

// Now expone el reloj del servicio (los handlers lo usan para EffectiveStatus).
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) lookup(ctx context.Context, id string) identity.Identity {
	who, err := s.dir.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("identity lookup failed", map[string]any{
			"user_id": id,
			"error":   err,
		})
		return identity.Identity{ID: id}
	}
	return who
}

func (s *Service) notify(ctx context.Context, msg notify.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Warn("notification failed", map[string]any{
			"recipient_id": msg.RecipientID,
			"type":         string(msg.Type),
			"error":        err,
		})
	}
}

func (s *Service) email(ctx context.Context, kind notify.EmailKind, to string, vars map[string]any) {
	if strings.TrimSpace(to) == "" {
		return
	}
	if !s.mailer.SendTemplated(ctx, kind, to, vars) {
		s.log.Debug("email not sent", map[string]any{"kind": string(kind), "to": to})
	}
}

// normalizeScope deduplica y pasa a mayúsculas manteniendo el orden.
func normalizeScope(in []Category) []Category {
	if in == nil {
		return nil
	}
	seen := map[Category]struct{}{}
	out := make([]Category, 0, len(in))
	for _, raw := range in {
		c := Category(strings.ToUpper(strings.TrimSpace(string(raw))))
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (s *Service) record(ctx context.Context, e audit.Entry) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, e)
}
