package emergency

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
	s.log = s.log.With(map[string]any{"module": "emergency"})
	return s
}

type TriggerInput struct {
	PatientCode  string     `json:"patient_code" validate:"notblank"`
	ReasonCode   ReasonCode `json:"reason_code" validate:"required,oneof=LIFE_THREATENING UNCONSCIOUS MASS_CASUALTY CRITICAL_PROCEDURE OTHER"`
	ReasonDetail string     `json:"reason_detail" validate:"notblank"`
	AdmitToken   string     `json:"patient_admit_id" validate:"notblank"`
}

// Trigger abre un acceso de emergencia de una hora sobre el paciente. La
// apertura nunca falla por culpa de auditoría o notificaciones.
func (s *Service) Trigger(ctx context.Context, actor identity.Actor, in TriggerInput) (Grant, error) {
	if !actor.Is(identity.RoleDoctor) {
		return Grant{}, apperr.PermissionDenied("only doctors can trigger emergency access")
	}

	in.PatientCode = strings.ToUpper(strings.TrimSpace(in.PatientCode))
	in.ReasonCode = ReasonCode(strings.ToUpper(strings.TrimSpace(string(in.ReasonCode))))
	in.ReasonDetail = strings.TrimSpace(in.ReasonDetail)
	in.AdmitToken = strings.TrimSpace(in.AdmitToken)
	if err := validation.Struct(in); err != nil {
		return Grant{}, err
	}

	patient, err := s.dir.FindPatientByCode(ctx, in.PatientCode)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Grant{}, apperr.NotFound("patient %s", in.PatientCode)
		}
		return Grant{}, fmt.Errorf("find patient: %w", err)
	}
	if !patient.Active {
		return Grant{}, apperr.NotFound("patient %s", in.PatientCode)
	}

	now := s.now()
	g := Grant{
		ID:           uuid.NewString(),
		DoctorID:     actor.ID,
		PatientID:    patient.ID,
		ReasonCode:   in.ReasonCode,
		ReasonDetail: in.ReasonDetail,
		AdmitToken:   in.AdmitToken,
		GrantedAt:    now,
		ExpiresAt:    now.Add(Window),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}

	s.log.Warn("emergency access granted", map[string]any{
		"grant_id":    g.ID,
		"doctor_id":   g.DoctorID,
		"patient_id":  g.PatientID,
		"reason_code": string(g.ReasonCode),
		"expires_at":  g.ExpiresAt,
	})

	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			ActorID:         actor.ID,
			TargetPatientID: patient.ID,
			Action:          audit.ActionEmergencyAccess,
			IsEmergency:     true,
			IP:              actor.IP,
			Extra: map[string]any{
				"reason_code":   string(g.ReasonCode),
				"reason_detail": g.ReasonDetail,
				"admit_token":   g.AdmitToken,
				"grant_id":      g.ID,
			},
		})
	}

	doctor, err := s.dir.GetByID(ctx, actor.ID)
	if err != nil {
		s.log.Warn("identity lookup failed", map[string]any{"user_id": actor.ID, "error": err})
		doctor = identity.Identity{ID: actor.ID}
	}
	s.fanout(ctx, s.buildTasks(ctx, g, doctor, patient))

	return g, nil
}

// task es una entrega independiente (notificación + email) a un destinatario.
type task struct {
	recipient identity.Identity
	msg       notify.Message
	email     notify.EmailKind
	vars      map[string]any
}

// buildTasks arma la lista: primero el paciente, después cada admin activo.
func (s *Service) buildTasks(ctx context.Context, g Grant, doctor, patient identity.Identity) []task {
	tasks := []task{{
		recipient: patient,
		msg: notify.Message{
			RecipientID: patient.ID,
			Type:        notify.TypeEmergencyAccess,
			Title:       "Emergency Access Used",
			Body: fmt.Sprintf("Dr. %s used emergency break-glass access to your records at %s. Reason: %s. Access expires in 1 hour.",
				doctor.FullName, g.GrantedAt.Format("03:04 PM"), g.ReasonDetail),
			ActorName:   doctor.FullName,
			ReferenceID: g.ID,
		},
		email: notify.EmailEmergencyAccess,
		vars: map[string]any{
			"doctor_name":   doctor.FullName,
			"patient_name":  patient.FullName,
			"reason_detail": g.ReasonDetail,
		},
	}}

	admins, err := s.dir.ListActiveAdmins(ctx)
	if err != nil {
		s.log.Error("list admins failed", map[string]any{"grant_id": g.ID, "error": err})
		return tasks
	}
	for _, admin := range admins {
		tasks = append(tasks, task{
			recipient: admin,
			msg: notify.Message{
				RecipientID: admin.ID,
				Type:        notify.TypeEmergencyAccess,
				Title:       "Emergency Access Triggered",
				Body: fmt.Sprintf("Dr. %s triggered emergency access on patient %s (%s). Review required.",
					doctor.FullName, patient.FullName, patient.PatientCode),
				ActorName:   doctor.FullName,
				ReferenceID: g.ID,
			},
			email: notify.EmailEmergencyAccessAdmin,
			vars: map[string]any{
				"doctor_name":   doctor.FullName,
				"patient_name":  patient.FullName,
				"patient_code":  patient.PatientCode,
				"reason_detail": g.ReasonDetail,
			},
		})
	}
	return tasks
}

// fanout ejecuta cada tarea por separado. Un fallo se loguea con su
// destinatario y no corta el loop.
func (s *Service) fanout(ctx context.Context, tasks []task) {
	for _, t := range tasks {
		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, t.msg); err != nil {
				s.log.Warn("emergency notification failed", map[string]any{
					"recipient_id": t.recipient.ID,
					"reference_id": t.msg.ReferenceID,
					"error":        err,
				})
			}
		}
		if strings.TrimSpace(t.recipient.Email) == "" {
			continue
		}
		if !s.mailer.SendTemplated(ctx, t.email, t.recipient.Email, t.vars) {
			s.log.Warn("emergency email not sent", map[string]any{
				"recipient_id": t.recipient.ID,
				"kind":         string(t.email),
			})
		}
	}
}

type ReviewInput struct {
	FlagMisuse bool   `json:"flag_misuse"`
	AdminNote  string `json:"admin_note"`
}

// Review registra la revisión de un admin. Es idempotente y la última
// llamada gana; se permite sobre grants ya vencidos.
func (s *Service) Review(ctx context.Context, actor identity.Actor, grantID string, in ReviewInput) (Grant, error) {
	if !actor.Is(identity.RoleAdmin) {
		return Grant{}, apperr.PermissionDenied("only admins can review emergency access")
	}

	grantID = strings.TrimSpace(grantID)
	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}

	now := s.now()
	g.Review = Review{
		Reviewed:      true,
		FlaggedMisuse: in.FlagMisuse,
		AdminNote:     strings.TrimSpace(in.AdminNote),
		ReviewerID:    actor.ID,
		ReviewedAt:    &now,
	}
	if err := s.repo.SaveReview(ctx, g.ID, g.Review); err != nil {
		return Grant{}, err
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			ActorID:         actor.ID,
			TargetPatientID: g.PatientID,
			Action:          audit.ActionEmergencyReview,
			IsEmergency:     true,
			IP:              actor.IP,
			Extra: map[string]any{
				"grant_id":       g.ID,
				"flagged_misuse": g.Review.FlaggedMisuse,
			},
		})
	}
	if g.Review.FlaggedMisuse {
		s.log.Warn("emergency access flagged as misuse", map[string]any{
			"grant_id":    g.ID,
			"doctor_id":   g.DoctorID,
			"reviewer_id": actor.ID,
		})
	}
	return g, nil
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]Grant, error) {
	if !actor.Is(identity.RoleAdmin) {
		return nil, apperr.PermissionDenied("only admins can list all emergency access")
	}
	return s.repo.ListAll(ctx)
}

func (s *Service) ListForDoctor(ctx context.Context, actor identity.Actor) ([]Grant, error) {
	if !actor.Is(identity.RoleDoctor) {
		return nil, apperr.PermissionDenied("only doctors can list their emergency access")
	}
	return s.repo.ListByDoctor(ctx, actor.ID)
}

// ActiveFor devuelve el grant de emergencia vigente más reciente del par.
func (s *Service) ActiveFor(ctx context.Context, doctorID, patientID string) (Grant, error) {
	doctorID = strings.TrimSpace(doctorID)
	patientID = strings.TrimSpace(patientID)
	if doctorID == "" || patientID == "" {
		return Grant{}, apperr.Validation("doctor and patient ids are required")
	}
	return s.repo.ActiveFor(ctx, doctorID, patientID, s.now())
}

func (s *Service) Now() time.Time { return s.now() }
