package accessrequests

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusRevoked  Status = "REVOKED"
	// StatusExpired nunca se persiste: es la vista de un APPROVED vencido.
	StatusExpired Status = "EXPIRED"
)

// Category es una categoría de documento clínico. CategoryAll es el comodín.
type Category string

const (
	CategoryAll          Category = "ALL"
	CategoryPrescription Category = "PRESCRIPTION"
	CategoryReport       Category = "REPORT"
	CategoryScan         Category = "SCAN"
	CategoryDischarge    Category = "DISCHARGE"
	CategoryVaccination  Category = "VACCINATION"
)

const (
	DefaultDurationHours = 24
	MaxDurationHours     = 720
)

type Request struct {
	ID string

	DoctorID  string
	PatientID string

	Status Status
	Scope  []Category
	Reason string

	// Duración pedida por el doctor. Solo informativa: al aprobar manda la
	// duración que elige el paciente.
	RequestedDurationHours int
	ProposedExpiresAt      time.Time

	RequestedAt time.Time
	RespondedAt *time.Time
	ExpiresAt   *time.Time // nil hasta APPROVED

	PatientNote string
}

// IsActive: aprobado y sin vencer. El vencimiento se calcula, no se guarda.
func (r Request) IsActive(now time.Time) bool {
	if r.Status != StatusApproved {
		return false
	}
	return r.ExpiresAt == nil || r.ExpiresAt.After(now)
}

// EffectiveStatus devuelve EXPIRED para un APPROVED vencido; en otro caso
// el status guardado.
func (r Request) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusApproved && !r.IsActive(now) {
		return StatusExpired
	}
	return r.Status
}

// CoversAll indica si el scope incluye el comodín ALL.
func (r Request) CoversAll() bool {
	for _, c := range r.Scope {
		if c == CategoryAll {
			return true
		}
	}
	return false
}
