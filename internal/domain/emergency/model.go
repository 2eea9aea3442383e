package emergency

import "time"

// Window es la duración fija de un acceso de emergencia. No es configurable
// ni extensible: cada activación crea un registro nuevo.
const Window = time.Hour

type ReasonCode string

const (
	ReasonLifeThreatening   ReasonCode = "LIFE_THREATENING"
	ReasonUnconscious       ReasonCode = "UNCONSCIOUS"
	ReasonMassCasualty      ReasonCode = "MASS_CASUALTY"
	ReasonCriticalProcedure ReasonCode = "CRITICAL_PROCEDURE"
	ReasonOther             ReasonCode = "OTHER"
)

type Grant struct {
	ID string

	DoctorID  string
	PatientID string

	ReasonCode   ReasonCode
	ReasonDetail string
	AdmitToken   string // OPD/ER token o admit ID

	GrantedAt time.Time
	ExpiresAt time.Time

	Review Review
}

// Review es el resultado de la revisión de un admin. Se sobreescribe
// completo en cada revisión.
type Review struct {
	Reviewed      bool
	FlaggedMisuse bool
	AdminNote     string
	ReviewerID    string
	ReviewedAt    *time.Time
}

func (g Grant) IsActive(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}
