package audit

import "time"

type Action string

const (
	ActionDocumentView     Action = "DOCUMENT_VIEW"
	ActionDocumentDownload Action = "DOCUMENT_DOWNLOAD"
	ActionDocumentUpload   Action = "DOCUMENT_UPLOAD"
	ActionDocumentDelete   Action = "DOCUMENT_DELETE"
	ActionAccessRequest    Action = "ACCESS_REQUEST"
	ActionAccessApprove    Action = "ACCESS_APPROVE"
	ActionAccessReject     Action = "ACCESS_REJECT"
	ActionAccessRevoke     Action = "ACCESS_REVOKE"
	ActionEmergencyAccess  Action = "EMERGENCY_ACCESS"
	ActionEmergencyReview  Action = "EMERGENCY_REVIEW"
	ActionProfileUpdate    Action = "PROFILE_UPDATE"
	ActionLogin            Action = "LOGIN"
	ActionLogout           Action = "LOGOUT"
)

// Event es un registro inmutable del ledger. Actor y paciente son
// nullables: la identidad puede haber dejado de existir.
type Event struct {
	ID string

	ActorID         *string
	TargetPatientID *string

	Action Action

	DocumentID    *string
	DocumentTitle string

	IsEmergency bool
	IP          string
	Extra       map[string]any

	CreatedAt time.Time
}

// Entry es lo que el caller aporta; ID y CreatedAt los pone el ledger.
type Entry struct {
	ActorID         string
	TargetPatientID string
	Action          Action
	DocumentID      string
	DocumentTitle   string
	IsEmergency     bool
	IP              string
	Extra           map[string]any
}
