package notify

import "context"

type Type string

const (
	TypeAccessRequest   Type = "ACCESS_REQUEST"
	TypeAccessApproved  Type = "ACCESS_APPROVED"
	TypeAccessRejected  Type = "ACCESS_REJECTED"
	TypeAccessRevoked   Type = "ACCESS_REVOKED"
	TypeEmergencyAccess Type = "EMERGENCY_ACCESS"
	TypeAccessExpired   Type = "ACCESS_EXPIRED"
	TypeDocumentShared  Type = "DOCUMENT_SHARED"
	TypeSystem          Type = "SYSTEM"
)

// Message es una notificación in-app hacia un usuario.
type Message struct {
	RecipientID string
	Type        Type
	Title       string
	Body        string
	ActorName   string
	ReferenceID string
}

// Notifier es fire-and-forget desde el punto de vista del núcleo:
// el error solo se loguea, nunca aborta la operación principal.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type EmailKind string

const (
	EmailAccessRequested      EmailKind = "access_requested"
	EmailAccessApproved       EmailKind = "access_approved"
	EmailAccessRejected       EmailKind = "access_rejected"
	EmailAccessRevoked        EmailKind = "access_revoked"
	EmailEmergencyAccess      EmailKind = "emergency_access"
	EmailEmergencyAccessAdmin EmailKind = "emergency_access_admin"
)

// Mailer envía un email con template. Best-effort: devuelve false si no
// se pudo enviar (o si no hay SMTP configurado).
type Mailer interface {
	SendTemplated(ctx context.Context, kind EmailKind, to string, vars map[string]any) bool
}

// NopMailer no envía nada.
type NopMailer struct{}

func (NopMailer) SendTemplated(context.Context, EmailKind, string, map[string]any) bool {
	return false
}
