package smtp

import (
	"html/template"

	"medivault/internal/ports/notify"
)

type emailTemplate struct {
	subject string
	body    *template.Template
}

func mustTemplate(kind notify.EmailKind, subject, body string) emailTemplate {
	return emailTemplate{
		subject: subject,
		body:    template.Must(template.New(string(kind)).Parse(body)),
	}
}

var templates = map[notify.EmailKind]emailTemplate{
	notify.EmailAccessRequested: mustTemplate(notify.EmailAccessRequested,
		"MediVault: new access request",
		`<p>Hello {{.patient_name}},</p>
<p>Dr. {{.doctor_name}} has requested access to your medical records.</p>
<p>Reason: {{.reason}}</p>
<p>Open MediVault to approve or reject the request.</p>`),

	notify.EmailAccessApproved: mustTemplate(notify.EmailAccessApproved,
		"MediVault: access approved",
		`<p>Hello Dr. {{.doctor_name}},</p>
<p>{{.patient_name}} approved your access request. Access expires in {{.duration_hours}} hours.</p>`),

	notify.EmailAccessRejected: mustTemplate(notify.EmailAccessRejected,
		"MediVault: access request rejected",
		`<p>Hello Dr. {{.doctor_name}},</p>
<p>{{.patient_name}} rejected your access request.</p>`),

	notify.EmailAccessRevoked: mustTemplate(notify.EmailAccessRevoked,
		"MediVault: access revoked",
		`<p>Hello Dr. {{.doctor_name}},</p>
<p>{{.patient_name}} has revoked your access to their records.</p>`),

	notify.EmailEmergencyAccess: mustTemplate(notify.EmailEmergencyAccess,
		"MediVault: emergency access to your records",
		`<p>Hello {{.patient_name}},</p>
<p>Dr. {{.doctor_name}} used emergency access to your critical records.</p>
<p>Reason: {{.reason_detail}}</p>
<p>The access expires in 1 hour and will be reviewed by an administrator.</p>`),

	notify.EmailEmergencyAccessAdmin: mustTemplate(notify.EmailEmergencyAccessAdmin,
		"MediVault: emergency access requires review",
		`<p>Dr. {{.doctor_name}} triggered emergency access on patient {{.patient_name}} ({{.patient_code}}).</p>
<p>Reason: {{.reason_detail}}</p>
<p>Please review the grant in the admin panel.</p>`),
}
