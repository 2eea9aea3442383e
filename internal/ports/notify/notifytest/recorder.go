// Package notifytest graba notificaciones y emails para assertions.
package notifytest

import (
	"context"
	"sync"

	"medivault/internal/ports/notify"
)

type Email struct {
	Kind notify.EmailKind
	To   string
	Vars map[string]any
}

// Recorder implementa notify.Notifier y notify.Mailer.
type Recorder struct {
	mu       sync.Mutex
	messages []notify.Message
	emails   []Email

	// FailFor hace fallar Notify para esos destinatarios.
	FailFor map[string]error
	// MailOK es el resultado de SendTemplated.
	MailOK bool
}

func NewRecorder() *Recorder {
	return &Recorder{FailFor: map[string]error{}, MailOK: true}
}

func (r *Recorder) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailFor[msg.RecipientID]; ok {
		return err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) SendTemplated(_ context.Context, kind notify.EmailKind, to string, vars map[string]any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, Email{Kind: kind, To: to, Vars: vars})
	return r.MailOK
}

func (r *Recorder) Messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.messages...)
}

func (r *Recorder) Emails() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Email(nil), r.emails...)
}

// To filtra los mensajes de un destinatario.
func (r *Recorder) To(recipientID string) []notify.Message {
	out := make([]notify.Message, 0)
	for _, m := range r.Messages() {
		if m.RecipientID == recipientID {
			out = append(out, m)
		}
	}
	return out
}
