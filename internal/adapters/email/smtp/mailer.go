package smtp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"medivault/internal/platform/logger"
	"medivault/internal/ports/notify"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer implementa notify.Mailer con gomail. Sin Host o From queda
// deshabilitado y SendTemplated devuelve false.
type Mailer struct {
	from string
	log  logger.Logger
	send func(m *gomail.Message) error
}

func New(cfg Config, log logger.Logger) *Mailer {
	if log == nil {
		log = logger.Nop()
	}
	m := &Mailer{
		from: strings.TrimSpace(cfg.From),
		log:  log.With(map[string]any{"module": "smtp"}),
	}
	if host := strings.TrimSpace(cfg.Host); host != "" && m.from != "" {
		d := gomail.NewDialer(host, cfg.Port, cfg.Username, cfg.Password)
		m.send = func(msg *gomail.Message) error { return d.DialAndSend(msg) }
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.send != nil
}

func (m *Mailer) SendTemplated(ctx context.Context, kind notify.EmailKind, to string, vars map[string]any) bool {
	if !m.Enabled() {
		return false
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return false
	}

	subject, body, err := render(kind, vars)
	if err != nil {
		m.log.Error("email render failed", map[string]any{"kind": string(kind), "error": err})
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.send(msg); err != nil {
		m.log.Warn("email send failed", map[string]any{"kind": string(kind), "to": to, "error": err})
		return false
	}
	return true
}

func render(kind notify.EmailKind, vars map[string]any) (string, string, error) {
	t, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email kind %q", kind)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, vars); err != nil {
		return "", "", err
	}
	return t.subject, buf.String(), nil
}
