package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medivault/internal/platform/httpclient"
	"medivault/internal/ports/notify"
)

var ErrNotConfigured = errors.New("notification webhook not configured")

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Notifier reenvía cada notificación in-app a un webhook (push, SMS, etc).
type Notifier struct {
	http   *httpclient.Client
	url    string
	apiKey string
	now    func() time.Time
}

func New(cfg Config) *Notifier {
	return &Notifier{
		http:   httpclient.New(cfg.Timeout),
		url:    strings.TrimSpace(cfg.URL),
		apiKey: strings.TrimSpace(cfg.APIKey),
		now:    time.Now,
	}
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.url != ""
}

type payload struct {
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"notification_type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ActorName   string    `json:"actor_name,omitempty"`
	ReferenceID string    `json:"reference_id,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Message) error {
	if !n.IsConfigured() {
		return ErrNotConfigured
	}

	var headers map[string]string
	if n.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + n.apiKey}
	}

	body := payload{
		RecipientID: msg.RecipientID,
		Type:        string(msg.Type),
		Title:       msg.Title,
		Message:     msg.Body,
		ActorName:   msg.ActorName,
		ReferenceID: msg.ReferenceID,
		SentAt:      n.now().UTC(),
	}
	if err := n.http.DoJSON(ctx, http.MethodPost, n.url, headers, body, nil); err != nil {
		return fmt.Errorf("webhook notify %s: %w", msg.RecipientID, err)
	}
	return nil
}
