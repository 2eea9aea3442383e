package notifications

import (
	"context"
	"strings"
	"time"

	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/ports/identity"
	"medivault/internal/ports/notify"

	"github.com/google/uuid"
)

const listLimit = 200

// Service guarda notificaciones in-app y, si hay relay configurado, las
// reenvía (p.ej. webhook hacia un servicio de push). Implementa
// notify.Notifier.
type Service struct {
	repo  Repository
	relay notify.Notifier
	log   logger.Logger
	now   func() time.Time
}

var _ notify.Notifier = (*Service)(nil)

func NewService(repo Repository, relay notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		relay: relay,
		log:   log.With(map[string]any{"module": "notifications"}),
		now:   time.Now,
	}
}

func (s *Service) Notify(ctx context.Context, msg notify.Message) error {
	recipient := strings.TrimSpace(msg.RecipientID)
	if recipient == "" {
		return apperr.Validation("notification recipient is required")
	}
	if msg.Type == "" {
		msg.Type = notify.TypeSystem
	}

	n := Notification{
		ID:          uuid.NewString(),
		RecipientID: recipient,
		Type:        msg.Type,
		Title:       strings.TrimSpace(msg.Title),
		Message:     strings.TrimSpace(msg.Body),
		ActorName:   msg.ActorName,
		ReferenceID: msg.ReferenceID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.relay != nil {
		if err := s.relay.Notify(ctx, msg); err != nil {
			s.log.Warn("notification relay failed", map[string]any{
				"notification_id": n.ID,
				"recipient_id":    n.RecipientID,
				"error":           err,
			})
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, actor identity.Actor) ([]Notification, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, apperr.PermissionDenied("anonymous actor")
	}
	return s.repo.ListByRecipient(ctx, actor.ID, listLimit)
}

func (s *Service) UnreadCount(ctx context.Context, actor identity.Actor) (int, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return 0, apperr.PermissionDenied("anonymous actor")
	}
	return s.repo.CountUnread(ctx, actor.ID)
}

// MarkRead marca ids del actor como leídas; ids vacío = todas. Ids ajenas
// se ignoran.
func (s *Service) MarkRead(ctx context.Context, actor identity.Actor, ids []string) (int, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return 0, apperr.PermissionDenied("anonymous actor")
	}
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	return s.repo.MarkRead(ctx, actor.ID, clean)
}
