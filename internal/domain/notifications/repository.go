package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) error
	// ListByRecipient ordena por CreatedAt desc. limit <= 0 = sin límite.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	// MarkRead marca como leídas las ids indicadas del destinatario; sin ids,
	// todas las pendientes. Devuelve cuántas cambiaron.
	MarkRead(ctx context.Context, recipientID string, ids []string) (int, error)
}
