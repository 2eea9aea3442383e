package notifications

import (
	"time"

	"medivault/internal/ports/notify"
)

type Notification struct {
	ID          string
	RecipientID string
	Type        notify.Type
	Title       string
	Message     string
	IsRead      bool
	ActorName   string
	ReferenceID string
	CreatedAt   time.Time
}
