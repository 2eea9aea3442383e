package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"medivault/internal/domain/notifications"
	"medivault/internal/ports/notify"

	"github.com/jmoiron/sqlx"
)

type NotificationsRepo struct {
	db *sqlx.DB
}

func NewNotificationsRepo(db *sqlx.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

type notificationRow struct {
	ID          string    `db:"id"`
	RecipientID string    `db:"recipient_id"`
	Type        string    `db:"notification_type"`
	Title       string    `db:"title"`
	Message     string    `db:"message"`
	IsRead      bool      `db:"is_read"`
	ActorName   string    `db:"actor_name"`
	ReferenceID string    `db:"reference_id"`
	CreatedAt   time.Time `db:"created_at"`
}

const notificationColumns = `
	id, recipient_id, notification_type, title, message,
	is_read, actor_name, reference_id, created_at`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		n.ID,
		n.RecipientID,
		string(n.Type),
		n.Title,
		n.Message,
		n.IsRead,
		n.ActorName,
		n.ReferenceID,
		n.CreatedAt,
	)
	return err
}

func (r *NotificationsRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notifications.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC`
	args := []any{recipientID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]notifications.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notifications.Notification{
			ID:          row.ID,
			RecipientID: row.RecipientID,
			Type:        notify.Type(row.Type),
			Title:       row.Title,
			Message:     row.Message,
			IsRead:      row.IsRead,
			ActorName:   row.ActorName,
			ReferenceID: row.ReferenceID,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

func (r *NotificationsRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	return n, err
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	q := `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`
	args := []any{recipientID}
	if len(ids) > 0 {
		marks := make([]string, 0, len(ids))
		for _, id := range ids {
			if !validID(id) {
				continue
			}
			args = append(args, id)
			marks = append(marks, "$"+strconv.Itoa(len(args)))
		}
		if len(marks) == 0 {
			return 0, nil
		}
		q += ` AND id IN (` + strings.Join(marks, ",") + `)`
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
