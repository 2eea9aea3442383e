package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"medivault/internal/domain/audit"

	"github.com/jmoiron/sqlx"
)

// AuditRepo solo inserta y lee; la tabla además rechaza UPDATE/DELETE con
// un trigger.
type AuditRepo struct {
	db *sqlx.DB
}

func NewAuditRepo(db *sqlx.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

type auditRow struct {
	ID              string         `db:"id"`
	ActorID         sql.NullString `db:"actor_id"`
	TargetPatientID sql.NullString `db:"target_patient_id"`
	Action          string         `db:"action"`
	DocumentID      sql.NullString `db:"document_id"`
	DocumentTitle   string         `db:"document_title"`
	IsEmergency     bool           `db:"is_emergency"`
	IP              string         `db:"ip_address"`
	Extra           jsonbObject    `db:"extra"`
	CreatedAt       time.Time      `db:"created_at"`
}

const auditColumns = `
	id, actor_id, target_patient_id, action, document_id, document_title,
	is_emergency, ip_address, extra, created_at`

func (r *AuditRepo) Append(ctx context.Context, e audit.Event) error {
	if e.ID == "" {
		return errors.New("audit event id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (`+auditColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID,
		nullStringPtr(e.ActorID),
		nullStringPtr(e.TargetPatientID),
		string(e.Action),
		nullStringPtr(e.DocumentID),
		e.DocumentTitle,
		e.IsEmergency,
		e.IP,
		jsonbObject(e.Extra),
		e.CreatedAt,
	)
	return err
}

func (r *AuditRepo) List(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	var (
		where []string
		args  []any
	)
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		where = append(where, "actor_id = $"+strconv.Itoa(len(args)))
	}
	if filter.TargetPatientID != "" {
		args = append(args, filter.TargetPatientID)
		where = append(where, "target_patient_id = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + auditColumns + ` FROM audit_events`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]audit.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, audit.Event{
			ID:              row.ID,
			ActorID:         stringPtr(row.ActorID),
			TargetPatientID: stringPtr(row.TargetPatientID),
			Action:          audit.Action(row.Action),
			DocumentID:      stringPtr(row.DocumentID),
			DocumentTitle:   row.DocumentTitle,
			IsEmergency:     row.IsEmergency,
			IP:              row.IP,
			Extra:           map[string]any(row.Extra),
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(*s)
}
