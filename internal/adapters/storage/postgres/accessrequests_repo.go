package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medivault/internal/domain/accessrequests"
	"medivault/internal/platform/apperr"

	"github.com/jmoiron/sqlx"
)

type AccessRequestsRepo struct {
	db *sqlx.DB
}

func NewAccessRequestsRepo(db *sqlx.DB) *AccessRequestsRepo {
	return &AccessRequestsRepo{db: db}
}

type accessRequestRow struct {
	ID                     string       `db:"id"`
	DoctorID               string       `db:"doctor_id"`
	PatientID              string       `db:"patient_id"`
	Status                 string       `db:"status"`
	Scope                  jsonbStrings `db:"scope"`
	Reason                 string       `db:"reason"`
	PatientNote            string       `db:"patient_note"`
	RequestedDurationHours int          `db:"requested_duration_hours"`
	ProposedExpiresAt      time.Time    `db:"proposed_expires_at"`
	RequestedAt            time.Time    `db:"requested_at"`
	RespondedAt            sql.NullTime `db:"responded_at"`
	ExpiresAt              sql.NullTime `db:"expires_at"`
}

const accessRequestColumns = `
	id, doctor_id, patient_id, status, scope, reason, patient_note,
	requested_duration_hours, proposed_expires_at,
	requested_at, responded_at, expires_at`

func (r *AccessRequestsRepo) Create(ctx context.Context, req accessrequests.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_requests (`+accessRequestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		req.ID,
		req.DoctorID,
		req.PatientID,
		string(req.Status),
		scopeToJSON(req.Scope),
		req.Reason,
		req.PatientNote,
		req.RequestedDurationHours,
		req.ProposedExpiresAt,
		req.RequestedAt,
		nullTime(req.RespondedAt),
		nullTime(req.ExpiresAt),
	)
	return err
}

func (r *AccessRequestsRepo) GetByID(ctx context.Context, id string) (accessrequests.Request, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return accessrequests.Request{}, apperr.NotFound("access request %s", id)
	}

	var row accessRequestRow
	err := r.db.GetContext(ctx, &row, `SELECT `+accessRequestColumns+` FROM access_requests WHERE id = $1`, id)
	if err != nil {
		return accessrequests.Request{}, notFound(err, "access request %s", id)
	}
	return row.toDomain(), nil
}

// Transition actualiza solo si el status sigue siendo from. Con 0 filas
// afectadas se distingue "no existe" de "otro ganó la carrera".
func (r *AccessRequestsRepo) Transition(ctx context.Context, next accessrequests.Request, from accessrequests.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_requests
		SET
			status = $3,
			patient_note = $4,
			responded_at = $5,
			expires_at = $6
		WHERE id = $1 AND status = $2
	`,
		next.ID,
		string(from),
		string(next.Status),
		next.PatientNote,
		nullTime(next.RespondedAt),
		nullTime(next.ExpiresAt),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	cur, err := r.GetByID(ctx, next.ID)
	if err != nil {
		return err
	}
	return apperr.InvalidTransition("access request %s is %s, expected %s", next.ID, cur.Status, from)
}

func (r *AccessRequestsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]accessrequests.Request, error) {
	return r.list(ctx, `WHERE doctor_id = $1 ORDER BY requested_at DESC, id DESC`, doctorID)
}

func (r *AccessRequestsRepo) ListByPatient(ctx context.Context, patientID string) ([]accessrequests.Request, error) {
	return r.list(ctx, `WHERE patient_id = $1 ORDER BY requested_at DESC, id DESC`, patientID)
}

func (r *AccessRequestsRepo) LatestActive(ctx context.Context, doctorID, patientID string, now time.Time) (accessrequests.Request, error) {
	var row accessRequestRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+accessRequestColumns+`
		FROM access_requests
		WHERE doctor_id = $1
		  AND patient_id = $2
		  AND status = 'APPROVED'
		  AND (expires_at IS NULL OR expires_at > $3)
		ORDER BY requested_at DESC, id DESC
		LIMIT 1
	`, doctorID, patientID, now)
	if err != nil {
		return accessrequests.Request{}, notFound(err, "no active access for doctor %s", doctorID)
	}
	return row.toDomain(), nil
}

func (r *AccessRequestsRepo) list(ctx context.Context, where string, arg string) ([]accessrequests.Request, error) {
	arg = strings.TrimSpace(arg)
	if !validID(arg) {
		return []accessrequests.Request{}, nil
	}

	var rows []accessRequestRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+accessRequestColumns+` FROM access_requests `+where, arg); err != nil {
		return nil, err
	}
	out := make([]accessrequests.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row accessRequestRow) toDomain() accessrequests.Request {
	scope := make([]accessrequests.Category, 0, len(row.Scope))
	for _, c := range row.Scope {
		scope = append(scope, accessrequests.Category(c))
	}
	return accessrequests.Request{
		ID:                     row.ID,
		DoctorID:               row.DoctorID,
		PatientID:              row.PatientID,
		Status:                 accessrequests.Status(row.Status),
		Scope:                  scope,
		Reason:                 row.Reason,
		RequestedDurationHours: row.RequestedDurationHours,
		ProposedExpiresAt:      row.ProposedExpiresAt,
		RequestedAt:            row.RequestedAt,
		RespondedAt:            timePtr(row.RespondedAt),
		ExpiresAt:              timePtr(row.ExpiresAt),
		PatientNote:            row.PatientNote,
	}
}

func scopeToJSON(in []accessrequests.Category) jsonbStrings {
	out := make(jsonbStrings, 0, len(in))
	for _, c := range in {
		out = append(out, string(c))
	}
	return out
}
