package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medivault/internal/domain/emergency"
	"medivault/internal/platform/apperr"

	"github.com/jmoiron/sqlx"
)

type EmergencyRepo struct {
	db *sqlx.DB
}

func NewEmergencyRepo(db *sqlx.DB) *EmergencyRepo {
	return &EmergencyRepo{db: db}
}

type emergencyRow struct {
	ID            string         `db:"id"`
	DoctorID      string         `db:"doctor_id"`
	PatientID     string         `db:"patient_id"`
	ReasonCode    string         `db:"reason_code"`
	ReasonDetail  string         `db:"reason_detail"`
	AdmitToken    string         `db:"admit_token"`
	GrantedAt     time.Time      `db:"granted_at"`
	ExpiresAt     time.Time      `db:"expires_at"`
	Reviewed      bool           `db:"reviewed"`
	FlaggedMisuse bool           `db:"flagged_misuse"`
	AdminNote     string         `db:"admin_note"`
	ReviewerID    sql.NullString `db:"reviewer_id"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at"`
}

const emergencyColumns = `
	id, doctor_id, patient_id, reason_code, reason_detail, admit_token,
	granted_at, expires_at,
	reviewed, flagged_misuse, admin_note, reviewer_id, reviewed_at`

// Create trunca a microsegundos (precisión de TIMESTAMPTZ) para que el
// CHECK de ventana fija compare valores exactos.
func (r *EmergencyRepo) Create(ctx context.Context, g emergency.Grant) error {
	granted := g.GrantedAt.Truncate(time.Microsecond)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO emergency_grants (`+emergencyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		g.ID,
		g.DoctorID,
		g.PatientID,
		string(g.ReasonCode),
		g.ReasonDetail,
		g.AdmitToken,
		granted,
		granted.Add(g.ExpiresAt.Sub(g.GrantedAt)),
		g.Review.Reviewed,
		g.Review.FlaggedMisuse,
		g.Review.AdminNote,
		nullString(g.Review.ReviewerID),
		nullTime(g.Review.ReviewedAt),
	)
	return err
}

func (r *EmergencyRepo) GetByID(ctx context.Context, id string) (emergency.Grant, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return emergency.Grant{}, apperr.NotFound("emergency grant %s", id)
	}

	var row emergencyRow
	err := r.db.GetContext(ctx, &row, `SELECT `+emergencyColumns+` FROM emergency_grants WHERE id = $1`, id)
	if err != nil {
		return emergency.Grant{}, notFound(err, "emergency grant %s", id)
	}
	return row.toDomain(), nil
}

func (r *EmergencyRepo) SaveReview(ctx context.Context, id string, rev emergency.Review) error {
	if !validID(id) {
		return apperr.NotFound("emergency grant %s", id)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE emergency_grants
		SET
			reviewed = $2,
			flagged_misuse = $3,
			admin_note = $4,
			reviewer_id = $5,
			reviewed_at = $6
		WHERE id = $1
	`,
		id,
		rev.Reviewed,
		rev.FlaggedMisuse,
		rev.AdminNote,
		nullString(rev.ReviewerID),
		nullTime(rev.ReviewedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("emergency grant %s", id)
	}
	return nil
}

func (r *EmergencyRepo) ListAll(ctx context.Context) ([]emergency.Grant, error) {
	return r.list(ctx, `ORDER BY granted_at DESC, id DESC`)
}

func (r *EmergencyRepo) ListByDoctor(ctx context.Context, doctorID string) ([]emergency.Grant, error) {
	if !validID(strings.TrimSpace(doctorID)) {
		return []emergency.Grant{}, nil
	}
	return r.list(ctx, `WHERE doctor_id = $1 ORDER BY granted_at DESC, id DESC`, doctorID)
}

func (r *EmergencyRepo) ActiveFor(ctx context.Context, doctorID, patientID string, now time.Time) (emergency.Grant, error) {
	var row emergencyRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+emergencyColumns+`
		FROM emergency_grants
		WHERE doctor_id = $1
		  AND patient_id = $2
		  AND expires_at > $3
		ORDER BY granted_at DESC, id DESC
		LIMIT 1
	`, doctorID, patientID, now)
	if err != nil {
		return emergency.Grant{}, notFound(err, "no active emergency grant for doctor %s", doctorID)
	}
	return row.toDomain(), nil
}

func (r *EmergencyRepo) list(ctx context.Context, tail string, args ...any) ([]emergency.Grant, error) {
	var rows []emergencyRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+emergencyColumns+` FROM emergency_grants `+tail, args...); err != nil {
		return nil, err
	}
	out := make([]emergency.Grant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row emergencyRow) toDomain() emergency.Grant {
	return emergency.Grant{
		ID:           row.ID,
		DoctorID:     row.DoctorID,
		PatientID:    row.PatientID,
		ReasonCode:   emergency.ReasonCode(row.ReasonCode),
		ReasonDetail: row.ReasonDetail,
		AdmitToken:   row.AdmitToken,
		GrantedAt:    row.GrantedAt,
		ExpiresAt:    row.ExpiresAt,
		Review: emergency.Review{
			Reviewed:      row.Reviewed,
			FlaggedMisuse: row.FlaggedMisuse,
			AdminNote:     row.AdminNote,
			ReviewerID:    row.ReviewerID.String,
			ReviewedAt:    timePtr(row.ReviewedAt),
		},
	}
}
