package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medivault/internal/domain/documents"
	"medivault/internal/platform/apperr"

	"github.com/jmoiron/sqlx"
)

type DocumentsRepo struct {
	db *sqlx.DB
}

func NewDocumentsRepo(db *sqlx.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

type documentRow struct {
	ID           string         `db:"id"`
	PatientID    string         `db:"patient_id"`
	UploadedBy   sql.NullString `db:"uploaded_by"`
	Category     string         `db:"category"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	HospitalName string         `db:"hospital_name"`
	DocumentDate time.Time      `db:"document_date"`
	IsCritical   bool           `db:"is_critical"`
	CreatedAt    time.Time      `db:"created_at"`
}

const documentColumns = `
	id, patient_id, uploaded_by, category, title, description,
	hospital_name, document_date, is_critical, created_at`

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID,
		d.PatientID,
		nullString(d.UploadedBy),
		string(d.Category),
		d.Title,
		d.Description,
		d.HospitalName,
		d.DocumentDate,
		d.IsCritical,
		d.CreatedAt,
	)
	return err
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (documents.Document, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return documents.Document{}, apperr.NotFound("document %s", id)
	}
	var row documentRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id); err != nil {
		return documents.Document{}, notFound(err, "document %s", id)
	}
	return row.toDomain(), nil
}

func (r *DocumentsRepo) ListByPatient(ctx context.Context, patientID string) ([]documents.Document, error) {
	var rows []documentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE patient_id = $1
		ORDER BY document_date DESC, created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	out := make([]documents.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return apperr.NotFound("document %s", id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("document %s", id)
	}
	return nil
}

func (row documentRow) toDomain() documents.Document {
	return documents.Document{
		ID:           row.ID,
		PatientID:    row.PatientID,
		UploadedBy:   row.UploadedBy.String,
		Category:     documents.Category(row.Category),
		Title:        row.Title,
		Description:  row.Description,
		HospitalName: row.HospitalName,
		DocumentDate: row.DocumentDate,
		IsCritical:   row.IsCritical,
		CreatedAt:    row.CreatedAt,
	}
}
