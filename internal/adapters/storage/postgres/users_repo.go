package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medivault/internal/domain/users"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"

	"github.com/jmoiron/sqlx"
)

type UsersRepo struct {
	db *sqlx.DB
}

func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

type userRow struct {
	ID          string         `db:"id"`
	Email       string         `db:"email"`
	FullName    string         `db:"full_name"`
	Role        string         `db:"role"`
	PatientCode sql.NullString `db:"patient_code"`
	Active      bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
}

const userColumns = `id, email, full_name, role, patient_code, is_active, created_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		u.ID,
		u.Email,
		u.FullName,
		string(u.Role),
		nullString(u.PatientCode),
		u.Active,
		u.CreatedAt,
	)
	switch {
	case isUniqueViolation(err, "users_email_key"):
		return apperr.Validation("email already registered")
	case isUniqueViolation(err, "users_patient_code_key"):
		return apperr.Validation("patient code already taken")
	case isUniqueViolation(err, ""):
		return apperr.Validation("user already exists")
	}
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return users.User{}, apperr.NotFound("user %s", id)
	}
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return users.User{}, notFound(err, "user %s", id)
	}
	return row.toDomain(), nil
}

func (r *UsersRepo) GetByPatientCode(ctx context.Context, code string) (users.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE patient_code = $1`, code); err != nil {
		return users.User{}, notFound(err, "patient %s", code)
	}
	return row.toDomain(), nil
}

func (r *UsersRepo) ListActiveByRole(ctx context.Context, role identity.Role) ([]users.User, error) {
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND is_active
		ORDER BY id
	`, string(role))
	if err != nil {
		return nil, err
	}
	out := make([]users.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row userRow) toDomain() users.User {
	return users.User{
		ID:          row.ID,
		Email:       row.Email,
		FullName:    row.FullName,
		Role:        identity.Role(row.Role),
		PatientCode: row.PatientCode.String,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
	}
}
