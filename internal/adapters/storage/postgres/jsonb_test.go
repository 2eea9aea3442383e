package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"medivault/internal/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBStrings_RoundTrip(t *testing.T) {
	v, err := jsonbStrings{"SCAN", "REPORT"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["SCAN","REPORT"]`, v)

	empty, err := jsonbStrings(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, `[]`, empty)

	var got jsonbStrings
	require.NoError(t, got.Scan([]byte(`["ALL"]`)))
	assert.Equal(t, jsonbStrings{"ALL"}, got)

	require.NoError(t, got.Scan(nil))
	assert.Empty(t, got)

	assert.Error(t, got.Scan(42))
}

func TestJSONBObject_Scan(t *testing.T) {
	var got jsonbObject
	require.NoError(t, got.Scan(`{"grant_id":"g-1","n":2}`))
	assert.Equal(t, "g-1", got["grant_id"])
	assert.Equal(t, float64(2), got["n"])

	v, err := jsonbObject(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	assert.True(t, isUniqueViolation(err, "users_email_key"))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "users_patient_code_key"))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
	assert.False(t, isUniqueViolation(nil, ""))
}

func TestNotFound_MapsNoRows(t *testing.T) {
	err := notFound(sql.ErrNoRows, "user %s", "u1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	other := errors.New("conn reset")
	assert.Equal(t, other, notFound(other, "user %s", "u1"))

	badUUID := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	assert.True(t, errors.Is(notFound(badUUID, "access request %s", "abc"), apperr.ErrNotFound))

	unique := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(unique), notFound(unique, "user %s", "u1"))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0b5c3f7e-2f7e-4a43-9d49-3c1d0f0a6b11"))
	assert.False(t, validID("abc"))
	assert.False(t, validID(""))
}
