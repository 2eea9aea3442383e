package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medivault/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/patients/by-code/MV00000001", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k1", r.Header.Get("X-Api-Key"))
		_ = json.NewEncoder(w).Encode(identityDTO{ID: "pat-1", Role: "PATIENT", FullName: "Luis", PatientCode: "mv00000001", Active: true})
	})
	mux.HandleFunc("/v1/patients/by-code/MV00000002", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(identityDTO{ID: "pat-2", Role: "PATIENT", Active: false})
	})
	mux.HandleFunc("/v1/users/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	})
	mux.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ADMIN", r.URL.Query().Get("role"))
		_ = json.NewEncoder(w).Encode([]identityDTO{
			{ID: "adm-1", Role: "ADMIN", Email: "a1@x", Active: true},
			{ID: "adm-2", Role: "ADMIN", Active: false},
			{ID: "", Role: "ADMIN", Active: true},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FindPatientByCode(t *testing.T) {
	srv := newServer(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k1"})
	require.NoError(t, err)

	id, err := c.FindPatientByCode(context.Background(), " mv00000001 ")
	require.NoError(t, err)
	assert.Equal(t, "pat-1", id.ID)
	assert.Equal(t, "MV00000001", id.PatientCode)

	_, err = c.FindPatientByCode(context.Background(), "MV00000002")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "inactive patient: %v", err)

	_, err = c.FindPatientByCode(context.Background(), "MV99999999")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestClient_GetByID_UpstreamError(t *testing.T) {
	srv := newServer(t)
	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), "boom")
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
}

func TestClient_ListActiveAdmins(t *testing.T) {
	srv := newServer(t)
	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	admins, err := c.ListActiveAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "adm-1", admins[0].ID)
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, c.IsConfigured())

	_, err = c.GetByID(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
