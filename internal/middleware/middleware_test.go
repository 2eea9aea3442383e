package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medivault/internal/platform/logger"
	"medivault/internal/ports/auth"
	"medivault/internal/ports/identity"
)

type staticVerifier struct {
	claims auth.Claims
	err    error
}

func (v staticVerifier) Verify(context.Context, string) (auth.Claims, error) {
	return v.claims, v.err
}

func actorProbe(t *testing.T, got *identity.Actor, ok *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = ActorFrom(r)
	})
}

func TestAuthContext_DevHeaders(t *testing.T) {
	var (
		got identity.Actor
		ok  bool
	)
	h := AuthContext(nil)(actorProbe(t, &got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	req.Header.Set("X-Debug-User-ID", "doc-1")
	req.Header.Set("X-Debug-Role", "doctor")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, identity.Actor{ID: "doc-1", Role: identity.RoleDoctor, IP: "192.0.2.7"}, got)
}

func TestAuthContext_UnknownRoleIsAnonymous(t *testing.T) {
	var (
		got identity.Actor
		ok  bool
	)
	h := AuthContext(nil)(actorProbe(t, &got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "x")
	req.Header.Set("X-Debug-Role", "NURSE")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, ok)
}

func TestAuthContext_Bearer(t *testing.T) {
	var (
		got identity.Actor
		ok  bool
	)
	v := staticVerifier{claims: auth.Claims{UserID: "adm-1", Role: "ADMIN"}}
	h := AuthContext(v)(actorProbe(t, &got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	// En modo verifier los headers de debug se ignoran.
	req.Header.Set("X-Debug-User-ID", "intruder")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, "adm-1", got.ID)
	assert.Equal(t, identity.RoleAdmin, got.Role)
}

func TestAuthContext_BadTokenLeavesRequestAnonymous(t *testing.T) {
	var (
		got identity.Actor
		ok  bool
	)
	h := AuthContext(staticVerifier{err: errors.New("bad")})(actorProbe(t, &got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, ok)
}

func TestRecover_LogsAndReturns500(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := chimw.RequestID(RequestLogger(log)(Recover(boom)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "request_id")
}
