package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/ports/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	events []Event
	fail   error
	last   Filter
}

func (r *testRepo) Append(_ context.Context, e Event) error {
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, e)
	return nil
}

func (r *testRepo) List(_ context.Context, f Filter) ([]Event, error) {
	r.last = f
	out := make([]Event, 0)
	for _, e := range r.events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestFilterFor(t *testing.T) {
	cases := []struct {
		name    string
		actor   identity.Actor
		want    Filter
		wantErr bool
	}{
		{"patient sees own target", identity.Actor{ID: "p", Role: identity.RolePatient}, Filter{TargetPatientID: "p"}, false},
		{"doctor sees own actions", identity.Actor{ID: "d", Role: identity.RoleDoctor}, Filter{ActorID: "d"}, false},
		{"admin sees all", identity.Actor{ID: "a", Role: identity.RoleAdmin}, Filter{}, false},
		{"anonymous", identity.Actor{Role: identity.RoleAdmin}, Filter{}, true},
		{"unknown role", identity.Actor{ID: "x", Role: "NURSE"}, Filter{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FilterFor(tc.actor)
			if tc.wantErr {
				assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecord_NormalizesAndPersists(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	e := svc.Record(context.Background(), Entry{
		ActorID: "doc-1", TargetPatientID: "pat-1", Action: ActionEmergencyAccess,
		IsEmergency: true, IP: " 10.1.1.1 ",
	})

	require.Len(t, repo.events, 1)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, at, e.CreatedAt)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, "doc-1", *e.ActorID)
	assert.Nil(t, e.DocumentID)
	assert.Equal(t, "10.1.1.1", e.IP)
	assert.NotNil(t, e.Extra)
}

func TestRecord_AppendFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf})
	svc := NewService(&testRepo{fail: errors.New("disk full")}, log)

	e := svc.Record(context.Background(), Entry{ActorID: "doc-1", Action: ActionDocumentView})

	assert.Equal(t, ActionDocumentView, e.Action)
	assert.Contains(t, buf.String(), "audit append failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestListVisible_ScopedByRole(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	svc.Record(ctx, Entry{ActorID: "doc-1", TargetPatientID: "pat-1", Action: ActionDocumentView})
	svc.Record(ctx, Entry{ActorID: "doc-2", TargetPatientID: "pat-1", Action: ActionDocumentView})
	svc.Record(ctx, Entry{ActorID: "doc-1", TargetPatientID: "pat-2", Action: ActionAccessRequest})
	// Evento sin actor (p.ej. usuario ya borrado).
	svc.Record(ctx, Entry{TargetPatientID: "pat-2", Action: ActionLogin})

	got, err := svc.ListVisible(ctx, identity.Actor{ID: "pat-1", Role: identity.RolePatient})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, defaultListLimit, repo.last.Limit)

	got, err = svc.ListVisible(ctx, identity.Actor{ID: "doc-1", Role: identity.RoleDoctor})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListVisible(ctx, identity.Actor{ID: "adm", Role: identity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = svc.ListVisible(ctx, identity.Actor{ID: "x"})
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
}
