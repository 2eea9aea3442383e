package documents

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"medivault/internal/domain/access"
	"medivault/internal/domain/accessrequests"
	"medivault/internal/domain/audit"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"
	"medivault/internal/ports/identity/identitytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Document
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Document{}} }

func (r *testRepo) Create(_ context.Context, d Document) error {
	r.byID[d.ID] = d
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Document, error) {
	d, ok := r.byID[id]
	if !ok {
		return Document{}, apperr.NotFound("document %s", id)
	}
	return d, nil
}

func (r *testRepo) ListByPatient(_ context.Context, patientID string) ([]Document, error) {
	out := make([]Document, 0)
	for _, d := range r.byID {
		if d.PatientID == patientID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentDate.After(out[j].DocumentDate) })
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("document %s", id)
	}
	delete(r.byID, id)
	return nil
}

type fixedEvaluator struct {
	decision access.Decision
	err      error
	calls    int
}

func (e *fixedEvaluator) AuthorizedDocuments(context.Context, string, string) (access.Decision, error) {
	e.calls++
	return e.decision, e.err
}

type auditSpy struct{ entries []audit.Entry }

func (a *auditSpy) Record(_ context.Context, e audit.Entry) audit.Event {
	a.entries = append(a.entries, e)
	return audit.Event{Action: e.Action}
}

var (
	patient = identity.Actor{ID: "pat-1", Role: identity.RolePatient, IP: "10.0.0.1"}
	doctor  = identity.Actor{ID: "doc-1", Role: identity.RoleDoctor, IP: "10.0.0.2"}
	admin   = identity.Actor{ID: "adm-1", Role: identity.RoleAdmin}
)

type fixture struct {
	svc   *Service
	repo  *testRepo
	eval  *fixedEvaluator
	audit *auditSpy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: newTestRepo(), eval: &fixedEvaluator{}, audit: &auditSpy{}}
	dir := identitytest.NewDirectory(
		identitytest.Patient("pat-1", "MV00000001", "Luis Paz"),
		identitytest.Doctor("doc-1", "Ana Gómez"),
	)
	f.svc = NewService(f.repo, dir, f.eval, f.audit, nil)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	docs := []RegisterInput{
		{Category: CategoryPrescription, Title: "Receta", DocumentDate: "2025-01-10"},
		{Category: CategoryScan, Title: "TAC", DocumentDate: "2025-02-01", IsCritical: true},
		{Category: CategoryOther, Title: "Nota", DocumentDate: "2024-12-01"},
	}
	for _, in := range docs {
		_, err := f.svc.Register(context.Background(), patient, in)
		require.NoError(t, err)
	}
	f.audit.entries = nil
}

func titles(items []Document) []string {
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, d.Title)
	}
	return out
}

func TestRegister_PatientOnlyAndAudited(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Register(context.Background(), patient, RegisterInput{
		Category: "report", Title: "  Análisis  ", DocumentDate: "2025-02-14",
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryReport, d.Category)
	assert.Equal(t, "Análisis", d.Title)
	assert.Equal(t, "pat-1", d.PatientID)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, audit.ActionDocumentUpload, f.audit.entries[0].Action)
	assert.Equal(t, d.ID, f.audit.entries[0].DocumentID)

	_, err = f.svc.Register(context.Background(), doctor, RegisterInput{Category: CategoryReport, Title: "x", DocumentDate: "2025-02-14"})
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]RegisterInput{
		"missing title": {Category: CategoryReport, DocumentDate: "2025-01-01"},
		"bad category":  {Category: "XRAY", Title: "x", DocumentDate: "2025-01-01"},
		"bad date":      {Category: CategoryReport, Title: "x", DocumentDate: "01/01/2025"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), patient, in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestListForPatient_ConsentCategories(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.eval.decision = access.Decision{
		Mode:       access.ModeCategories,
		Categories: []accessrequests.Category{accessrequests.CategoryPrescription},
		Source:     access.SourceConsent,
		GrantID:    "req-1",
	}

	items, decision, err := f.svc.ListForPatient(context.Background(), doctor, "mv00000001")
	require.NoError(t, err)
	assert.Equal(t, access.ModeCategories, decision.Mode)
	assert.Equal(t, []string{"Receta"}, titles(items))
}

func TestListForPatient_EmergencyCriticalOnly(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.eval.decision = access.Decision{Mode: access.ModeCriticalOnly, Source: access.SourceEmergency, GrantID: "g-1"}

	items, _, err := f.svc.ListForPatient(context.Background(), doctor, "MV00000001")
	require.NoError(t, err)
	require.Equal(t, []string{"TAC"}, titles(items))

	_, err = f.svc.Get(context.Background(), doctor, items[0].ID)
	require.NoError(t, err)
	require.Len(t, f.audit.entries, 1)
	e := f.audit.entries[0]
	assert.Equal(t, audit.ActionDocumentView, e.Action)
	assert.True(t, e.IsEmergency)
	assert.Equal(t, "emergency", e.Extra["access_source"])
	assert.Equal(t, "g-1", e.Extra["grant_id"])
	assert.Equal(t, "10.0.0.2", e.IP)
}

func TestListForPatient_NoAccessIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.eval.decision = access.Decision{Mode: access.ModeNone}

	items, decision, err := f.svc.ListForPatient(context.Background(), doctor, "MV00000001")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, decision.Allowed())
}

func TestListForPatient_AdminSeesAllWithoutEvaluator(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	items, decision, err := f.svc.ListForPatient(context.Background(), admin, "MV00000001")
	require.NoError(t, err)
	assert.Equal(t, access.ModeAll, decision.Mode)
	assert.Len(t, items, 3)
	assert.Equal(t, 0, f.eval.calls)
}

func TestListForPatient_Rules(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ListForPatient(context.Background(), patient, "MV00000001")
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))

	_, _, err = f.svc.ListForPatient(context.Background(), doctor, "MV99999999")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	f.eval.err = errors.New("db down")
	_, _, err = f.svc.ListForPatient(context.Background(), doctor, "MV00000001")
	assert.Error(t, err)
}

func TestGet_Scopes(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	own, err := f.svc.ListOwn(context.Background(), patient)
	require.NoError(t, err)
	require.Len(t, own, 3)
	assert.Equal(t, "TAC", own[0].Title)

	var other Document
	for _, d := range own {
		if d.Category == CategoryOther {
			other = d
		}
	}

	f.eval.decision = access.Decision{
		Mode:       access.ModeCategories,
		Categories: []accessrequests.Category{accessrequests.CategoryScan},
		Source:     access.SourceConsent,
	}
	_, err = f.svc.Get(context.Background(), doctor, other.ID)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))

	stranger := identity.Actor{ID: "pat-2", Role: identity.RolePatient}
	_, err = f.svc.Get(context.Background(), stranger, other.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := f.svc.Get(context.Background(), patient, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)
	require.Len(t, f.audit.entries, 1)
	assert.False(t, f.audit.entries[0].IsEmergency)
	assert.Empty(t, f.audit.entries[0].Extra)
}

func TestDelete_OwnDocumentIsAudited(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	own, err := f.svc.ListOwn(context.Background(), patient)
	require.NoError(t, err)
	target := own[0]

	require.NoError(t, f.svc.Delete(context.Background(), patient, target.ID))

	_, err = f.svc.Get(context.Background(), patient, target.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.Len(t, f.audit.entries, 1)
	e := f.audit.entries[0]
	assert.Equal(t, audit.ActionDocumentDelete, e.Action)
	assert.Equal(t, target.ID, e.DocumentID)
	assert.Equal(t, target.Title, e.DocumentTitle)
	assert.Equal(t, "pat-1", e.TargetPatientID)
	assert.Equal(t, "10.0.0.1", e.IP)

	left, err := f.svc.ListOwn(context.Background(), patient)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestDelete_Rules(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	own, err := f.svc.ListOwn(context.Background(), patient)
	require.NoError(t, err)
	id := own[0].ID

	stranger := identity.Actor{ID: "pat-2", Role: identity.RolePatient}
	err = f.svc.Delete(context.Background(), stranger, id)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = f.svc.Delete(context.Background(), doctor, id)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))

	err = f.svc.Delete(context.Background(), admin, id)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))

	err = f.svc.Delete(context.Background(), patient, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.Empty(t, f.audit.entries)
	assert.Len(t, f.repo.byID, 3)
}
