package emergency

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"medivault/internal/domain/audit"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"
	"medivault/internal/ports/identity/identitytest"
	"medivault/internal/ports/notify"
	"medivault/internal/ports/notify/notifytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Grant
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Grant{}} }

func (r *testRepo) Create(_ context.Context, g Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return Grant{}, apperr.NotFound("emergency grant %s", id)
	}
	return g, nil
}

func (r *testRepo) SaveReview(_ context.Context, id string, rv Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("emergency grant %s", id)
	}
	g.Review = rv
	r.byID[id] = g
	return nil
}

func (r *testRepo) list(match func(Grant) bool) []Grant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if match(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GrantedAt.After(out[j].GrantedAt) })
	return out
}

func (r *testRepo) ListAll(context.Context) ([]Grant, error) {
	return r.list(func(Grant) bool { return true }), nil
}

func (r *testRepo) ListByDoctor(_ context.Context, doctorID string) ([]Grant, error) {
	return r.list(func(g Grant) bool { return g.DoctorID == doctorID }), nil
}

func (r *testRepo) ActiveFor(_ context.Context, doctorID, patientID string, now time.Time) (Grant, error) {
	items := r.list(func(g Grant) bool {
		return g.DoctorID == doctorID && g.PatientID == patientID && g.IsActive(now)
	})
	if len(items) == 0 {
		return Grant{}, apperr.NotFound("no active emergency grant")
	}
	return items[0], nil
}

type auditSpy struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *auditSpy) Record(_ context.Context, e audit.Entry) audit.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return audit.Event{}
}

var (
	t0     = time.Date(2025, 6, 1, 22, 15, 0, 0, time.UTC)
	doctor = identity.Actor{ID: "doc-1", Role: identity.RoleDoctor, IP: "10.1.1.1"}
	admin  = identity.Actor{ID: "adm-1", Role: identity.RoleAdmin}
)

type fixture struct {
	svc   *Service
	repo  *testRepo
	dir   *identitytest.Directory
	audit *auditSpy
	sink  *notifytest.Recorder
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := identitytest.NewDirectory(
		identitytest.Doctor("doc-1", "Ana Ruiz"),
		identitytest.Patient("pat-1", "MV00000001", "Luis Paz"),
		identitytest.Admin("adm-1", "Root One"),
		identitytest.Admin("adm-2", "Root Two"),
	)
	inactive := identitytest.Admin("adm-3", "Gone")
	inactive.Active = false
	dir.Add(inactive)

	now := t0
	f := &fixture{repo: newTestRepo(), dir: dir, audit: &auditSpy{}, sink: notifytest.NewRecorder(), clock: &now}
	f.svc = NewService(f.repo, Deps{Directory: dir, Audit: f.audit, Notifier: f.sink, Mailer: f.sink})
	f.svc.now = func() time.Time { return *f.clock }
	return f
}

func (f *fixture) trigger(t *testing.T) Grant {
	t.Helper()
	g, err := f.svc.Trigger(context.Background(), doctor, TriggerInput{
		PatientCode:  "MV00000001",
		ReasonCode:   ReasonUnconscious,
		ReasonDetail: "patient unconscious in ER",
		AdmitToken:   "ER-2231",
	})
	require.NoError(t, err)
	return g
}

func TestTrigger_OneHourWindow(t *testing.T) {
	f := newFixture(t)
	g := f.trigger(t)

	assert.Equal(t, t0, g.GrantedAt)
	assert.Equal(t, g.GrantedAt.Add(time.Hour), g.ExpiresAt)
	assert.True(t, g.IsActive(t0.Add(59*time.Minute)))
	assert.False(t, g.IsActive(t0.Add(time.Hour)))
}

func TestTrigger_AuditAndFanout(t *testing.T) {
	f := newFixture(t)
	g := f.trigger(t)

	require.Len(t, f.audit.entries, 1)
	e := f.audit.entries[0]
	assert.Equal(t, audit.ActionEmergencyAccess, e.Action)
	assert.True(t, e.IsEmergency)
	assert.Equal(t, "doc-1", e.ActorID)
	assert.Equal(t, "pat-1", e.TargetPatientID)
	assert.Equal(t, "ER-2231", e.Extra["admit_token"])
	assert.Equal(t, string(ReasonUnconscious), e.Extra["reason_code"])

	for _, id := range []string{"pat-1", "adm-1", "adm-2"} {
		msgs := f.sink.To(id)
		require.Len(t, msgs, 1, "recipient %s", id)
		assert.Equal(t, notify.TypeEmergencyAccess, msgs[0].Type)
		assert.Equal(t, g.ID, msgs[0].ReferenceID)
	}
	assert.Empty(t, f.sink.To("adm-3"), "inactive admins are skipped")
	assert.Len(t, f.sink.Messages(), 3)

	kinds := map[notify.EmailKind]int{}
	for _, em := range f.sink.Emails() {
		kinds[em.Kind]++
	}
	assert.Equal(t, 1, kinds[notify.EmailEmergencyAccess])
	assert.Equal(t, 2, kinds[notify.EmailEmergencyAccessAdmin])
}

func TestTrigger_RecipientFailureDoesNotStopFanout(t *testing.T) {
	f := newFixture(t)
	f.sink.FailFor["pat-1"] = errors.New("boom")
	f.sink.MailOK = false

	_ = f.trigger(t)

	assert.Empty(t, f.sink.To("pat-1"))
	assert.Len(t, f.sink.To("adm-1"), 1)
	assert.Len(t, f.sink.To("adm-2"), 1)
}

func TestTrigger_Validation(t *testing.T) {
	cases := map[string]TriggerInput{
		"unknown reason": {PatientCode: "MV00000001", ReasonCode: "BORED", ReasonDetail: "x", AdmitToken: "t"},
		"blank detail":   {PatientCode: "MV00000001", ReasonCode: ReasonOther, ReasonDetail: " ", AdmitToken: "t"},
		"blank token":    {PatientCode: "MV00000001", ReasonCode: ReasonOther, ReasonDetail: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Trigger(context.Background(), doctor, in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
			assert.Empty(t, f.sink.Messages())
		})
	}
}

func TestTrigger_UnknownPatientAndWrongRole(t *testing.T) {
	f := newFixture(t)
	in := TriggerInput{PatientCode: "MV99999999", ReasonCode: ReasonOther, ReasonDetail: "x", AdmitToken: "t"}

	_, err := f.svc.Trigger(context.Background(), doctor, in)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	in.PatientCode = "MV00000001"
	_, err = f.svc.Trigger(context.Background(), admin, in)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
}

func TestReview_LastWriteWins(t *testing.T) {
	f := newFixture(t)
	g := f.trigger(t)

	_, err := f.svc.Review(context.Background(), admin, g.ID, ReviewInput{FlagMisuse: true, AdminNote: "suspicious"})
	require.NoError(t, err)

	// Vencido: igual se puede revisar.
	*f.clock = t0.Add(3 * time.Hour)
	second, err := f.svc.Review(context.Background(), admin, g.ID, ReviewInput{FlagMisuse: false, AdminNote: "cleared"})
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Review, stored.Review)
	assert.True(t, stored.Review.Reviewed)
	assert.False(t, stored.Review.FlaggedMisuse)
	assert.Equal(t, "cleared", stored.Review.AdminNote)
	assert.Equal(t, "adm-1", stored.Review.ReviewerID)
	require.NotNil(t, stored.Review.ReviewedAt)
	assert.Equal(t, t0.Add(3*time.Hour), *stored.Review.ReviewedAt)
}

func TestReview_Errors(t *testing.T) {
	f := newFixture(t)
	g := f.trigger(t)

	_, err := f.svc.Review(context.Background(), admin, "missing", ReviewInput{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.svc.Review(context.Background(), doctor, g.ID, ReviewInput{})
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
}

func TestActiveFor_MostRecentUnexpired(t *testing.T) {
	f := newFixture(t)
	first := f.trigger(t)
	*f.clock = t0.Add(30 * time.Minute)
	second := f.trigger(t)

	got, err := f.svc.ActiveFor(context.Background(), "doc-1", "pat-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.NotEqual(t, first.ID, got.ID)

	*f.clock = t0.Add(90 * time.Minute)
	_, err = f.svc.ActiveFor(context.Background(), "doc-1", "pat-1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestList_RoleGates(t *testing.T) {
	f := newFixture(t)
	_ = f.trigger(t)

	all, err := f.svc.ListAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := f.svc.ListForDoctor(context.Background(), doctor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.ListAll(context.Background(), doctor)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
	_, err = f.svc.ListForDoctor(context.Background(), admin)
	assert.True(t, errors.Is(err, apperr.ErrPermissionDenied))
}
