package users

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"
)

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]User{}} }

func (r *testRepo) Create(_ context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return apperr.Validation("email already registered")
		}
		if u.PatientCode != "" && existing.PatientCode == u.PatientCode {
			return apperr.Validation("patient code already taken")
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.NotFound("user %s", id)
	}
	return u, nil
}

func (r *testRepo) GetByPatientCode(_ context.Context, code string) (User, error) {
	for _, u := range r.byID {
		if u.PatientCode == code {
			return u, nil
		}
	}
	return User{}, apperr.NotFound("patient %s", code)
}

func (r *testRepo) ListActiveByRole(_ context.Context, role identity.Role) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var admin = identity.Actor{ID: "adm-1", Role: identity.RoleAdmin}

func TestCreate_PatientGetsCode(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	u, err := svc.Create(context.Background(), admin, CreateInput{
		Email: " Luis@Example.com ", FullName: "Luis Paz", Role: "patient",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.Role != identity.RolePatient {
		t.Fatalf("expected PATIENT, got %s", u.Role)
	}
	if len(u.PatientCode) != 10 || !strings.HasPrefix(u.PatientCode, "MV") {
		t.Fatalf("expected MV + 8 digits, got %q", u.PatientCode)
	}
	if u.Email != "luis@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}

	found, err := svc.FindPatientByCode(context.Background(), strings.ToLower(u.PatientCode))
	if err != nil {
		t.Fatalf("FindPatientByCode: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("expected %s, got %s", u.ID, found.ID)
	}
}

func TestCreate_DoctorHasNoCode(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	u, err := svc.Create(context.Background(), admin, CreateInput{Email: "a@b.com", FullName: "Ana", Role: "DOCTOR"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.PatientCode != "" {
		t.Fatalf("doctor must not get a patient code, got %q", u.PatientCode)
	}
}

func TestCreate_RetriesTakenCodes(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	codes := []string{"MV00000001", "MV00000001", "MV00000002"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	first, err := svc.Create(context.Background(), admin, CreateInput{Email: "p1@x.com", FullName: "P1", Role: "PATIENT"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Create(context.Background(), admin, CreateInput{Email: "p2@x.com", FullName: "P2", Role: "PATIENT"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.PatientCode != "MV00000001" || second.PatientCode != "MV00000002" {
		t.Fatalf("unexpected codes %s / %s", first.PatientCode, second.PatientCode)
	}
}

func TestCreate_Rules(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, identity.Actor{ID: "d", Role: identity.RoleDoctor}, CreateInput{Email: "a@b.com", FullName: "x", Role: "ADMIN"})
	if !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	_, err = svc.Create(ctx, admin, CreateInput{Email: "not-an-email", FullName: "x", Role: "ADMIN"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(ctx, admin, CreateInput{Email: "a@b.com", FullName: "x", Role: "NURSE"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for role, got %v", err)
	}

	if _, err := svc.Create(ctx, admin, CreateInput{Email: "a@b.com", FullName: "x", Role: "ADMIN"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Create(ctx, admin, CreateInput{Email: "A@B.com", FullName: "y", Role: "ADMIN"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected duplicate email to be a validation error, got %v", err)
	}
}

func TestListActiveAdmins_SkipsInactive(t *testing.T) {
	repo := newTestRepo()
	repo.byID["a1"] = User{ID: "a1", Role: identity.RoleAdmin, Active: true}
	repo.byID["a2"] = User{ID: "a2", Role: identity.RoleAdmin, Active: false}
	repo.byID["d1"] = User{ID: "d1", Role: identity.RoleDoctor, Active: true}
	svc := NewService(repo, nil)

	admins, err := svc.ListActiveAdmins(context.Background())
	if err != nil {
		t.Fatalf("ListActiveAdmins: %v", err)
	}
	if len(admins) != 1 || admins[0].ID != "a1" {
		t.Fatalf("expected only a1, got %#v", admins)
	}
}

func TestFindPatientByCode_Unknown(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	_, err := svc.FindPatientByCode(context.Background(), "MV12345678")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
