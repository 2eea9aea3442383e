package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"medivault/internal/platform/apperr"
	"medivault/internal/platform/logger"
	"medivault/internal/platform/validation"
	"medivault/internal/ports/identity"

	"github.com/google/uuid"
)

const codeAttempts = 5

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time

	// newCode es reemplazable en tests.
	newCode func() (string, error)
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		log:     log.With(map[string]any{"module": "users"}),
		now:     time.Now,
		newCode: randomPatientCode,
	}
}

type CreateInput struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"notblank"`
	Role     string `json:"role" validate:"required,oneof=PATIENT DOCTOR ADMIN"`
}

// Create da de alta una identidad local. Solo admins.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (User, error) {
	if !actor.Is(identity.RoleAdmin) {
		return User{}, apperr.PermissionDenied("only admins can create users")
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := validation.Struct(in); err != nil {
		return User{}, err
	}

	u := User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      identity.Role(in.Role),
		Active:    true,
		CreatedAt: s.now(),
	}

	if u.Role == identity.RolePatient {
		code, err := s.freePatientCode(ctx)
		if err != nil {
			return User{}, err
		}
		u.PatientCode = code
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	s.log.Info("user created", map[string]any{
		"user_id":  u.ID,
		"role":     string(u.Role),
		"actor_id": actor.ID,
	})
	return u, nil
}

// Me devuelve el usuario del actor.
func (s *Service) Me(ctx context.Context, actor identity.Actor) (User, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return User{}, apperr.PermissionDenied("anonymous actor")
	}
	return s.repo.GetByID(ctx, actor.ID)
}

// Métodos de identity.Directory.

func (s *Service) FindPatientByCode(ctx context.Context, code string) (identity.Identity, error) {
	u, err := s.repo.GetByPatientCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return identity.Identity{}, err
	}
	if u.Role != identity.RolePatient {
		return identity.Identity{}, apperr.NotFound("patient %s", code)
	}
	return u.Identity(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (identity.Identity, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return identity.Identity{}, err
	}
	return u.Identity(), nil
}

func (s *Service) ListActiveAdmins(ctx context.Context) ([]identity.Identity, error) {
	items, err := s.repo.ListActiveByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	out := make([]identity.Identity, 0, len(items))
	for _, u := range items {
		out = append(out, u.Identity())
	}
	return out, nil
}

func (s *Service) freePatientCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("patient code: %w", err)
		}
		_, err = s.repo.GetByPatientCode(ctx, code)
		if errors.Is(err, apperr.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("patient code: no free code after %d attempts", codeAttempts)
}

func randomPatientCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MV%08d", n.Int64()), nil
}
