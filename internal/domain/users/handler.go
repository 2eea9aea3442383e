package users

import (
	"encoding/json"
	"net/http"
	"time"

	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/identity"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me", meHandler(svc))
	r.Post("/users", createUserHandler(svc))
}

type userResponse struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	FullName    string        `json:"full_name"`
	Role        identity.Role `json:"role"`
	PatientCode string        `json:"patient_id,omitempty"`
	Active      bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
}

// meHandler godoc
// @Summary Usuario autenticado
// @Tags users
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		u, err := svc.Me(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// createUserHandler godoc
// @Summary Alta de usuario (admin)
// @Description Los pacientes reciben un código MV + 8 dígitos.
// @Tags users
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body CreateInput true "Usuario"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "validation error"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /users [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Create(r.Context(), actor, in)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		PatientCode: u.PatientCode,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
