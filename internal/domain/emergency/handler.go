package emergency

import (
	"encoding/json"
	"net/http"
	"time"

	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/access/emergency", func(er chi.Router) {
		er.Post("/", triggerHandler(svc))
		er.Get("/", listAllHandler(svc))
		er.Get("/mine", listMineHandler(svc))
		er.Post("/{grantID}/review", reviewHandler(svc))
	})
}

type grantResponse struct {
	ID            string     `json:"id"`
	DoctorID      string     `json:"doctor_id"`
	PatientID     string     `json:"patient_id"`
	ReasonCode    ReasonCode `json:"reason_code"`
	ReasonDetail  string     `json:"reason_detail"`
	AdmitToken    string     `json:"patient_admit_id"`
	GrantedAt     time.Time  `json:"granted_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	IsActive      bool       `json:"is_active"`
	Reviewed      bool       `json:"is_reviewed_by_admin"`
	FlaggedMisuse bool       `json:"is_flagged_misuse"`
	AdminNote     string     `json:"admin_note,omitempty"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// triggerHandler godoc
// @Summary Acceso de emergencia (break-glass)
// @Description Solo doctores. Habilita 1 hora de acceso a documentos críticos; se audita y se notifica al paciente y a todos los admins.
// @Tags emergency
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body TriggerInput true "Motivo"
// @Success 201 {object} grantResponse
// @Failure 400 {string} string "validation error"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /access/emergency [post]
func triggerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in TriggerInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Trigger(r.Context(), actor, in)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGrantResponse(g, svc.Now()))
	}
}

// listAllHandler godoc
// @Summary Listar accesos de emergencia (admin)
// @Tags emergency
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /access/emergency [get]
func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.ListAll(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items, svc.Now()))
	}
}

// listMineHandler godoc
// @Summary Listar mis accesos de emergencia (doctor)
// @Tags emergency
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /access/emergency/mine [get]
func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.ListForDoctor(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items, svc.Now()))
	}
}

// reviewHandler godoc
// @Summary Revisar un acceso de emergencia (admin)
// @Description Idempotente: cada revisión reemplaza la anterior.
// @Tags emergency
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param grantID path string true "Grant ID"
// @Param body body ReviewInput true "Revisión"
// @Success 200 {object} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /access/emergency/{grantID}/review [post]
func reviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in ReviewInput
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		g, err := svc.Review(r.Context(), actor, chi.URLParam(r, "grantID"), in)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.Now()))
	}
}

func toGrantResponse(g Grant, now time.Time) grantResponse {
	return grantResponse{
		ID:            g.ID,
		DoctorID:      g.DoctorID,
		PatientID:     g.PatientID,
		ReasonCode:    g.ReasonCode,
		ReasonDetail:  g.ReasonDetail,
		AdmitToken:    g.AdmitToken,
		GrantedAt:     g.GrantedAt,
		ExpiresAt:     g.ExpiresAt,
		IsActive:      g.IsActive(now),
		Reviewed:      g.Review.Reviewed,
		FlaggedMisuse: g.Review.FlaggedMisuse,
		AdminNote:     g.Review.AdminNote,
		ReviewedBy:    g.Review.ReviewerID,
		ReviewedAt:    g.Review.ReviewedAt,
	}
}

func toGrantResponses(items []Grant, now time.Time) []grantResponse {
	out := make([]grantResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGrantResponse(g, now))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
