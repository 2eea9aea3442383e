package accessrequests

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/access/requests", func(ar chi.Router) {
		ar.Post("/", createRequestHandler(svc))
		ar.Get("/mine", listMineHandler(svc))
		ar.Get("/incoming", listIncomingHandler(svc))
		ar.Post("/{requestID}/respond", respondHandler(svc))
	})
}

type createRequestBody struct {
	PatientCode   string     `json:"patient_code"`
	Scope         []Category `json:"scope"`
	Reason        string     `json:"reason"`
	DurationHours int        `json:"duration_hours"`
}

type respondBody struct {
	Action        Action `json:"action"`
	PatientNote   string `json:"patient_note"`
	DurationHours int    `json:"duration_hours"`
}

type requestResponse struct {
	ID                     string     `json:"id"`
	DoctorID               string     `json:"doctor_id"`
	PatientID              string     `json:"patient_id"`
	Status                 Status     `json:"status"`
	Scope                  []Category `json:"scope"`
	Reason                 string     `json:"reason"`
	RequestedDurationHours int        `json:"requested_duration_hours"`
	ProposedExpiresAt      time.Time  `json:"proposed_expires_at"`
	RequestedAt            time.Time  `json:"requested_at"`
	RespondedAt            *time.Time `json:"responded_at,omitempty"`
	ExpiresAt              *time.Time `json:"expires_at,omitempty"`
	PatientNote            string     `json:"patient_note,omitempty"`
	IsActive               bool       `json:"is_active"`
}

// createRequestHandler godoc
// @Summary Solicitar acceso a registros de un paciente
// @Description Solo doctores. Crea una solicitud PENDING; el paciente la aprueba o rechaza.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body createRequestBody true "Solicitud"
// @Success 201 {object} requestResponse
// @Failure 400 {string} string "validation error"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /access/requests [post]
func createRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body createRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		req, err := svc.Create(r.Context(), actor, CreateInput{
			PatientCode:   body.PatientCode,
			Scope:         body.Scope,
			Reason:        body.Reason,
			DurationHours: body.DurationHours,
		})
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRequestResponse(req, svc.Now()))
	}
}

// listMineHandler godoc
// @Summary Listar mis solicitudes (doctor)
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} requestResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /access/requests/mine [get]
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
		writeJSON(w, http.StatusOK, toRequestResponses(items, svc.Now()))
	}
}

// listIncomingHandler godoc
// @Summary Listar solicitudes recibidas (paciente)
// @Description Filtro opcional por status (CSV): PENDING, APPROVED, REJECTED, REVOKED, EXPIRED.
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "status=PENDING,APPROVED"
// @Success 200 {array} requestResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /access/requests/incoming [get]
func listIncomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListForPatient(r.Context(), actor, parseStatusFilter(r.URL.Query().Get("status"))...)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items, svc.Now()))
	}
}

// respondHandler godoc
// @Summary Responder una solicitud (paciente)
// @Description action: approve (duration_hours 1..720, default 24), reject, revoke.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param requestID path string true "Request ID"
// @Param body body respondBody true "Respuesta"
// @Success 200 {object} requestResponse
// @Failure 400 {string} string "validation error"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "invalid transition"
// @Router /access/requests/{requestID}/respond [post]
func respondHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body respondBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		req, err := svc.Respond(r.Context(), actor, chi.URLParam(r, "requestID"), RespondInput{
			Action:        body.Action,
			Note:          body.PatientNote,
			DurationHours: body.DurationHours,
		})
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(req, svc.Now()))
	}
}

func toRequestResponse(req Request, now time.Time) requestResponse {
	return requestResponse{
		ID:                     req.ID,
		DoctorID:               req.DoctorID,
		PatientID:              req.PatientID,
		Status:                 req.EffectiveStatus(now),
		Scope:                  req.Scope,
		Reason:                 req.Reason,
		RequestedDurationHours: req.RequestedDurationHours,
		ProposedExpiresAt:      req.ProposedExpiresAt,
		RequestedAt:            req.RequestedAt,
		RespondedAt:            req.RespondedAt,
		ExpiresAt:              req.ExpiresAt,
		PatientNote:            req.PatientNote,
		IsActive:               req.IsActive(now),
	}
}

func toRequestResponses(items []Request, now time.Time) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for _, req := range items {
		out = append(out, toRequestResponse(req, now))
	}
	return out
}

func parseStatusFilter(raw string) []Status {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make([]Status, 0)
	for _, p := range strings.Split(raw, ",") {
		s := Status(strings.ToUpper(strings.TrimSpace(p)))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// writeJSON está duplicado en cada paquete de dominio a propósito.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
