package audit

import (
	"encoding/json"
	"net/http"
	"time"

	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/audit", listAuditHandler(svc))
}

// eventResponse representa un evento del ledger de auditoría.
type eventResponse struct {
	ID              string         `json:"id"`
	ActorID         *string        `json:"actor_id"`
	TargetPatientID *string        `json:"target_patient_id"`
	Action          Action         `json:"action"`
	DocumentID      *string        `json:"document_id,omitempty"`
	DocumentTitle   string         `json:"document_title,omitempty"`
	IsEmergency     bool           `json:"is_emergency"`
	IPAddress       string         `json:"ip_address,omitempty"`
	ExtraData       map[string]any `json:"extra_data"`
	CreatedAt       time.Time      `json:"created_at"`
}

// listAuditHandler godoc
// @Summary Listar eventos de auditoría
// @Description Paciente: eventos sobre sus registros. Doctor: eventos que él ejecutó. Admin: todos. Autenticación: `X-Debug-User-ID` + `X-Debug-Role` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags audit
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} eventResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /audit [get]
func listAuditHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListVisible(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, eventResponse{
				ID:              e.ID,
				ActorID:         e.ActorID,
				TargetPatientID: e.TargetPatientID,
				Action:          e.Action,
				DocumentID:      e.DocumentID,
				DocumentTitle:   e.DocumentTitle,
				IsEmergency:     e.IsEmergency,
				IPAddress:       e.IP,
				ExtraData:       e.Extra,
				CreatedAt:       e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
