package notifications

import (
	"encoding/json"
	"net/http"
	"time"

	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"
	"medivault/internal/ports/notify"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", listHandler(svc))
		nr.Get("/unread", unreadHandler(svc))
		nr.Post("/mark-read", markReadHandler(svc))
	})
}

type notificationResponse struct {
	ID          string      `json:"id"`
	Type        notify.Type `json:"notification_type"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	IsRead      bool        `json:"is_read"`
	ActorName   string      `json:"actor_name,omitempty"`
	ReferenceID string      `json:"reference_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

// listHandler godoc
// @Summary Mis notificaciones
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} notificationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /notifications [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.List(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, notificationResponse{
				ID:          n.ID,
				Type:        n.Type,
				Title:       n.Title,
				Message:     n.Message,
				IsRead:      n.IsRead,
				ActorName:   n.ActorName,
				ReferenceID: n.ReferenceID,
				CreatedAt:   n.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// unreadHandler godoc
// @Summary Cantidad de notificaciones sin leer
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} map[string]int
// @Failure 401 {string} string "unauthorized"
// @Router /notifications/unread [get]
func unreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		n, err := svc.UnreadCount(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"unread_count": n})
	}
}

// markReadHandler godoc
// @Summary Marcar notificaciones como leídas
// @Description Sin ids marca todas.
// @Tags notifications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body markReadRequest false "IDs"
// @Success 200 {object} map[string]int
// @Failure 401 {string} string "unauthorized"
// @Router /notifications/mark-read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req markReadRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		n, err := svc.MarkRead(r.Context(), actor, req.IDs)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"updated": n})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
