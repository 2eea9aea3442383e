package documents

import (
	"encoding/json"
	"net/http"
	"time"

	"medivault/internal/domain/access"
	"medivault/internal/middleware"
	"medivault/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/documents", func(dr chi.Router) {
		dr.Post("/", registerHandler(svc))
		dr.Get("/", listOwnHandler(svc))
		dr.Get("/{documentID}", getHandler(svc))
		dr.Delete("/{documentID}", deleteHandler(svc))
	})
	r.Get("/patients/{patientCode}/documents", listForPatientHandler(svc))
}

type documentResponse struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	Category     Category  `json:"document_type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	HospitalName string    `json:"hospital_name,omitempty"`
	DocumentDate string    `json:"document_date"`
	IsCritical   bool      `json:"is_critical"`
	CreatedAt    time.Time `json:"created_at"`
}

type patientDocumentsResponse struct {
	Access      access.Mode        `json:"access"`
	Categories  []string           `json:"categories,omitempty"`
	IsEmergency bool               `json:"is_emergency"`
	Documents   []documentResponse `json:"documents"`
}

// registerHandler godoc
// @Summary Registrar documento propio (paciente)
// @Description Solo metadata. is_critical=true lo hace visible durante un acceso de emergencia.
// @Tags documents
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param body body RegisterInput true "Documento"
// @Success 201 {object} documentResponse
// @Failure 400 {string} string "validation error"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /documents [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Register(r.Context(), actor, in)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDocumentResponse(d))
	}
}

// listOwnHandler godoc
// @Summary Mis documentos (paciente)
// @Tags documents
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} documentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /documents [get]
func listOwnHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, err := svc.ListOwn(r.Context(), actor)
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponses(items))
	}
}

// getHandler godoc
// @Summary Ver un documento
// @Description Paciente: solo propios. Doctor: según su acceso vigente. Admin: todos. Cada lectura queda auditada.
// @Tags documents
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param documentID path string true "Document ID"
// @Success 200 {object} documentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /documents/{documentID} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		d, err := svc.Get(r.Context(), actor, chi.URLParam(r, "documentID"))
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponse(d))
	}
}

// deleteHandler godoc
// @Summary Borrar un documento propio (paciente)
// @Description El borrado queda auditado como DOCUMENT_DELETE.
// @Tags documents
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param documentID path string true "Document ID"
// @Success 204 {string} string "no content"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /documents/{documentID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.Delete(r.Context(), actor, chi.URLParam(r, "documentID")); err != nil {
			apperr.WriteHTTP(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listForPatientHandler godoc
// @Summary Documentos de un paciente (doctor/admin)
// @Description Doctor: filtra por su acceso vigente (consentimiento o emergencia). Sin acceso devuelve lista vacía con access=none.
// @Tags documents
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: PATIENT, DOCTOR o ADMIN"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientCode path string true "Código de paciente (MV12345678)"
// @Success 200 {object} patientDocumentsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientCode}/documents [get]
func listForPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		items, decision, err := svc.ListForPatient(r.Context(), actor, chi.URLParam(r, "patientCode"))
		if err != nil {
			apperr.WriteHTTP(w, err)
			return
		}

		cats := make([]string, 0, len(decision.Categories))
		for _, c := range decision.Categories {
			cats = append(cats, string(c))
		}
		writeJSON(w, http.StatusOK, patientDocumentsResponse{
			Access:      decision.Mode,
			Categories:  cats,
			IsEmergency: decision.IsEmergency(),
			Documents:   toDocumentResponses(items),
		})
	}
}

func toDocumentResponse(d Document) documentResponse {
	return documentResponse{
		ID:           d.ID,
		PatientID:    d.PatientID,
		UploadedBy:   d.UploadedBy,
		Category:     d.Category,
		Title:        d.Title,
		Description:  d.Description,
		HospitalName: d.HospitalName,
		DocumentDate: d.DocumentDate.Format(dateLayout),
		IsCritical:   d.IsCritical,
		CreatedAt:    d.CreatedAt,
	}
}

func toDocumentResponses(items []Document) []documentResponse {
	out := make([]documentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
