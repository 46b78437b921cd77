package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/storeerr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/pets/{petID}/records", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc, petsSvc))
		rr.Get("/", listRecordsHandler(svc, petsSvc))
		rr.Post("/{recordID}/void", voidRecordHandler(svc, petsSvc))
	})
}

// createRecordRequest es el cuerpo para registrar una entrada del historial médico.
type createRecordRequest struct {
	Type        RecordType `json:"type" enums:"medical_visit,vaccine,deworming,flea_treatment,surgery,note"`
	Title       string     `json:"title"`
	Date        string     `json:"date"` // RFC3339
	Vet         string     `json:"vet"`
	Description string     `json:"description"`

	// Solo para type=vaccine.
	VaccineName string `json:"vaccine_name"`
	NextDueDate string `json:"next_due_date"` // RFC3339 opcional
}

type recordResponse struct {
	ID          string     `json:"id"`
	PetID       string     `json:"pet_id"`
	Type        RecordType `json:"type"`
	Title       string     `json:"title"`
	Date        time.Time  `json:"date"`
	Vet         string     `json:"vet,omitempty"`
	Description string     `json:"description,omitempty"`
	VaccineName string     `json:"vaccine_name,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// createRecordHandler godoc
// @Summary Crear entrada de historial médico
// @Description Solo el dueño de la mascota. Para `vaccine` se requiere `vaccine_name`.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body createRecordRequest true "Datos de la entrada; fechas en RFC3339"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/records [post]
func createRecordHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := petsSvc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			http.Error(w, "date must be RFC3339", http.StatusBadRequest)
			return
		}
		var next *time.Time
		if strings.TrimSpace(req.NextDueDate) != "" {
			t, err := time.Parse(time.RFC3339, req.NextDueDate)
			if err != nil {
				http.Error(w, "next_due_date must be RFC3339", http.StatusBadRequest)
				return
			}
			next = &t
		}

		rec, err := svc.Create(r.Context(), petID, claims.UserID, CreateInput{
			Type:        req.Type,
			Title:       req.Title,
			Date:        date,
			Vet:         req.Vet,
			Description: req.Description,
			VaccineName: req.VaccineName,
			NextDueDate: next,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar historial médico de una mascota
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de entradas (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: vaccine,surgery)"
// @Param from query string false "Fecha mínima (RFC3339)"
// @Param to query string false "Fecha máxima (RFC3339)"
// @Param q query string false "Texto libre en título/descripción"
// @Param include_voided query bool false "Incluir entradas anuladas"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/records [get]
func listRecordsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := petsSvc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// voidRecordHandler godoc
// @Summary Anular (void) una entrada del historial
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID de la entrada"
// @Success 200 {object} recordResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "record not found"
// @Router /pets/{petID}/records/{recordID}/void [post]
func voidRecordHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Permisos primero, para no filtrar si la entrada existe.
		petID := chi.URLParam(r, "petID")
		if _, err := petsSvc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		updated, err := svc.Void(r.Context(), petID, chi.URLParam(r, "recordID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(updated))
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: DefaultLimit}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			filter.Limit = n
		}
	}

	// types=vaccine,surgery
	if v := strings.TrimSpace(q.Get("types")); v != "" {
		for _, part := range strings.Split(v, ",") {
			t, ok := ParseRecordType(strings.TrimSpace(part))
			if !ok {
				return ListFilter{}, errors.New("unknown record type")
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	filter.Query = strings.TrimSpace(q.Get("q"))
	filter.IncludeVoided = q.Get("include_voided") == "true"

	return filter, nil
}

func toRecordResponse(rec HealthRecord) recordResponse {
	out := recordResponse{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Type:        rec.Type,
		Title:       rec.Title,
		Date:        rec.Date,
		Vet:         rec.Vet,
		Description: rec.Description,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Vaccine != nil {
		out.VaccineName = rec.Vaccine.VaccineName
		out.NextDueDate = rec.Vaccine.NextDueDate
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, pets.ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, pets.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case storeerr.IsTransient(err):
		w.Header().Set("Retry-After", "1")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
