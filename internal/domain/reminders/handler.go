package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/storeerr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/pets/{petID}/reminders", func(rr chi.Router) {
		rr.Post("/", createReminderHandler(svc, petsSvc))
		rr.Get("/", listRemindersHandler(svc, petsSvc))
		rr.Post("/{reminderID}/complete", completeReminderHandler(svc, petsSvc))
	})
}

type createReminderRequest struct {
	Title string `json:"title"`
	Type  string `json:"type" enums:"vaccine,medication,appointment,grooming,other"`
	Date  string `json:"date"` // RFC3339
	Notes string `json:"notes"`
}

type reminderResponse struct {
	ID          string       `json:"id"`
	PetID       string       `json:"pet_id"`
	Title       string       `json:"title"`
	Type        ReminderType `json:"type"`
	Date        time.Time    `json:"date"`
	Notes       string       `json:"notes,omitempty"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// createReminderHandler godoc
// @Summary Crear recordatorio
// @Tags reminders
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param payload body createReminderRequest true "Recordatorio; date en RFC3339"
// @Success 201 {object} reminderResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/reminders [post]
func createReminderHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			http.Error(w, "date must be RFC3339", http.StatusBadRequest)
			return
		}

		rem, err := svc.Create(r.Context(), petID, claims.UserID, CreateInput{
			Title: req.Title,
			Type:  req.Type,
			Date:  date,
			Notes: req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReminderResponse(rem))
	}
}

// listRemindersHandler godoc
// @Summary Listar recordatorios
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param outstanding query bool false "Solo pendientes"
// @Success 200 {array} reminderResponse
// @Router /pets/{petID}/reminders [get]
func listRemindersHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		var (
			items []Reminder
			err   error
		)
		if r.URL.Query().Get("outstanding") == "true" {
			items, err = svc.ListOutstanding(r.Context(), petID)
		} else {
			items, err = svc.ListByPet(r.Context(), petID)
		}
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, rem := range items {
			out = append(out, toReminderResponse(rem))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// completeReminderHandler godoc
// @Summary Marcar recordatorio como completado
// @Description Idempotente: completar dos veces devuelve 200.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} reminderResponse
// @Failure 404 {string} string "reminder not found"
// @Router /pets/{petID}/reminders/{reminderID}/complete [post]
func completeReminderHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		rem, err := svc.Complete(r.Context(), petID, chi.URLParam(r, "reminderID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

func toReminderResponse(r Reminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID,
		PetID:       r.PetID,
		Title:       r.Title,
		Type:        r.Type,
		Date:        r.Date,
		Notes:       r.Notes,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
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
		http.Error(w, "reminder not found", http.StatusNotFound)
	case storeerr.IsTransient(err):
		w.Header().Set("Retry-After", "1")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
