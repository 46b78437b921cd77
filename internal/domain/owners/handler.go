package owners

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/storeerr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Put("/me/profile", upsertProfileHandler(svc))
	r.Get("/me/profile", getProfileHandler(svc))
}

type profileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Location  string `json:"location"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type profileResponse struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Location  string    `json:"location,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// upsertProfileHandler godoc
// @Summary Crear o reemplazar mi perfil
// @Tags owners
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body profileRequest true "Perfil"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid input"
// @Router /me/profile [put]
func upsertProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Si no mandan email usamos el del token.
		email := req.Email
		if strings.TrimSpace(email) == "" {
			email = claims.Email
		}

		p, err := svc.Upsert(r.Context(), claims.UserID, UpsertInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Location:  req.Location,
			Email:     email,
			Phone:     req.Phone,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// getProfileHandler godoc
// @Summary Mi perfil
// @Tags owners
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} profileResponse
// @Failure 404 {string} string "profile not found"
// @Router /me/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Location:  p.Location,
		Email:     p.Email,
		Phone:     p.Phone,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
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
