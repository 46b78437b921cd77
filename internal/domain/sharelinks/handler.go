package sharelinks

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/platform/storeerr"
	"pet-health-core/internal/ports/capabilities"
	"pet-health-core/internal/ports/ratelimit"

	"github.com/go-chi/chi/v5"
)

// unavailableMessage es igual para token inexistente, revocado o vencido.
const unavailableMessage = "this link is unavailable"

// RegisterRoutes monta las acciones del dueño. origin arma la URL pública del link.
func RegisterRoutes(r chi.Router, svc *Service, premium capabilities.PremiumResolver, origin string) {
	origin = strings.TrimRight(origin, "/")

	r.Route("/pets/{petID}/share-links", func(sr chi.Router) {
		sr.Post("/", createLinkHandler(svc, premium, origin))
		sr.Get("/", listLinksHandler(svc, origin))
		sr.Post("/{linkID}/revoke", revokeLinkHandler(svc, origin))
		sr.Post("/{linkID}/reactivate", reactivateLinkHandler(svc, origin))
	})
}

// RegisterPublicRoutes monta el endpoint sin autenticación para visitantes.
func RegisterPublicRoutes(r chi.Router, gw *Gateway, limiter ratelimit.Limiter, log logger.Logger) {
	r.Get("/share/{token}", resolveHandler(gw, limiter, log))
}

type createLinkRequest struct {
	// Horas hasta que vence. 0 u omitido => no vence.
	TTLHours int `json:"ttl_hours"`
}

type linkResponse struct {
	ID          string     `json:"id"`
	PetID       string     `json:"pet_id"`
	Token       string     `json:"token"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	AccessCount int64      `json:"access_count"`
	IsActive    bool       `json:"is_active"`
	State       State      `json:"state"`
}

// createLinkHandler godoc
// @Summary Crear link compartido
// @Description Requiere premium. Devuelve el token y la URL `<origin>/share/<token>`.
// @Tags share-links
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body createLinkRequest false "Vencimiento opcional"
// @Success 201 {object} linkResponse
// @Failure 402 {string} string "premium required"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 503 {string} string "capabilities unavailable"
// @Router /pets/{petID}/share-links [post]
func createLinkHandler(svc *Service, premium capabilities.PremiumResolver, origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		isPremium, err := premium.IsPremium(r.Context(), claims.UserID)
		if err != nil {
			if storeerr.IsTransient(err) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "capabilities unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "capabilities unavailable", http.StatusBadGateway)
			return
		}
		if !isPremium {
			http.Error(w, "premium required", http.StatusPaymentRequired)
			return
		}

		// Body opcional.
		var req createLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.TTLHours < 0 {
			http.Error(w, "ttl_hours must be >= 0", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), CreateInput{
			PetID:   chi.URLParam(r, "petID"),
			OwnerID: claims.UserID,
			TTL:     time.Duration(req.TTLHours) * time.Hour,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLinkResponse(l, origin))
	}
}

// listLinksHandler godoc
// @Summary Listar links compartidos de una mascota
// @Description Todos los links, activos o no, más nuevo primero.
// @Tags share-links
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} linkResponse
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/share-links [get]
func listLinksHandler(svc *Service, origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListActive(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]linkResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLinkResponse(l, origin))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// revokeLinkHandler godoc
// @Summary Revocar link compartido
// @Tags share-links
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param linkID path string true "ID del link"
// @Success 200 {object} linkResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "share link not found"
// @Router /pets/{petID}/share-links/{linkID}/revoke [post]
func revokeLinkHandler(svc *Service, origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		l, err := svc.Revoke(r.Context(), chi.URLParam(r, "linkID"), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLinkResponse(l, origin))
	}
}

// reactivateLinkHandler godoc
// @Summary Reactivar link compartido
// @Description Mismo token que antes de revocar.
// @Tags share-links
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param linkID path string true "ID del link"
// @Success 200 {object} linkResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "share link not found"
// @Router /pets/{petID}/share-links/{linkID}/reactivate [post]
func reactivateLinkHandler(svc *Service, origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		l, err := svc.Reactivate(r.Context(), chi.URLParam(r, "linkID"), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLinkResponse(l, origin))
	}
}

type sharedPetResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Breed       string  `json:"breed"`
	Age         int     `json:"age"`
	Weight      float64 `json:"weight"`
	Emoji       string  `json:"emoji"`
	Gender      string  `json:"gender,omitempty"`
	Color       string  `json:"color,omitempty"`
	MicrochipID string  `json:"microchipId,omitempty"`
}

type sharedVaccinationResponse struct {
	VaccineName string     `json:"vaccineName"`
	Date        time.Time  `json:"date"`
	Vet         string     `json:"vet"`
	NextDueDate *time.Time `json:"nextDueDate"`
}

type sharedRecordResponse struct {
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Vet         string    `json:"vet"`
	Description string    `json:"description,omitempty"`
}

type sharedReminderResponse struct {
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	Completed bool      `json:"completed"`
}

type sharedOwnerResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Location  string `json:"location,omitempty"`
}

// projectionResponse usa camelCase: lo consume directamente la página pública.
type projectionResponse struct {
	Pet           sharedPetResponse           `json:"pet"`
	Vaccinations  []sharedVaccinationResponse `json:"vaccinations"`
	HealthRecords []sharedRecordResponse      `json:"healthRecords"`
	Reminders     []sharedReminderResponse    `json:"reminders"`
	Owner         sharedOwnerResponse         `json:"owner"`
}

// resolveHandler godoc
// @Summary Ver datos compartidos de una mascota
// @Description Público, sin autenticación. Token inexistente, revocado o vencido responden igual (404).
// @Tags share
// @Produce json
// @Param token path string true "Token del link"
// @Success 200 {object} projectionResponse
// @Failure 404 {string} string "this link is unavailable"
// @Failure 429 {string} string "too many requests"
// @Router /share/{token} [get]
func resolveHandler(gw *Gateway, limiter ratelimit.Limiter, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, err := limiter.Allow(r.Context(), "share:"+clientIP(r))
		if err != nil {
			// Si el limitador falla dejamos pasar; el endpoint es de solo lectura.
			log.Warn("rate limiter unavailable", map[string]any{"error": err.Error()})
		} else if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		proj, err := gw.Resolve(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			switch {
			case errors.Is(err, ErrLinkNotFound), errors.Is(err, ErrLinkInactive):
				log.Debug("share link unavailable", map[string]any{"reason": err.Error()})
				http.Error(w, unavailableMessage, http.StatusNotFound)
			case storeerr.IsTransient(err):
				w.Header().Set("Retry-After", "1")
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			default:
				log.Error("share link resolve failed", map[string]any{"error": err.Error()})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, toProjectionResponse(proj))
	}
}

func toLinkResponse(l ShareLink, origin string) linkResponse {
	return linkResponse{
		ID:          l.ID,
		PetID:       l.PetID,
		Token:       l.Token,
		URL:         origin + "/share/" + l.Token,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
		AccessCount: l.AccessCount,
		IsActive:    l.IsActive,
		State:       l.State(),
	}
}

func toProjectionResponse(p Projection) projectionResponse {
	out := projectionResponse{
		Pet: sharedPetResponse{
			ID:          p.Pet.ID,
			Name:        p.Pet.Name,
			Type:        p.Pet.Type,
			Breed:       p.Pet.Breed,
			Age:         p.Pet.Age,
			Weight:      p.Pet.Weight,
			Emoji:       p.Pet.Emoji,
			Gender:      p.Pet.Gender,
			Color:       p.Pet.Color,
			MicrochipID: p.Pet.MicrochipID,
		},
		Vaccinations:  make([]sharedVaccinationResponse, 0, len(p.Vaccinations)),
		HealthRecords: make([]sharedRecordResponse, 0, len(p.HealthRecords)),
		Reminders:     make([]sharedReminderResponse, 0, len(p.Reminders)),
		Owner: sharedOwnerResponse{
			FirstName: p.Owner.FirstName,
			LastName:  p.Owner.LastName,
			Location:  p.Owner.Location,
		},
	}
	for _, v := range p.Vaccinations {
		out.Vaccinations = append(out.Vaccinations, sharedVaccinationResponse(v))
	}
	for _, r := range p.HealthRecords {
		out.HealthRecords = append(out.HealthRecords, sharedRecordResponse(r))
	}
	for _, r := range p.Reminders {
		out.Reminders = append(out.Reminders, sharedReminderResponse(r))
	}
	return out
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrForbidden), errors.Is(err, pets.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrLinkNotFound):
		http.Error(w, "share link not found", http.StatusNotFound)
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
