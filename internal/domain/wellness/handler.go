package wellness

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/storeerr"
	"pet-health-core/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, premium capabilities.PremiumResolver) {
	r.Route("/pets/{petID}/wellness", func(wr chi.Router) {
		wr.Post("/", recordEntryHandler(svc, premium))
		wr.Get("/alerts", listAlertsHandler(svc))
		wr.Get("/{metric}", trendHandler(svc))
	})
	r.Post("/wellness/alerts/{alertID}/dismiss", dismissAlertHandler(svc))
}

type recordEntryRequest struct {
	Metric    string  `json:"metric" enums:"weight,activity,food,growth"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"` // RFC3339 opcional, default ahora
	Note      string  `json:"note"`
}

type entryResponse struct {
	ID        string     `json:"id"`
	PetID     string     `json:"pet_id"`
	Metric    MetricType `json:"metric"`
	Timestamp time.Time  `json:"timestamp"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Note      string     `json:"note,omitempty"`
}

type alertResponse struct {
	ID              string     `json:"id"`
	PetID           string     `json:"pet_id"`
	Type            AlertType  `json:"alert_type"`
	Severity        Severity   `json:"severity"`
	Message         string     `json:"message"`
	Metric          MetricType `json:"metric"`
	EntryID         string     `json:"entry_id"`
	PreviousEntryID string     `json:"previous_entry_id"`
	PercentageDelta float64    `json:"percentage_delta"`
	TriggeredAt     time.Time  `json:"triggered_at"`
	Dismissed       bool       `json:"dismissed"`
	DismissedAt     *time.Time `json:"dismissed_at,omitempty"`
}

type recordEntryResponse struct {
	Entry  entryResponse   `json:"entry"`
	Alerts []alertResponse `json:"alerts"`
}

type changeResponse struct {
	AbsoluteDelta   float64   `json:"absolute_delta"`
	PercentageDelta float64   `json:"percentage_delta"`
	Direction       Direction `json:"direction"`
}

type seriesPointResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type trendResponse struct {
	Metric  MetricType            `json:"metric"`
	Unit    string                `json:"unit"`
	Period  Period                `json:"period"`
	Entries []entryResponse       `json:"entries"`
	Summary summaryResponse       `json:"summary"`
	Series  []seriesPointResponse `json:"series"`
	Change  *changeResponse       `json:"change,omitempty"`
}

type summaryResponse struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// recordEntryHandler godoc
// @Summary Registrar medición de bienestar
// @Description Requiere premium. Valores fuera de rango devuelven 400 con el motivo. La respuesta incluye las alertas generadas.
// @Tags wellness
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body recordEntryRequest true "Medición"
// @Success 201 {object} recordEntryResponse
// @Failure 400 {string} string "motivo de validación"
// @Failure 402 {string} string "premium required"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 503 {string} string "capabilities unavailable"
// @Router /pets/{petID}/wellness [post]
func recordEntryHandler(svc *Service, premium capabilities.PremiumResolver) http.HandlerFunc {
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

		var req recordEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var ts time.Time
		if strings.TrimSpace(req.Timestamp) != "" {
			ts, err = time.Parse(time.RFC3339, req.Timestamp)
			if err != nil {
				http.Error(w, "timestamp must be RFC3339", http.StatusBadRequest)
				return
			}
		}

		res, err := svc.Record(r.Context(), claims.UserID, RecordInput{
			PetID:     chi.URLParam(r, "petID"),
			Metric:    MetricType(strings.TrimSpace(req.Metric)),
			Value:     req.Value,
			Timestamp: ts,
			Note:      req.Note,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		out := recordEntryResponse{Entry: toEntryResponse(res.Entry), Alerts: make([]alertResponse, 0, len(res.Alerts))}
		for _, a := range res.Alerts {
			out.Alerts = append(out.Alerts, toAlertResponse(a))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// trendHandler godoc
// @Summary Tendencia de una métrica
// @Description Entradas (más reciente primero), resumen min/max/media, serie para gráfico y cambio última vs anterior.
// @Tags wellness
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param metric path string true "weight | activity | food | growth"
// @Param period query string false "week | month | 3months | year | all (default month)"
// @Success 200 {object} trendResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/wellness/{metric} [get]
func trendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		metric, ok := ParseMetricType(chi.URLParam(r, "metric"))
		if !ok {
			http.Error(w, "unknown metric", http.StatusBadRequest)
			return
		}
		period, ok := ParsePeriod(strings.TrimSpace(r.URL.Query().Get("period")))
		if !ok {
			http.Error(w, "period must be week, month, 3months, year or all", http.StatusBadRequest)
			return
		}

		t, err := svc.Trend(r.Context(), claims.UserID, chi.URLParam(r, "petID"), metric, period)
		if err != nil {
			writeError(w, err)
			return
		}

		out := trendResponse{
			Metric:  t.Metric,
			Unit:    t.Unit,
			Period:  t.Period,
			Entries: make([]entryResponse, 0, len(t.Entries)),
			Summary: summaryResponse{Min: t.Summary.Min, Max: t.Summary.Max, Mean: t.Summary.Mean, Count: t.Summary.Count},
			Series:  make([]seriesPointResponse, 0, len(t.Series)),
		}
		for _, e := range t.Entries {
			out.Entries = append(out.Entries, toEntryResponse(e))
		}
		for _, p := range t.Series {
			out.Series = append(out.Series, seriesPointResponse{Label: p.Label, Value: p.Value})
		}
		if t.Change != nil {
			out.Change = &changeResponse{
				AbsoluteDelta:   t.Change.AbsoluteDelta,
				PercentageDelta: t.Change.PercentageDelta,
				Direction:       t.Change.Direction,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listAlertsHandler godoc
// @Summary Alertas de bienestar de una mascota
// @Tags wellness
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param include_dismissed query bool false "Incluir descartadas"
// @Success 200 {array} alertResponse
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/wellness/alerts [get]
func listAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListAlerts(r.Context(), claims.UserID, chi.URLParam(r, "petID"),
			r.URL.Query().Get("include_dismissed") == "true")
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAlertResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// dismissAlertHandler godoc
// @Summary Descartar alerta
// @Description Idempotente: descartar una alerta ya descartada devuelve 200.
// @Tags wellness
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param alertID path string true "ID de la alerta"
// @Success 200 {object} alertResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "alert not found"
// @Router /wellness/alerts/{alertID}/dismiss [post]
func dismissAlertHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Dismiss(r.Context(), claims.UserID, chi.URLParam(r, "alertID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAlertResponse(a))
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		PetID:     e.PetID,
		Metric:    e.Metric,
		Timestamp: e.Timestamp,
		Value:     e.Value,
		Unit:      e.Unit,
		Note:      e.Note,
	}
}

func toAlertResponse(a Alert) alertResponse {
	return alertResponse{
		ID:              a.ID,
		PetID:           a.PetID,
		Type:            a.Type,
		Severity:        a.Severity,
		Message:         a.Message,
		Metric:          a.Metric,
		EntryID:         a.EntryID,
		PreviousEntryID: a.PreviousEntryID,
		PercentageDelta: a.PercentageDelta,
		TriggeredAt:     a.TriggeredAt,
		Dismissed:       a.Dismissed,
		DismissedAt:     a.DismissedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		// El motivo se muestra tal cual al dueño.
		http.Error(w, verr.Reason, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrForbidden), errors.Is(err, pets.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrAlertNotFound):
		http.Error(w, "alert not found", http.StatusNotFound)
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
