package wellness

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/platform/storeerr"
)

type Service struct {
	store    *Store
	alerts   AlertRepository
	pets     PetOwnerLookup
	notifier AlertNotifier
	log      logger.Logger
	metrics  instruments
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithNotifier(n AlertNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func NewService(entries EntryRepository, alerts AlertRepository, pets PetOwnerLookup, opts ...Option) *Service {
	s := &Service{
		store:    NewStore(entries),
		alerts:   alerts,
		pets:     pets,
		notifier: NopNotifier{},
		log:      logger.Nop(),
		metrics:  newInstruments(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RecordInput struct {
	PetID     string
	Metric    MetricType
	Value     float64
	Timestamp time.Time // zero => now
	Note      string
}

type RecordResult struct {
	Entry  Entry
	Alerts []Alert
}

// Record guarda la entrada y después evalúa alertas. Si la evaluación o el aviso
// fallan, la entrada queda guardada igual y el error solo se loguea.
// El gate premium lo chequea quien llama.
func (s *Service) Record(ctx context.Context, ownerID string, in RecordInput) (RecordResult, error) {
	if err := s.authorize(ctx, in.PetID, ownerID); err != nil {
		return RecordResult{}, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	entry, err := s.store.Append(ctx, Entry{
		PetID:     strings.TrimSpace(in.PetID),
		OwnerID:   strings.TrimSpace(ownerID),
		Metric:    in.Metric,
		Timestamp: ts,
		Value:     in.Value,
		Note:      in.Note,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			s.metrics.entryRejected(ctx, in.Metric)
		}
		return RecordResult{}, err
	}
	s.metrics.entryRecorded(ctx, entry.Metric)

	log := s.log.With(map[string]any{"pet_id": entry.PetID, "entry_id": entry.ID, "metric": string(entry.Metric)})

	raised, err := s.evaluate(ctx, entry)
	if err != nil {
		s.metrics.alertFailed(ctx, "evaluate")
		log.Warn("alert evaluation failed; entry kept", map[string]any{"error": err.Error()})
		return RecordResult{Entry: entry, Alerts: []Alert{}}, nil
	}

	stored := make([]Alert, 0, len(raised))
	for _, a := range raised {
		if err := s.alerts.Create(ctx, a); err != nil {
			s.metrics.alertFailed(ctx, "store")
			log.Warn("alert not stored", map[string]any{"alert_type": string(a.Type), "error": err.Error()})
			continue
		}
		s.metrics.alertRaised(ctx, a)
		stored = append(stored, a)

		if err := s.notifier.NotifyAlert(ctx, a); err != nil {
			s.metrics.alertFailed(ctx, "notify")
			log.Warn("alert notification failed", map[string]any{"alert_id": a.ID, "error": err.Error()})
		}
	}

	if len(stored) > 0 {
		log.Info("wellness alerts raised", map[string]any{"count": len(stored)})
	}
	return RecordResult{Entry: entry, Alerts: stored}, nil
}

func (s *Service) evaluate(ctx context.Context, entry Entry) ([]Alert, error) {
	prev, ok, err := s.store.LatestBefore(ctx, entry.PetID, entry.Metric, entry.Timestamp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return Evaluate(entry, prev, s.now()), nil
}

// Trend es el payload del gráfico de una métrica.
type Trend struct {
	Metric  MetricType
	Unit    string
	Period  Period
	Entries []Entry // más reciente primero
	Summary Summary
	Series  []SeriesPoint // más vieja primero
	Change  *Change       // última vs anterior; nil con menos de dos entradas
}

func (s *Service) Trend(ctx context.Context, ownerID, petID string, metric MetricType, period Period) (Trend, error) {
	if _, ok := ParseMetricType(string(metric)); !ok {
		return Trend{}, ErrInvalidInput
	}
	if _, ok := ParsePeriod(string(period)); !ok || period == "" {
		return Trend{}, ErrInvalidInput
	}
	if err := s.authorize(ctx, petID, ownerID); err != nil {
		return Trend{}, err
	}

	entries, err := s.store.Query(ctx, strings.TrimSpace(petID), metric, period, s.now())
	if err != nil {
		return Trend{}, err
	}
	sortChronological(entries)

	t := Trend{
		Metric:  metric,
		Unit:    metric.Unit(),
		Period:  period,
		Summary: Summarize(entries),
		Series:  BuildSeries(entries),
		Entries: make([]Entry, 0, len(entries)),
	}
	for i := len(entries) - 1; i >= 0; i-- {
		t.Entries = append(t.Entries, entries[i])
	}
	if n := len(entries); n >= 2 {
		ch := ChangeBetween(entries[n-1].Value, entries[n-2].Value)
		t.Change = &ch
	}
	return t, nil
}

func (s *Service) ListAlerts(ctx context.Context, ownerID, petID string, includeDismissed bool) ([]Alert, error) {
	if err := s.authorize(ctx, petID, ownerID); err != nil {
		return nil, err
	}
	return s.alerts.ListByPet(ctx, strings.TrimSpace(petID), includeDismissed)
}

// Dismiss es idempotente: una alerta ya descartada se devuelve sin error.
func (s *Service) Dismiss(ctx context.Context, ownerID, alertID string) (Alert, error) {
	alertID = strings.TrimSpace(alertID)
	if alertID == "" {
		return Alert{}, ErrInvalidInput
	}

	a, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Alert{}, ErrAlertNotFound
		}
		return Alert{}, err
	}
	if a.OwnerID != strings.TrimSpace(ownerID) {
		return Alert{}, ErrForbidden
	}
	if a.Dismissed {
		return a, nil
	}

	at := s.now()
	if err := s.alerts.Dismiss(ctx, alertID, at); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Alert{}, ErrAlertNotFound
		}
		return Alert{}, err
	}
	a.Dismissed = true
	a.DismissedAt = &at
	return a, nil
}

func (s *Service) authorize(ctx context.Context, petID, ownerID string) error {
	petID = strings.TrimSpace(petID)
	ownerID = strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return ErrInvalidInput
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	return nil
}
