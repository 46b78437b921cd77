package wellness

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-health-core/internal/platform/storeerr"
)

// Store valida cada entrada antes de que llegue al repositorio.
type Store struct {
	repo EntryRepository
}

func NewStore(repo EntryRepository) *Store {
	return &Store{repo: repo}
}

// Append valida y persiste e. Asigna ID y Unit; Seq lo asigna el repositorio.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if err := ValidateValue(e.Metric, e.Value); err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(e.PetID) == "" || strings.TrimSpace(e.OwnerID) == "" || e.Timestamp.IsZero() {
		return Entry{}, ErrInvalidInput
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Unit = e.Metric.Unit()
	e.Note = strings.TrimSpace(e.Note)

	return s.repo.Insert(ctx, e)
}

func (s *Store) Query(ctx context.Context, petID string, metric MetricType, period Period, now time.Time) ([]Entry, error) {
	return s.repo.Query(ctx, petID, metric, period.Since(now))
}

// LatestBefore devuelve (entrada, true) o (zero, false) si no hay historial previo.
func (s *Store) LatestBefore(ctx context.Context, petID string, metric MetricType, before time.Time) (Entry, bool, error) {
	e, err := s.repo.LatestBefore(ctx, petID, metric, before)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}
