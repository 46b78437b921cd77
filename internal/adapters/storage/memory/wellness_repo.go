package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-health-core/internal/domain/wellness"
	"pet-health-core/internal/platform/storeerr"
)

type wellnessEntryRepo struct {
	mu      sync.RWMutex
	seq     int64
	entries []wellness.Entry
	ids     map[string]struct{}
}

func NewWellnessEntryRepo() wellness.EntryRepository {
	return &wellnessEntryRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *wellnessEntryRepo) Insert(ctx context.Context, e wellness.Entry) (wellness.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return wellness.Entry{}, errors.New("entry id required")
	}
	if _, exists := r.ids[e.ID]; exists {
		return wellness.Entry{}, storeerr.ErrConflict
	}

	r.seq++
	e.Seq = r.seq
	r.entries = append(r.entries, e)
	r.ids[e.ID] = struct{}{}
	return e, nil
}

func (r *wellnessEntryRepo) Query(ctx context.Context, petID string, metric wellness.MetricType, since *time.Time) ([]wellness.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]wellness.Entry, 0)
	for _, e := range r.entries {
		if e.PetID != petID || e.Metric != metric {
			continue
		}
		// Límite inclusivo
		if since != nil && e.Timestamp.Before(*since) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (r *wellnessEntryRepo) LatestBefore(ctx context.Context, petID string, metric wellness.MetricType, before time.Time) (wellness.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  wellness.Entry
		found bool
	)
	for _, e := range r.entries {
		if e.PetID != petID || e.Metric != metric || !e.Timestamp.Before(before) {
			continue
		}
		if !found || e.Timestamp.After(best.Timestamp) || (e.Timestamp.Equal(best.Timestamp) && e.Seq > best.Seq) {
			best, found = e, true
		}
	}
	if !found {
		return wellness.Entry{}, ErrNotFound
	}
	return best, nil
}

type wellnessAlertRepo struct {
	mu   sync.RWMutex
	byID map[string]wellness.Alert
}

func NewWellnessAlertRepo() wellness.AlertRepository {
	return &wellnessAlertRepo{
		byID: make(map[string]wellness.Alert),
	}
}

func (r *wellnessAlertRepo) Create(ctx context.Context, a wellness.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("alert id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return storeerr.ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *wellnessAlertRepo) GetByID(ctx context.Context, id string) (wellness.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return wellness.Alert{}, ErrNotFound
	}
	return a, nil
}

func (r *wellnessAlertRepo) ListByPet(ctx context.Context, petID string, includeDismissed bool) ([]wellness.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]wellness.Alert, 0)
	for _, a := range r.byID {
		if a.PetID != petID {
			continue
		}
		if a.Dismissed && !includeDismissed {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TriggeredAt.After(out[j].TriggeredAt)
	})
	return out, nil
}

func (r *wellnessAlertRepo) Dismiss(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !a.Dismissed {
		a.Dismissed = true
		a.DismissedAt = &at
		r.byID[id] = a
	}
	return nil
}
