package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-health-core/internal/domain/records"
	"pet-health-core/internal/platform/storeerr"
)

type recordRepo struct {
	mu   sync.RWMutex
	byID map[string]records.HealthRecord
}

func NewRecordRepo() records.Repository {
	return &recordRepo{
		byID: make(map[string]records.HealthRecord),
	}
}

func (r *recordRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return storeerr.ErrConflict
	}

	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (records.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return records.HealthRecord{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *recordRepo) ListByPet(ctx context.Context, petID string, filter records.ListFilter) ([]records.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.HealthRecord, 0)

	for _, rec := range r.byID {
		if rec.PetID != petID {
			continue
		}
		if !filter.IncludeVoided && rec.Status == records.StatusVoided {
			continue
		}

		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if rec.Type == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		// Rango inclusivo en ambos extremos
		if filter.From != nil && rec.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.Date.After(*filter.To) {
			continue
		}

		if q := strings.TrimSpace(filter.Query); q != "" {
			hay := strings.ToLower(rec.Title + " " + rec.Description)
			if !strings.Contains(hay, strings.ToLower(q)) {
				continue
			}
		}

		out = append(out, cloneRecord(rec))
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit := filter.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *recordRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = records.StatusVoided
	r.byID[id] = rec
	return nil
}

// cloneRecord evita que quien llama comparta el puntero Vaccine con el mapa.
func cloneRecord(rec records.HealthRecord) records.HealthRecord {
	if rec.Vaccine != nil {
		v := *rec.Vaccine
		rec.Vaccine = &v
	}
	return rec
}
