package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-health-core/internal/domain/reminders"
	"pet-health-core/internal/platform/storeerr"
)

type reminderRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *reminderRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem.ID == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return storeerr.ErrConflict
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, ErrNotFound
	}
	return rem, nil
}

func (r *reminderRepo) ListByPet(ctx context.Context, petID string, outstandingOnly bool) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.PetID != petID {
			continue
		}
		if outstandingOnly && rem.Completed {
			continue
		}
		out = append(out, rem)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *reminderRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	rem.Completed = true
	rem.CompletedAt = &at
	r.byID[id] = rem
	return nil
}
