package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-health-core/internal/domain/sharelinks"
	"pet-health-core/internal/platform/storeerr"
)

type shareLinkRepo struct {
	mu      sync.RWMutex
	byID    map[string]sharelinks.ShareLink
	byToken map[string]string // token -> id; nunca se borra, un token no se reutiliza
}

func NewShareLinkRepo() sharelinks.Repository {
	return &shareLinkRepo{
		byID:    make(map[string]sharelinks.ShareLink),
		byToken: make(map[string]string),
	}
}

func (r *shareLinkRepo) Create(ctx context.Context, l sharelinks.ShareLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" || l.Token == "" {
		return errors.New("share link id and token required")
	}
	if _, exists := r.byToken[l.Token]; exists {
		return storeerr.ErrConflict
	}
	if _, exists := r.byID[l.ID]; exists {
		return storeerr.ErrConflict
	}

	r.byID[l.ID] = cloneLink(l)
	r.byToken[l.Token] = l.ID
	return nil
}

func (r *shareLinkRepo) GetByID(ctx context.Context, id string) (sharelinks.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return sharelinks.ShareLink{}, ErrNotFound
	}
	return cloneLink(l), nil
}

func (r *shareLinkRepo) GetByToken(ctx context.Context, token string) (sharelinks.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return sharelinks.ShareLink{}, ErrNotFound
	}
	return cloneLink(r.byID[id]), nil
}

func (r *shareLinkRepo) ListByPet(ctx context.Context, petID string) ([]sharelinks.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sharelinks.ShareLink, 0)
	for _, l := range r.byID {
		if l.PetID == petID {
			out = append(out, cloneLink(l))
		}
	}

	// Más nuevo primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *shareLinkRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	l.IsActive = active
	l.UpdatedAt = at
	r.byID[id] = l
	return nil
}

// IncrementAccess chequea y suma bajo el mismo lock, igual que el UPDATE condicional en Postgres.
func (r *shareLinkRepo) IncrementAccess(ctx context.Context, id string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok || !l.Usable(now) {
		return 0, ErrNotFound
	}
	l.AccessCount++
	r.byID[id] = l
	return l.AccessCount, nil
}

func cloneLink(l sharelinks.ShareLink) sharelinks.ShareLink {
	if l.ExpiresAt != nil {
		t := *l.ExpiresAt
		l.ExpiresAt = &t
	}
	return l
}
