package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-health-core/internal/domain/owners"
)

type ownerRepo struct {
	mu     sync.RWMutex
	byUser map[string]owners.Profile
}

func NewOwnerRepo() owners.Repository {
	return &ownerRepo{
		byUser: make(map[string]owners.Profile),
	}
}

func (r *ownerRepo) Upsert(ctx context.Context, p owners.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("user id required")
	}
	r.byUser[p.UserID] = p
	return nil
}

func (r *ownerRepo) Get(ctx context.Context, userID string) (owners.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return owners.Profile{}, ErrNotFound
	}
	return p, nil
}
