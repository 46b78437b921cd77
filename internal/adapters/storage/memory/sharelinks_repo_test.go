package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-health-core/internal/domain/sharelinks"
	"pet-health-core/internal/platform/storeerr"
)

func TestShareLinkRepo_TokenIsUnique(t *testing.T) {
	repo := NewShareLinkRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, sharelinks.ShareLink{ID: "l1", PetID: "p", Token: "tok", IsActive: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, sharelinks.ShareLink{ID: "l2", PetID: "p", Token: "tok", IsActive: true})
	if !errors.Is(err, storeerr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate token, got %v", err)
	}
}

func TestShareLinkRepo_IncrementAccessIsAtomicAndConditional(t *testing.T) {
	repo := NewShareLinkRepo()
	ctx := context.Background()
	now := time.Now()

	_ = repo.Create(ctx, sharelinks.ShareLink{ID: "l1", PetID: "p", Token: "tok", IsActive: true, CreatedAt: now})

	const n = 64
	var wg sync.WaitGroup
	seen := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repo.IncrementAccess(ctx, "l1", now)
			if err != nil {
				t.Errorf("IncrementAccess: %v", err)
				return
			}
			seen <- c
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for c := range seen {
		if unique[c] {
			t.Fatalf("count %d observed twice", c)
		}
		unique[c] = true
	}
	l, _ := repo.GetByID(ctx, "l1")
	if l.AccessCount != n || len(unique) != n {
		t.Fatalf("expected %d distinct increments, got count=%d distinct=%d", n, l.AccessCount, len(unique))
	}

	_ = repo.SetActive(ctx, "l1", false, now)
	if _, err := repo.IncrementAccess(ctx, "l1", now); !errors.Is(err, storeerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive link, got %v", err)
	}

	exp := now.Add(-time.Second)
	_ = repo.Create(ctx, sharelinks.ShareLink{ID: "l2", PetID: "p", Token: "tok2", IsActive: true, ExpiresAt: &exp})
	if _, err := repo.IncrementAccess(ctx, "l2", now); !errors.Is(err, storeerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired link, got %v", err)
	}
}
