package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-health-core/internal/platform/storeerr"
)

type testRepo struct {
	byID  map[string]Reminder
	marks int
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Reminder{}} }

func (r *testRepo) Create(_ context.Context, rem Reminder) error {
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Reminder, error) {
	rem, ok := r.byID[id]
	if !ok {
		return Reminder{}, storeerr.ErrNotFound
	}
	return rem, nil
}

func (r *testRepo) ListByPet(_ context.Context, petID string, outstandingOnly bool) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.PetID == petID && (!outstandingOnly || !rem.Completed) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *testRepo) MarkCompleted(_ context.Context, id string, at time.Time) error {
	rem, ok := r.byID[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	r.marks++
	rem.Completed = true
	rem.CompletedAt = &at
	r.byID[id] = rem
	return nil
}

func TestService_CompleteIsIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	rem, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "Heartworm pill", Type: "medication", Date: fixed.AddDate(0, 0, 7)})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Complete(ctx, "pet-1", rem.ID)
		if err != nil || !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(fixed) {
			t.Fatalf("complete #%d: got %#v, %v", i+1, got, err)
		}
	}
	if repo.marks != 1 {
		t.Fatalf("expected exactly one store write, got %d", repo.marks)
	}

	out, _ := svc.ListOutstanding(ctx, "pet-1")
	if len(out) != 0 {
		t.Fatalf("expected no outstanding reminders, got %d", len(out))
	}
}

func TestService_CreateAndCompleteValidation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "x", Type: "party", Date: time.Now()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
	if _, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing date, got %v", err)
	}

	rem, _ := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Title: "Vet", Date: time.Now()})
	if rem.Type != TypeOther {
		t.Fatalf("expected default type other, got %q", rem.Type)
	}
	if _, err := svc.Complete(ctx, "pet-2", rem.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other pet, got %v", err)
	}
}
