package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-health-core/internal/domain/wellness"
	"pet-health-core/internal/platform/storeerr"
)

func TestWellnessEntryRepo_QueryAndLatestBefore(t *testing.T) {
	repo := NewWellnessEntryRepo()
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	insert := func(id string, at time.Time, v float64) wellness.Entry {
		t.Helper()
		e, err := repo.Insert(ctx, wellness.Entry{ID: id, PetID: "pet-1", OwnerID: "owner-1", Metric: wellness.MetricWeight, Timestamp: at, Value: v})
		if err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
		return e
	}

	a := insert("a", base, 10)
	b := insert("b", base.Add(time.Hour), 11)
	c := insert("c", base.Add(time.Hour), 12)
	if !(a.Seq < b.Seq && b.Seq < c.Seq) {
		t.Fatalf("expected increasing Seq, got %d %d %d", a.Seq, b.Seq, c.Seq)
	}

	got, err := repo.LatestBefore(ctx, "pet-1", wellness.MetricWeight, base.Add(2*time.Hour))
	if err != nil || got.ID != "c" {
		t.Fatalf("expected tie broken by highest Seq (c), got %q, %v", got.ID, err)
	}

	got, err = repo.LatestBefore(ctx, "pet-1", wellness.MetricWeight, base.Add(time.Hour))
	if err != nil || got.ID != "a" {
		t.Fatalf("expected strictly-earlier entry a, got %q, %v", got.ID, err)
	}

	if _, err := repo.LatestBefore(ctx, "pet-1", wellness.MetricWeight, base); !errors.Is(err, storeerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	since := base.Add(time.Hour)
	items, _ := repo.Query(ctx, "pet-1", wellness.MetricWeight, &since)
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "c" {
		t.Fatalf("expected inclusive boundary [b c], got %#v", items)
	}

	if _, err := repo.Insert(ctx, wellness.Entry{ID: "a", PetID: "pet-1", Metric: wellness.MetricWeight, Timestamp: base}); !errors.Is(err, storeerr.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}
}

func TestWellnessAlertRepo_DismissAndList(t *testing.T) {
	repo := NewWellnessAlertRepo()
	ctx := context.Background()
	now := time.Now()

	_ = repo.Create(ctx, wellness.Alert{ID: "old", PetID: "pet-1", TriggeredAt: now.Add(-time.Hour)})
	_ = repo.Create(ctx, wellness.Alert{ID: "new", PetID: "pet-1", TriggeredAt: now})

	if err := repo.Dismiss(ctx, "old", now); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if err := repo.Dismiss(ctx, "old", now.Add(time.Minute)); err != nil {
		t.Fatalf("second Dismiss: %v", err)
	}

	open, _ := repo.ListByPet(ctx, "pet-1", false)
	all, _ := repo.ListByPet(ctx, "pet-1", true)
	if len(open) != 1 || open[0].ID != "new" {
		t.Fatalf("unexpected open alerts: %#v", open)
	}
	if len(all) != 2 || all[0].ID != "new" {
		t.Fatalf("expected newest first, got %#v", all)
	}
	if a, _ := repo.GetByID(ctx, "old"); a.DismissedAt == nil || !a.DismissedAt.Equal(now) {
		t.Fatalf("first dismissal time must be kept, got %#v", a.DismissedAt)
	}
}
