package sharelinks_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-health-core/internal/adapters/storage/memory"
	"pet-health-core/internal/domain/owners"
	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/domain/records"
	"pet-health-core/internal/domain/reminders"
	"pet-health-core/internal/domain/sharelinks"
	"pet-health-core/internal/platform/logger"
)

type fixture struct {
	links     sharelinks.Repository
	mgr       *sharelinks.Service
	gw        *sharelinks.Gateway
	petsSvc   *pets.Service
	records   *records.Service
	reminders *reminders.Service
	owners    *owners.Service
	pet       pets.Pet
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		links:     memory.NewShareLinkRepo(),
		petsSvc:   pets.NewService(memory.NewPetRepo()),
		records:   records.NewService(memory.NewRecordRepo()),
		reminders: reminders.NewService(memory.NewReminderRepo()),
		owners:    owners.NewService(memory.NewOwnerRepo()),
	}
	f.mgr = sharelinks.NewService(f.links, f.petsSvc, logger.Nop())
	f.gw = sharelinks.NewGateway(f.links, sharelinks.Sources{
		Pets:      f.petsSvc,
		Records:   f.records,
		Reminders: f.reminders,
		Owners:    f.owners,
	}, logger.Nop())

	var err error
	f.pet, err = f.petsSvc.Create(ctx, "owner-1", pets.CreateInput{Name: "Luna", Species: "cat", Breed: "siamese", Weight: 4.2, Microchip: "985-1"})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if _, err := f.petsSvc.Create(ctx, "owner-1", pets.CreateInput{Name: "Other", Species: "dog"}); err != nil {
		t.Fatalf("create second pet: %v", err)
	}
	if _, err := f.owners.Upsert(ctx, "owner-1", owners.UpsertInput{FirstName: "Ana", LastName: "Ruiz", Location: "Lima", Email: "ana@example.com", Phone: "555"}); err != nil {
		t.Fatalf("upsert owner: %v", err)
	}
	return f
}

func accessCount(t *testing.T, repo sharelinks.Repository, id string) int64 {
	t.Helper()
	l, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return l.AccessCount
}

func TestGateway_EndToEndLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link, err := f.mgr.Create(ctx, sharelinks.CreateInput{PetID: f.pet.ID, OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	token := link.Token

	for i := 0; i < 2; i++ {
		proj, err := f.gw.Resolve(ctx, token)
		if err != nil {
			t.Fatalf("resolve #%d: %v", i+1, err)
		}
		if proj.Pet.ID != f.pet.ID || proj.Pet.Name != "Luna" {
			t.Fatalf("unexpected projection pet: %#v", proj.Pet)
		}
	}
	if got := accessCount(t, f.links, link.ID); got != 2 {
		t.Fatalf("expected accessCount 2, got %d", got)
	}

	if _, err := f.mgr.Revoke(ctx, link.ID, f.pet.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := f.gw.Resolve(ctx, token); !errors.Is(err, sharelinks.ErrLinkInactive) {
		t.Fatalf("expected ErrLinkInactive, got %v", err)
	}
	if got := accessCount(t, f.links, link.ID); got != 2 {
		t.Fatalf("failed resolution must not count, got %d", got)
	}

	reactivated, err := f.mgr.Reactivate(ctx, link.ID, f.pet.ID, "owner-1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if reactivated.Token != token {
		t.Fatalf("token must be preserved across reactivation")
	}
	if _, err := f.gw.Resolve(ctx, token); err != nil {
		t.Fatalf("resolve after reactivate: %v", err)
	}
	if got := accessCount(t, f.links, link.ID); got != 3 {
		t.Fatalf("expected accessCount 3, got %d", got)
	}
}

func TestGateway_UnknownAndExpiredTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "nope"} {
		if _, err := f.gw.Resolve(ctx, tok); !errors.Is(err, sharelinks.ErrLinkNotFound) {
			t.Fatalf("token %q: expected ErrLinkNotFound, got %v", tok, err)
		}
	}

	link, _ := f.mgr.Create(ctx, sharelinks.CreateInput{PetID: f.pet.ID, OwnerID: "owner-1", TTL: time.Nanosecond})
	time.Sleep(time.Millisecond)
	if _, err := f.gw.Resolve(ctx, link.Token); !errors.Is(err, sharelinks.ErrLinkInactive) {
		t.Fatalf("expected ErrLinkInactive for expired link, got %v", err)
	}
}

func TestGateway_ConcurrentResolutionsAreAllCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link, _ := f.mgr.Create(ctx, sharelinks.CreateInput{PetID: f.pet.ID, OwnerID: "owner-1"})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.gw.Resolve(ctx, link.Token); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := accessCount(t, f.links, link.ID); got != n {
		t.Fatalf("expected accessCount %d, got %d", n, got)
	}
}

func TestGateway_ProjectionContents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }

	due := day(28)
	if _, err := f.records.Create(ctx, f.pet.ID, "owner-1", records.CreateInput{Type: records.RecordTypeVaccine, Date: day(1), Vet: "Dr. Vega", VaccineName: "Rabies", NextDueDate: &due}); err != nil {
		t.Fatalf("create vaccine: %v", err)
	}
	voided, _ := f.records.Create(ctx, f.pet.ID, "owner-1", records.CreateInput{Type: records.RecordTypeNote, Title: "typo", Date: day(2)})
	_, _ = f.records.Void(ctx, f.pet.ID, voided.ID)
	for d := 3; d <= 15; d++ {
		_, _ = f.records.Create(ctx, f.pet.ID, "owner-1", records.CreateInput{Type: records.RecordTypeMedicalVisit, Title: "checkup", Date: day(d)})
	}

	done, _ := f.reminders.Create(ctx, f.pet.ID, "owner-1", reminders.CreateInput{Title: "Old pill", Date: day(5)})
	_, _ = f.reminders.Complete(ctx, f.pet.ID, done.ID)
	_, _ = f.reminders.Create(ctx, f.pet.ID, "owner-1", reminders.CreateInput{Title: "Booster", Type: "vaccine", Date: day(28)})

	link, _ := f.mgr.Create(ctx, sharelinks.CreateInput{PetID: f.pet.ID, OwnerID: "owner-1"})
	proj, err := f.gw.Resolve(ctx, link.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(proj.Vaccinations) != 1 || proj.Vaccinations[0].VaccineName != "Rabies" || proj.Vaccinations[0].NextDueDate == nil {
		t.Fatalf("unexpected vaccinations: %#v", proj.Vaccinations)
	}
	if len(proj.HealthRecords) != 10 {
		t.Fatalf("expected 10 recent records, got %d", len(proj.HealthRecords))
	}
	for _, r := range proj.HealthRecords {
		if r.Title == "typo" {
			t.Fatalf("voided record leaked into projection")
		}
	}
	if !proj.HealthRecords[0].Date.Equal(day(15)) {
		t.Fatalf("expected most recent record first, got %v", proj.HealthRecords[0].Date)
	}
	if len(proj.Reminders) != 1 || proj.Reminders[0].Title != "Booster" || proj.Reminders[0].Completed {
		t.Fatalf("unexpected reminders: %#v", proj.Reminders)
	}
	if proj.Owner.FirstName != "Ana" || proj.Owner.LastName != "Ruiz" || proj.Owner.Location != "Lima" {
		t.Fatalf("unexpected owner: %#v", proj.Owner)
	}
	if proj.Pet.Type != "cat" || proj.Pet.MicrochipID != "985-1" || proj.Pet.Emoji == "" {
		t.Fatalf("unexpected pet summary: %#v", proj.Pet)
	}
}
