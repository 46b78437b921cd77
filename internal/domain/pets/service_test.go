package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-health-core/internal/platform/storeerr"
)

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Pet{}} }

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return storeerr.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, storeerr.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestService_Create_DefaultsEmojiAndSex(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: " Milo ", Species: "dog"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Name != "Milo" || p.Emoji != "🐶" || p.Sex != SexUnknown {
		t.Fatalf("unexpected pet: %#v", p)
	}
}

func TestService_Create_RejectsInvalid(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []CreateInput{
		{Name: "", Species: "dog"},
		{Name: "Milo", Species: "dragon"},
		{Name: "Milo", Species: "cat", Sex: "x"},
		{Name: "Milo", Species: "cat", Weight: -1},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), "owner-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %#v, got %v", in, err)
		}
	}
}

func TestService_UpdateProfile_OwnerOnlyAndPatchSemantics(t *testing.T) {
	svc := NewService(newTestRepo())
	bd := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	p, _ := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Milo", Species: "dog", BirthDate: &bd, Breed: "beagle"})

	newName := "Milo II"
	if _, err := svc.UpdateProfile(context.Background(), p.ID, "intruder", UpdateProfileInput{Name: &newName}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{
		Name:      &newName,
		BirthDate: PatchBirthDate{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Name != newName || updated.BirthDate != nil || updated.Breed != "beagle" {
		t.Fatalf("unexpected patch result: %#v", updated)
	}
}

func TestPet_AgeYears(t *testing.T) {
	bd := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	p := Pet{BirthDate: &bd}

	if got := p.AgeYears(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)); got != 3 {
		t.Fatalf("day before birthday: expected 3, got %d", got)
	}
	if got := p.AgeYears(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)); got != 4 {
		t.Fatalf("on birthday: expected 4, got %d", got)
	}
	if got := (Pet{}).AgeYears(time.Now()); got != 0 {
		t.Fatalf("no birth date: expected 0, got %d", got)
	}
}
