package sharelinks

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-health-core/internal/platform/storeerr"
)

type testRepo struct {
	byID   map[string]ShareLink
	tokens map[string]bool
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]ShareLink{}, tokens: map[string]bool{}}
}

func (r *testRepo) Create(_ context.Context, l ShareLink) error {
	if r.tokens[l.Token] {
		return storeerr.ErrConflict
	}
	r.tokens[l.Token] = true
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (ShareLink, error) {
	l, ok := r.byID[id]
	if !ok {
		return ShareLink{}, storeerr.ErrNotFound
	}
	return l, nil
}

func (r *testRepo) GetByToken(_ context.Context, token string) (ShareLink, error) {
	for _, l := range r.byID {
		if l.Token == token {
			return l, nil
		}
	}
	return ShareLink{}, storeerr.ErrNotFound
}

func (r *testRepo) ListByPet(_ context.Context, petID string) ([]ShareLink, error) {
	out := make([]ShareLink, 0)
	for _, l := range r.byID {
		if l.PetID == petID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	l, ok := r.byID[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	l.IsActive = active
	l.UpdatedAt = at
	r.byID[id] = l
	return nil
}

func (r *testRepo) IncrementAccess(_ context.Context, id string, now time.Time) (int64, error) {
	l, ok := r.byID[id]
	if !ok || !l.Usable(now) {
		return 0, storeerr.ErrNotFound
	}
	l.AccessCount++
	r.byID[id] = l
	return l.AccessCount, nil
}

type petOwners map[string]string

func (o petOwners) OwnerOf(_ context.Context, petID string) (string, error) {
	if v, ok := o[petID]; ok {
		return v, nil
	}
	return "", errors.New("pet not found")
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	return NewService(repo, petOwners{"pet-1": "owner-1", "pet-2": "owner-2"}, nil), repo
}

func TestNewToken_UnguessableAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil || len(raw) != tokenBytes {
			t.Fatalf("token %q must be %d url-safe bytes", tok, tokenBytes)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	l, err := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !l.IsActive || l.AccessCount != 0 || l.Token == "" || l.ExpiresAt != nil {
		t.Fatalf("unexpected new link: %#v", l)
	}

	if _, err := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-2"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1", TTL: -time.Hour}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative ttl, got %v", err)
	}

	withTTL, _ := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1", TTL: 48 * time.Hour})
	if withTTL.ExpiresAt == nil || !withTTL.ExpiresAt.Equal(withTTL.CreatedAt.Add(48*time.Hour)) {
		t.Fatalf("unexpected expiry: %#v", withTTL.ExpiresAt)
	}
}

func TestService_Create_RegeneratesOnCollision(t *testing.T) {
	svc, repo := newTestService()
	repo.tokens["taken"] = true

	calls := 0
	svc.newToken = func() (string, error) {
		calls++
		if calls < 3 {
			return "taken", nil
		}
		return "fresh", nil
	}

	l, err := svc.Create(context.Background(), CreateInput{PetID: "pet-1", OwnerID: "owner-1"})
	if err != nil || l.Token != "fresh" || calls != 3 {
		t.Fatalf("expected fresh token on third attempt, got %q after %d calls, err=%v", l.Token, calls, err)
	}

	svc.newToken = func() (string, error) { return "taken", nil }
	if _, err := svc.Create(context.Background(), CreateInput{PetID: "pet-1", OwnerID: "owner-1"}); !errors.Is(err, ErrTokenExhausted) {
		t.Fatalf("expected ErrTokenExhausted, got %v", err)
	}
}

func TestService_RevokeReactivate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	l, _ := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1"})

	if _, err := svc.Revoke(ctx, l.ID, "pet-1", "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other owner, got %v", err)
	}
	if _, err := svc.Revoke(ctx, l.ID, "pet-2", "owner-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other pet, got %v", err)
	}
	if _, err := svc.Revoke(ctx, "missing", "pet-1", "owner-1"); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Revoke(ctx, l.ID, "pet-1", "owner-1")
		if err != nil || got.IsActive || got.State() != StateInactive {
			t.Fatalf("revoke #%d: %#v, %v", i+1, got, err)
		}
	}
	for i := 0; i < 2; i++ {
		got, err := svc.Reactivate(ctx, l.ID, "pet-1", "owner-1")
		if err != nil || !got.IsActive || got.Token != l.Token {
			t.Fatalf("reactivate #%d: %#v, %v", i+1, got, err)
		}
	}
}

func TestService_ListActive_NewestFirstIncludingInactive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tick := 0
	svc.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first, _ := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1"})
	second, _ := svc.Create(ctx, CreateInput{PetID: "pet-1", OwnerID: "owner-1"})
	_, _ = svc.Revoke(ctx, first.ID, "pet-1", "owner-1")

	items, err := svc.ListActive(ctx, "pet-1", "owner-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID || items[1].IsActive {
		t.Fatalf("unexpected list: %#v", items)
	}

	if _, err := svc.ListActive(ctx, "pet-1", "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
