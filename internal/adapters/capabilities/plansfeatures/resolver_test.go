package plansfeatures

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-health-core/internal/platform/storeerr"
)

func newPlansServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("user_id") {
		case "premium-user":
			_, _ = w.Write([]byte(`{"capabilities":{"premium":true}}`))
		case "broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"capabilities":{}}`))
		}
	}))
}

func TestResolver_IsPremium(t *testing.T) {
	srv := newPlansServer(t)
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	r := NewResolver(c, false)

	ok, err := r.IsPremium(context.Background(), "premium-user")
	if err != nil || !ok {
		t.Fatalf("expected premium, got ok=%v err=%v", ok, err)
	}

	ok, err = r.IsPremium(context.Background(), "free-user")
	if err != nil || ok {
		t.Fatalf("expected not premium, got ok=%v err=%v", ok, err)
	}

	if _, err := r.IsPremium(context.Background(), "broken"); !errors.Is(err, ErrPlansUpstream) {
		t.Fatalf("expected ErrPlansUpstream, got %v", err)
	}
}

func TestResolver_Unauthorized(t *testing.T) {
	srv := newPlansServer(t)
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"})
	if _, err := NewResolver(c, false).IsPremium(context.Background(), "premium-user"); !errors.Is(err, ErrPlansUnauthorized) {
		t.Fatalf("expected ErrPlansUnauthorized, got %v", err)
	}
}

func TestResolver_AllowAllAndNotConfigured(t *testing.T) {
	c, _ := NewClient(Config{})

	ok, err := NewResolver(c, true).IsPremium(context.Background(), "anyone")
	if err != nil || !ok {
		t.Fatalf("allowAll should grant premium, got ok=%v err=%v", ok, err)
	}

	if _, err := NewResolver(c, false).IsPremium(context.Background(), "anyone"); !errors.Is(err, ErrPlansNotConfigured) {
		t.Fatalf("expected ErrPlansNotConfigured, got %v", err)
	}
}

func TestResolver_UpstreamOutageIsTransient(t *testing.T) {
	srv := newPlansServer(t)
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	_, err := NewResolver(c, false).IsPremium(context.Background(), "broken")
	if !storeerr.IsTransient(err) || !errors.Is(err, ErrPlansUpstream) {
		t.Fatalf("expected transient ErrPlansUpstream, got %v", err)
	}
}
