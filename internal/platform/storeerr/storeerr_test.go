package storeerr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTransient_WrapsAndDetects(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transient(cause)

	if !IsTransient(err) {
		t.Fatalf("expected transient, got %v", err)
	}
	if Transient(err) != err {
		t.Fatalf("wrapping twice should be a no-op")
	}
	if Transient(nil) != nil {
		t.Fatalf("Transient(nil) must be nil")
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(fmt.Errorf("query: %w", context.DeadlineExceeded)) {
		t.Fatalf("deadline exceeded should be transient")
	}
	if IsTransient(ErrNotFound) || IsTransient(nil) {
		t.Fatalf("not found / nil are not transient")
	}
}
