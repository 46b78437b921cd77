package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected latest version 1, got %d", v)
	}
}

func TestEmbeddedFilesArePaired(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "files/*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %q", n)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Fatalf("%s has no down migration", base)
		}
	}
	if len(ups) != len(downs) {
		t.Fatalf("up/down count mismatch: %d vs %d", len(ups), len(downs))
	}
}

func TestStatus_UpToDate(t *testing.T) {
	if !(Status{Version: 1, Latest: 1}).UpToDate() {
		t.Fatalf("expected up to date")
	}
	if (Status{Version: 1, Latest: 1, Dirty: true}).UpToDate() || (Status{Latest: 1}).UpToDate() {
		t.Fatalf("dirty or behind must not be up to date")
	}
}
