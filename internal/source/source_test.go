package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pairdeck/pairdeck/internal/deck"
)

func TestIsGit(t *testing.T) {
	testCases := []struct {
		location string
		want     bool
	}{
		{"/srv/decks", false},
		{"./decks", false},
		{"https://example.com/decks.git", true},
		{"https://example.com/decks", true},
		{"git@example.com:user/decks.git", true},
		{"/srv/decks/archive.git", true},
	}
	for _, tc := range testCases {
		if got := IsGit(tc.location); got != tc.want {
			t.Errorf("IsGit(%q) = %v, want %v", tc.location, got, tc.want)
		}
	}
}

func TestReconcileLocalDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "animals.md"), "K: hund\nV: dog\n\nK: katze\nV: cat\n")
	writeFile(t, filepath.Join(dir, "table.json"), `{"version": 1, "data": [["maus", "mouse"]]}`)
	writeFile(t, filepath.Join(dir, "notes.rst"), "not a pair file")

	d := deck.New(nil)
	stats := Reconcile(d, []string{dir}, t.TempDir())

	if stats.Parsed != 3 {
		t.Errorf("Expected 3 parsed entries, got %d", stats.Parsed)
	}
	if stats.Added != 3 {
		t.Errorf("Expected 3 added pairs, got %d", stats.Added)
	}
	if d.Len() != 3 {
		t.Errorf("Expected 3 pairs in the deck, got %d", d.Len())
	}

	t.Run("rerun adds nothing", func(t *testing.T) {
		stats := Reconcile(d, []string{dir}, t.TempDir())
		if stats.Added != 0 {
			t.Errorf("Expected no additions on rerun, got %d", stats.Added)
		}
		if d.Len() != 3 {
			t.Errorf("Expected deck unchanged, got %d pairs", d.Len())
		}
	})

	t.Run("existing progress survives a sync", func(t *testing.T) {
		p, ok := d.NextDue()
		if !ok {
			t.Fatal("Expected a due pair")
		}
		if _, err := d.ReportOutcome(p.ID, true); err != nil {
			t.Fatalf("ReportOutcome failed: %v", err)
		}
		before, _ := d.Pair(p.ID)

		Reconcile(d, []string{dir}, t.TempDir())

		after, err := d.Pair(p.ID)
		if err != nil {
			t.Fatalf("Pair disappeared after sync: %v", err)
		}
		if after.State != before.State || after.DueAt != before.DueAt {
			t.Errorf("Expected progress untouched by sync: before %+v, after %+v", before, after)
		}
	})
}

func TestReconcileMissingDir(t *testing.T) {
	d := deck.New(nil)
	stats := Reconcile(d, []string{filepath.Join(t.TempDir(), "absent")}, t.TempDir())
	if stats.Errors == 0 {
		t.Error("Expected a walk error for a missing directory")
	}
	if d.Len() != 0 {
		t.Errorf("Expected no pairs added, got %d", d.Len())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
