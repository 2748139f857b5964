package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pairdeck/pairdeck/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pairdeck.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadSnapshotEmpty(t *testing.T) {
	db := openTestDB(t)

	_, found, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if found {
		t.Error("Expected no snapshot in a fresh database")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	reviewedAt := int64(3)
	snap := domain.Snapshot{
		Pairs: []domain.Pair{
			{
				ID: 1, Key: "hund", Value: "dog",
				State:              domain.Review,
				Strength:           4,
				IntervalUnits:      8,
				DueAt:              11,
				LastReviewedAt:     &reviewedAt,
				ConsecutiveCorrect: 2,
			},
			{
				ID: 2, Key: "katze", Value: "cat",
				State:     domain.New,
				Suspended: true,
				DueAt:     0,
			},
			{
				ID: 3, Key: "maus", Value: "mouse",
				State:                domain.Learning,
				IntervalUnits:        1,
				DueAt:                5,
				ConsecutiveIncorrect: 1,
			},
		},
		CurrentTick: 4,
		NextID:      7,
	}

	if err := db.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, found, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a snapshot after saving")
	}
	if !reflect.DeepEqual(snap, loaded) {
		t.Errorf("Snapshot round-trip mismatch:\n got %+v\nwant %+v", loaded, snap)
	}
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	db := openTestDB(t)

	first := domain.Snapshot{
		Pairs: []domain.Pair{
			{ID: 1, Key: "a", Value: "1", State: domain.New},
			{ID: 2, Key: "b", Value: "2", State: domain.New},
		},
		CurrentTick: 0,
		NextID:      3,
	}
	if err := db.SaveSnapshot(first); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	second := domain.Snapshot{
		Pairs: []domain.Pair{
			{ID: 2, Key: "b", Value: "2", State: domain.Learning, IntervalUnits: 1, DueAt: 2},
		},
		CurrentTick: 1,
		NextID:      3,
	}
	if err := db.SaveSnapshot(second); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, found, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a snapshot after saving")
	}
	if !reflect.DeepEqual(second, loaded) {
		t.Errorf("Expected the second snapshot to fully replace the first:\n got %+v\nwant %+v", loaded, second)
	}
}
