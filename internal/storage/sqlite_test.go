package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func replay(variant string, score int, outcome Outcome) ReplayRecord {
	return ReplayRecord{
		Variant:   variant,
		BoardSize: 4,
		Seed:      42,
		Moves:     "LURD",
		Score:     score,
		MaxTile:   score / 2,
		Outcome:   outcome,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	in := replay("2048", 1200, OutcomeOver)
	in.Player = "alice"

	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated replay id %q is not a UUID: %v", id, err)
	}

	got, err := store.ReplayByID(id)
	if err != nil {
		t.Fatalf("ReplayByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("ReplayByID() returned nil for a saved replay")
	}

	if got.Variant != "2048" || got.BoardSize != 4 || got.Seed != 42 || got.Moves != "LURD" {
		t.Errorf("replay header = %+v", got)
	}
	if got.Score != 1200 || got.MaxTile != 600 || got.Outcome != OutcomeOver || got.Player != "alice" {
		t.Errorf("replay summary = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestStoreKeepsGivenReplayID(t *testing.T) {
	store := openTestStore(t)

	in := replay("2048", 10, OutcomeAbandoned)
	in.ReplayID = "fixed-id"

	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("SaveReplay() id = %q, want fixed-id", id)
	}

	if _, err := store.SaveReplay(in); err == nil {
		t.Error("duplicate replay id accepted")
	}
}

func TestStoreReplayByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.ReplayByID("nope")
	if err != nil {
		t.Fatalf("ReplayByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("ReplayByID() = %+v, want nil", got)
	}
}

func TestStoreRejectsInvalidReplay(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name string
		rec  ReplayRecord
	}{
		{"missing variant", ReplayRecord{BoardSize: 4, Outcome: OutcomeOver}},
		{"zero size", ReplayRecord{Variant: "2048", Outcome: OutcomeOver}},
		{"bad outcome", ReplayRecord{Variant: "2048", BoardSize: 4, Outcome: "paused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SaveReplay(tt.rec); !errors.Is(err, ErrInvalidReplay) {
				t.Errorf("SaveReplay() err = %v, want ErrInvalidReplay", err)
			}
		})
	}
}

func TestStoreRecentReplaysLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if _, err := store.SaveReplay(replay("2048", (i+1)*100, OutcomeOver)); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	records, err := store.RecentReplays(3)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 replays with limit, got %d", len(records))
	}

	// Newest first
	if records[0].Score != 500 || records[1].Score != 400 || records[2].Score != 300 {
		t.Errorf("Replays not in expected order: %+v", records)
	}
}

func TestStorePlayerReplays(t *testing.T) {
	store := openTestStore(t)

	for _, player := range []string{"alice", "bob", "alice"} {
		r := replay("2048", 100, OutcomeOver)
		r.Player = player
		if _, err := store.SaveReplay(r); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	records, err := store.PlayerReplays("alice", 10)
	if err != nil {
		t.Fatalf("PlayerReplays() failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 replays for alice, got %d", len(records))
	}
	for _, r := range records {
		if r.Player != "alice" {
			t.Errorf("PlayerReplays(alice) returned %q", r.Player)
		}
	}
}

func TestStoreClearReplays(t *testing.T) {
	store := openTestStore(t)

	store.SaveReplay(replay("2048", 100, OutcomeOver))
	store.SaveReplay(replay("2048", 200, OutcomeOver))
	store.SaveReplay(replay("2048_5x5", 300, OutcomeOver))

	if err := store.ClearReplays("2048"); err != nil {
		t.Fatalf("ClearReplays() failed: %v", err)
	}

	records, _ := store.RecentReplays(10)
	if len(records) != 1 || records[0].Variant != "2048_5x5" {
		t.Errorf("Expected only the 5x5 replay to remain, got %+v", records)
	}

	if err := store.ClearReplays(""); err != nil {
		t.Fatalf("ClearReplays(all) failed: %v", err)
	}
	records, _ = store.RecentReplays(10)
	if len(records) != 0 {
		t.Errorf("Expected empty journal, got %d replays", len(records))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveReplay(replay("2048", 100, OutcomeOver))
	store.SaveReplay(replay("2048", 4096, OutcomeWon))
	store.SaveReplay(replay("2048_3x3", 50, OutcomeAbandoned))

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}

	classic := stats["2048"]
	if classic == nil {
		t.Fatal("no stats for 2048")
	}
	if classic.GamesCount != 2 || classic.Wins != 1 || classic.BestScore != 4096 || classic.BestTile != 2048 {
		t.Errorf("2048 stats = %+v", classic)
	}
	if stats["2048_3x3"] == nil || stats["2048_3x3"].GamesCount != 1 {
		t.Errorf("2048_3x3 stats = %+v", stats["2048_3x3"])
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
