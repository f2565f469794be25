// Package storage provides SQLite-based persistence for finished boards.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome is how a recorded game ended.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeOver      Outcome = "over"
	OutcomeAbandoned Outcome = "abandoned"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWon, OutcomeOver, OutcomeAbandoned:
		return true
	}
	return false
}

// ErrInvalidReplay is returned when a replay is missing required fields.
var ErrInvalidReplay = errors.New("storage: invalid replay")

// Store manages the SQLite database connection for the replay journal.
type Store struct {
	db *sql.DB
}

// ReplayRecord is one journaled game: enough to re-derive the final board
// from the seed and move log, plus summary columns for listing.
type ReplayRecord struct {
	ID        int64
	ReplayID  string
	Variant   string
	BoardSize int
	Seed      int64
	Moves     string
	Score     int
	MaxTile   int
	Outcome   Outcome
	Player    string
	CreatedAt time.Time
}

// VariantStats contains aggregated statistics for one board variant.
type VariantStats struct {
	Variant    string
	GamesCount int
	Wins       int
	BestScore  int
	BestTile   int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			replay_id TEXT NOT NULL UNIQUE,
			variant TEXT NOT NULL,
			board_size INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			moves TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			max_tile INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_variant ON replays(variant);
		CREATE INDEX IF NOT EXISTS idx_replays_player ON replays(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay journals a game. A missing ReplayID is filled with a new UUID.
// Returns the stored replay id.
func (s *Store) SaveReplay(r ReplayRecord) (string, error) {
	if r.Variant == "" || r.BoardSize <= 0 || !r.Outcome.Valid() {
		return "", fmt.Errorf("%w: variant=%q size=%d outcome=%q", ErrInvalidReplay, r.Variant, r.BoardSize, r.Outcome)
	}
	if r.ReplayID == "" {
		r.ReplayID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO replays
		 (replay_id, variant, board_size, seed, moves, score, max_tile, outcome, player)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ReplayID,
		r.Variant,
		r.BoardSize,
		r.Seed,
		r.Moves,
		r.Score,
		r.MaxTile,
		string(r.Outcome),
		r.Player,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save replay: %w", err)
	}

	return r.ReplayID, nil
}

const replayColumns = `id, replay_id, variant, board_size, seed, moves, score, max_tile, outcome, player, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReplay(row rowScanner) (ReplayRecord, error) {
	var r ReplayRecord
	var outcome string
	var createdAt any

	if err := row.Scan(
		&r.ID,
		&r.ReplayID,
		&r.Variant,
		&r.BoardSize,
		&r.Seed,
		&r.Moves,
		&r.Score,
		&r.MaxTile,
		&outcome,
		&r.Player,
		&createdAt,
	); err != nil {
		return r, err
	}

	r.Outcome = Outcome(outcome)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ReplayByID retrieves a replay by its replay id.
// Returns nil, nil when no such replay exists.
func (s *Store) ReplayByID(replayID string) (*ReplayRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+replayColumns+` FROM replays WHERE replay_id = ?`,
		replayID,
	)

	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	return &r, nil
}

// RecentReplays retrieves the most recent replays, newest first.
func (s *Store) RecentReplays(limit int) ([]ReplayRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+replayColumns+`
		 FROM replays
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	return collect(rows)
}

// PlayerReplays retrieves the replays of one player, newest first.
func (s *Store) PlayerReplays(player string, limit int) ([]ReplayRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+replayColumns+`
		 FROM replays
		 WHERE player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player replays: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]ReplayRecord, error) {
	defer rows.Close()

	var records []ReplayRecord
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearReplays deletes all replays for the given variant.
// An empty variant clears the whole journal.
func (s *Store) ClearReplays(variant string) error {
	var err error
	if variant == "" {
		_, err = s.db.Exec("DELETE FROM replays")
	} else {
		_, err = s.db.Exec("DELETE FROM replays WHERE variant = ?", variant)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear replays: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for every variant that has been played.
func (s *Store) Stats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*),
		        SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END),
		        MAX(score), MAX(max_tile), AVG(score), MAX(created_at)
		 FROM replays
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var vs VariantStats
		var lastPlayed any
		if err := rows.Scan(&vs.Variant, &vs.GamesCount, &vs.Wins, &vs.BestScore, &vs.BestTile, &vs.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		vs.LastPlayed = parseTime(lastPlayed)
		stats[vs.Variant] = &vs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
