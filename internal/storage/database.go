package storage

import (
	"database/sql"
	"fmt"

	"github.com/pairdeck/pairdeck/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveSnapshot replaces the stored deck state with the given snapshot.
// The rewrite happens in a single transaction, so a crash mid-save never
// leaves a half-written deck behind.
func (db *DB) SaveSnapshot(snap domain.Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pairs`); err != nil {
		return fmt.Errorf("failed to clear pairs: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pairs (id, key, value, state, suspended, strength, interval_units,
			due_at, last_reviewed_at, consecutive_correct, consecutive_incorrect)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pair insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range snap.Pairs {
		var lastReviewed sql.NullInt64
		if p.LastReviewedAt != nil {
			lastReviewed = sql.NullInt64{Int64: *p.LastReviewedAt, Valid: true}
		}
		if _, err := stmt.Exec(
			p.ID,
			p.Key,
			p.Value,
			p.State.String(),
			p.Suspended,
			p.Strength,
			p.IntervalUnits,
			p.DueAt,
			lastReviewed,
			p.ConsecutiveCorrect,
			p.ConsecutiveIncorrect,
		); err != nil {
			return fmt.Errorf("failed to insert pair %d: %w", p.ID, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO deck (id, current_tick, next_id) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET current_tick = excluded.current_tick, next_id = excluded.next_id
	`, snap.CurrentTick, snap.NextID); err != nil {
		return fmt.Errorf("failed to upsert deck row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored deck state. The second return value is
// false when no deck has been saved yet.
func (db *DB) LoadSnapshot() (domain.Snapshot, bool, error) {
	var snap domain.Snapshot

	row := db.conn.QueryRow(`SELECT current_tick, next_id FROM deck WHERE id = 1`)
	err := row.Scan(&snap.CurrentTick, &snap.NextID)
	if err == sql.ErrNoRows {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to read deck row: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, key, value, state, suspended, strength, interval_units,
			due_at, last_reviewed_at, consecutive_correct, consecutive_incorrect
		FROM pairs ORDER BY id
	`)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Pair
		var stateName string
		var lastReviewed sql.NullInt64
		if err := rows.Scan(
			&p.ID,
			&p.Key,
			&p.Value,
			&stateName,
			&p.Suspended,
			&p.Strength,
			&p.IntervalUnits,
			&p.DueAt,
			&lastReviewed,
			&p.ConsecutiveCorrect,
			&p.ConsecutiveIncorrect,
		); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("failed to scan pair row: %w", err)
		}
		if err := p.State.UnmarshalText([]byte(stateName)); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("failed to decode state for pair %d: %w", p.ID, err)
		}
		if lastReviewed.Valid {
			v := lastReviewed.Int64
			p.LastReviewedAt = &v
		}
		snap.Pairs = append(snap.Pairs, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("failed to iterate pair rows: %w", err)
	}

	return snap, true, nil
}
