package storage

const schema = `
-- The 'pairs' table stores every learning pair together with its
-- scheduling state.
CREATE TABLE IF NOT EXISTS pairs (
    id INTEGER PRIMARY KEY,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    state TEXT NOT NULL,
    suspended INTEGER NOT NULL DEFAULT 0,
    strength INTEGER NOT NULL DEFAULT 0,
    interval_units INTEGER NOT NULL DEFAULT 0,
    due_at INTEGER NOT NULL,
    last_reviewed_at INTEGER,
    consecutive_correct INTEGER NOT NULL DEFAULT 0,
    consecutive_incorrect INTEGER NOT NULL DEFAULT 0
);

-- The 'deck' table holds a single row of deck-level state: the logical
-- clock and the next pair id to assign.
CREATE TABLE IF NOT EXISTS deck (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    current_tick INTEGER NOT NULL,
    next_id INTEGER NOT NULL
);
`
