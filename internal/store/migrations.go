package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "emotional_states: per-character emotion vector",
		SQL: `
CREATE TABLE emotional_states (
    character_id  TEXT PRIMARY KEY,

    love          REAL NOT NULL DEFAULT 0,
    happiness     REAL NOT NULL DEFAULT 0,
    excitement    REAL NOT NULL DEFAULT 0,
    contentment   REAL NOT NULL DEFAULT 0,
    trust         REAL NOT NULL DEFAULT 0,
    calmness      REAL NOT NULL DEFAULT 0,
    energy        REAL NOT NULL DEFAULT 0,
    nostalgia     REAL NOT NULL DEFAULT 0,
    longing       REAL NOT NULL DEFAULT 0,
    curiosity     REAL NOT NULL DEFAULT 0,
    shyness       REAL NOT NULL DEFAULT 0,
    embarrassment REAL NOT NULL DEFAULT 0,
    jealousy      REAL NOT NULL DEFAULT 0,
    sadness       REAL NOT NULL DEFAULT 0,
    loneliness    REAL NOT NULL DEFAULT 0,
    anger         REAL NOT NULL DEFAULT 0,
    fear          REAL NOT NULL DEFAULT 0,
    worry         REAL NOT NULL DEFAULT 0,
    frustration   REAL NOT NULL DEFAULT 0,
    boredom       REAL NOT NULL DEFAULT 0,

    updated_at    INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "moods: current mood + bounded history per character",
		SQL: `
CREATE TABLE moods (
    character_id     TEXT PRIMARY KEY,
    mood             TEXT NOT NULL,
    intensity        REAL NOT NULL DEFAULT 0,
    trigger_emotion  TEXT,
    since            INTEGER NOT NULL
);

CREATE TABLE mood_history (
    id           INTEGER PRIMARY KEY,
    character_id TEXT NOT NULL,
    mood         TEXT NOT NULL,
    intensity    REAL NOT NULL,
    trigger_emotion TEXT,
    at           INTEGER NOT NULL
);

CREATE INDEX idx_mood_history_char ON mood_history(character_id, at DESC);
`,
	},
	{
		Version:     3,
		Description: "memories: episodic log with recall and fade",
		SQL: `
CREATE TABLE memories (
    id               TEXT PRIMARY KEY,
    character_id     TEXT NOT NULL,
    type             TEXT NOT NULL CHECK (type IN ('conversation', 'gift', 'activity', 'date', 'confession', 'conflict', 'milestone')),
    title            TEXT NOT NULL,
    description      TEXT,
    location         TEXT,
    time_of_day      TEXT,
    created_at       INTEGER NOT NULL,

    emotional_weight REAL NOT NULL DEFAULT 0,
    tags             TEXT,
    participants     TEXT,
    context          TEXT,

    -- Consequences applied at creation, kept for the record
    affection_delta  REAL NOT NULL DEFAULT 0,
    trust_delta      REAL NOT NULL DEFAULT 0,
    emotion_delta    TEXT,
    flags            TEXT,

    -- Recall / fade dynamics
    recall_count     INTEGER NOT NULL DEFAULT 1,
    last_recalled_at INTEGER NOT NULL,
    fade_level       REAL NOT NULL DEFAULT 100
);

CREATE INDEX idx_memories_char_created ON memories(character_id, created_at DESC);
CREATE INDEX idx_memories_char_weight  ON memories(character_id, ABS(emotional_weight) DESC);
`,
	},
	{
		Version:     4,
		Description: "affection, flags, wallet, player stats, interactions",
		SQL: `
CREATE TABLE affection (
    character_id TEXT PRIMARY KEY,
    value        REAL NOT NULL DEFAULT 0,
    updated_at   INTEGER NOT NULL
);

CREATE TABLE flags (
    character_id TEXT NOT NULL,
    flag         TEXT NOT NULL,
    set_at       INTEGER NOT NULL,
    PRIMARY KEY (character_id, flag)
);

CREATE TABLE wallet (
    id      TEXT PRIMARY KEY,
    balance INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE player_stats (
    stat  TEXT PRIMARY KEY,
    value REAL NOT NULL DEFAULT 50
);

CREATE TABLE interactions (
    character_id TEXT PRIMARY KEY,
    last_at      INTEGER NOT NULL
);
`,
	},
	{
		Version:     5,
		Description: "date_plans: composed dates with stochastic results",
		SQL: `
CREATE TABLE date_plans (
    id             TEXT PRIMARY KEY,
    character_id   TEXT NOT NULL,
    location_id    TEXT NOT NULL,
    activity_ids   TEXT NOT NULL,
    total_duration INTEGER NOT NULL DEFAULT 0,
    total_cost     INTEGER NOT NULL DEFAULT 0,
    status         TEXT NOT NULL DEFAULT 'planned' CHECK (status IN ('planned', 'in_progress', 'completed', 'cancelled')),
    reason         TEXT,
    results        TEXT,
    created_at     INTEGER NOT NULL
);

CREATE INDEX idx_date_plans_char ON date_plans(character_id, created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
