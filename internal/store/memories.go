package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Memory is a single episodic record. Memories are never deleted; they only
// fade. FadeLevel stays within [MemoryFadeFloor, 100].
type Memory struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	TimeOfDay   string `json:"time_of_day,omitempty"`
	CreatedAt   int64  `json:"created_at"`

	EmotionalWeight float64           `json:"emotional_weight"`
	Tags            []string          `json:"tags,omitempty"`
	Participants    []string          `json:"participants,omitempty"`
	Context         map[string]string `json:"context,omitempty"`

	AffectionDelta float64            `json:"affection_delta"`
	TrustDelta     float64            `json:"trust_delta"`
	EmotionDelta   map[string]float64 `json:"emotion_delta,omitempty"`
	Flags          []string           `json:"flags,omitempty"`

	RecallCount    int     `json:"recall_count"`
	LastRecalledAt int64   `json:"last_recalled_at"`
	FadeLevel      float64 `json:"fade_level"`
}

// MemoryFadeFloor is the minimum fade level; memories never fully vanish.
const MemoryFadeFloor = 10.0

// MemoryTypes is the closed set of episodic record types.
var MemoryTypes = []string{
	"conversation", "gift", "activity", "date", "confession", "conflict", "milestone",
}

const memoryColumns = `id, character_id, type, title, description, location, time_of_day,
	created_at, emotional_weight, tags, participants, context,
	affection_delta, trust_delta, emotion_delta, flags,
	recall_count, last_recalled_at, fade_level`

func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// InsertMemory appends a memory to the log. Derived fields (id, timestamps,
// recall count, fade level) must already be set by the caller.
func (db *DB) InsertMemory(m *Memory) error {
	_, err := db.Exec(`
		INSERT INTO memories (`+memoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.CharacterID, m.Type, m.Title, m.Description, m.Location, m.TimeOfDay,
		m.CreatedAt, m.EmotionalWeight, marshalJSON(m.Tags), marshalJSON(m.Participants), marshalJSON(m.Context),
		m.AffectionDelta, m.TrustDelta, marshalJSON(m.EmotionDelta), marshalJSON(m.Flags),
		m.RecallCount, m.LastRecalledAt, m.FadeLevel)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// GetMemory returns a memory by id, or nil if not found.
func (db *DB) GetMemory(id string) (*Memory, error) {
	row := db.QueryRow(`SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// RecentMemories returns the n newest memories for a character.
func (db *DB) RecentMemories(characterID string, n int) ([]Memory, error) {
	rows, err := db.Query(`
		SELECT `+memoryColumns+` FROM memories
		WHERE character_id = ? ORDER BY created_at DESC, id DESC LIMIT ?
	`, characterID, n)
	if err != nil {
		return nil, fmt.Errorf("recent memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// StrongestMemories returns the n memories with the greatest absolute
// emotional weight for a character.
func (db *DB) StrongestMemories(characterID string, n int) ([]Memory, error) {
	rows, err := db.Query(`
		SELECT `+memoryColumns+` FROM memories
		WHERE character_id = ? ORDER BY ABS(emotional_weight) DESC, created_at DESC LIMIT ?
	`, characterID, n)
	if err != nil {
		return nil, fmt.Errorf("strongest memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// ListMemories returns the full log for a character, oldest first.
func (db *DB) ListMemories(characterID string) ([]Memory, error) {
	rows, err := db.Query(`
		SELECT `+memoryColumns+` FROM memories
		WHERE character_id = ? ORDER BY created_at ASC, id ASC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// TouchMemory records a recall: increments the count, moves last_recalled_at
// forward, and raises the fade level (capped at 100).
func (db *DB) TouchMemory(id string, at int64, fadeBoost float64) error {
	_, err := db.Exec(`
		UPDATE memories SET
			recall_count = recall_count + 1,
			last_recalled_at = MAX(last_recalled_at, ?),
			fade_level = MIN(100, fade_level + ?)
		WHERE id = ?
	`, at, fadeBoost, id)
	if err != nil {
		return fmt.Errorf("touch memory: %w", err)
	}
	return nil
}

// DecayMemories reduces fade level by 2 points per whole day since last
// recall, floored at MemoryFadeFloor. Returns the number of memories updated.
// Intended for a coarse cadence (once per in-game day), never per action.
func (db *DB) DecayMemories(characterID string, now int64) (int, error) {
	rows, err := db.Query(`
		SELECT id, fade_level, last_recalled_at FROM memories WHERE character_id = ?
	`, characterID)
	if err != nil {
		return 0, fmt.Errorf("query decayable memories: %w", err)
	}
	defer rows.Close()

	type target struct {
		id           string
		fade         float64
		lastRecalled int64
	}
	var targets []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.fade, &t.lastRecalled); err != nil {
			return 0, fmt.Errorf("scan decay target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	const dayMs = 24 * 60 * 60 * 1000
	updated := 0
	for _, t := range targets {
		days := (now - t.lastRecalled) / dayMs
		if days <= 0 {
			continue
		}
		newFade := t.fade - 2*float64(days)
		if newFade < MemoryFadeFloor {
			newFade = MemoryFadeFloor
		}
		if newFade >= t.fade {
			continue // fade only decreases via decay
		}
		if _, err := db.Exec(`UPDATE memories SET fade_level = ? WHERE id = ?`, newFade, t.id); err != nil {
			return updated, fmt.Errorf("update fade: %w", err)
		}
		updated++
	}
	return updated, nil
}

// MemoryCharacters returns the ids of all characters with at least one memory.
func (db *DB) MemoryCharacters() ([]string, error) {
	rows, err := db.Query("SELECT DISTINCT character_id FROM memories ORDER BY character_id")
	if err != nil {
		return nil, fmt.Errorf("memory characters: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan character id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (*Memory, error) {
	var m Memory
	var description, location, timeOfDay sql.NullString
	var tags, participants, context, emotionDelta, flags sql.NullString
	err := row.Scan(&m.ID, &m.CharacterID, &m.Type, &m.Title, &description, &location, &timeOfDay,
		&m.CreatedAt, &m.EmotionalWeight, &tags, &participants, &context,
		&m.AffectionDelta, &m.TrustDelta, &emotionDelta, &flags,
		&m.RecallCount, &m.LastRecalledAt, &m.FadeLevel)
	if err != nil {
		return nil, err
	}
	m.Description = description.String
	m.Location = location.String
	m.TimeOfDay = timeOfDay.String
	unmarshalJSON(tags.String, &m.Tags)
	unmarshalJSON(participants.String, &m.Participants)
	unmarshalJSON(context.String, &m.Context)
	unmarshalJSON(emotionDelta.String, &m.EmotionDelta)
	unmarshalJSON(flags.String, &m.Flags)
	return &m, nil
}

func unmarshalJSON(s string, v any) {
	if s == "" {
		return
	}
	json.Unmarshal([]byte(s), v)
}

func scanMemories(rows *sql.Rows) ([]Memory, error) {
	var memories []Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, *m)
	}
	return memories, rows.Err()
}
