package store

import (
	"database/sql"
	"fmt"
)

// MoodHistoryLimit bounds the per-character mood history ring.
const MoodHistoryLimit = 10

// MoodState is a character's committed mood.
type MoodState struct {
	CharacterID string  `json:"character_id"`
	Mood        string  `json:"mood"`
	Intensity   float64 `json:"intensity"`
	Trigger     string  `json:"trigger"`
	Since       int64   `json:"since"`
}

// MoodEntry is a historical mood committed before a transition.
type MoodEntry struct {
	Mood      string  `json:"mood"`
	Intensity float64 `json:"intensity"`
	Trigger   string  `json:"trigger"`
	At        int64   `json:"at"`
}

// GetMood returns the current mood for a character, or nil if none committed.
func (db *DB) GetMood(characterID string) (*MoodState, error) {
	var m MoodState
	var trigger sql.NullString
	err := db.QueryRow(`
		SELECT character_id, mood, intensity, trigger_emotion, since
		FROM moods WHERE character_id = ?
	`, characterID).Scan(&m.CharacterID, &m.Mood, &m.Intensity, &trigger, &m.Since)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mood: %w", err)
	}
	m.Trigger = trigger.String
	return &m, nil
}

// SetMood inserts or replaces the current mood for a character.
func (db *DB) SetMood(m *MoodState) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO moods (character_id, mood, intensity, trigger_emotion, since)
		VALUES (?, ?, ?, ?, ?)
	`, m.CharacterID, m.Mood, m.Intensity, m.Trigger, m.Since)
	if err != nil {
		return fmt.Errorf("set mood: %w", err)
	}
	return nil
}

// AppendMoodHistory pushes an entry onto the history ring and evicts the
// oldest entries beyond MoodHistoryLimit.
func (db *DB) AppendMoodHistory(characterID string, e MoodEntry) error {
	_, err := db.Exec(`
		INSERT INTO mood_history (character_id, mood, intensity, trigger_emotion, at)
		VALUES (?, ?, ?, ?, ?)
	`, characterID, e.Mood, e.Intensity, e.Trigger, e.At)
	if err != nil {
		return fmt.Errorf("append mood history: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM mood_history WHERE character_id = ? AND id NOT IN (
			SELECT id FROM mood_history WHERE character_id = ?
			ORDER BY at DESC, id DESC LIMIT ?
		)
	`, characterID, characterID, MoodHistoryLimit)
	if err != nil {
		return fmt.Errorf("trim mood history: %w", err)
	}
	return nil
}

// GetMoodHistory returns the history ring, newest first.
func (db *DB) GetMoodHistory(characterID string) ([]MoodEntry, error) {
	rows, err := db.Query(`
		SELECT mood, intensity, trigger_emotion, at FROM mood_history
		WHERE character_id = ? ORDER BY at DESC, id DESC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("get mood history: %w", err)
	}
	defer rows.Close()

	var entries []MoodEntry
	for rows.Next() {
		var e MoodEntry
		var trigger sql.NullString
		if err := rows.Scan(&e.Mood, &e.Intensity, &trigger, &e.At); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		e.Trigger = trigger.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
