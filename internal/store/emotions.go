package store

import (
	"database/sql"
	"fmt"
	"time"
)

// EmotionAxes lists the 20 emotion axes in canonical order. Every axis is
// clamped to [0,100]; the order doubles as the tie-break for dominant-emotion
// selection so classification is deterministic.
var EmotionAxes = []string{
	"love", "happiness", "excitement", "contentment", "trust",
	"calmness", "energy", "nostalgia", "longing", "curiosity",
	"shyness", "embarrassment", "jealousy", "sadness", "loneliness",
	"anger", "fear", "worry", "frustration", "boredom",
}

// EmotionalState is a character's full emotion vector.
type EmotionalState struct {
	CharacterID string `json:"character_id"`

	Love          float64 `json:"love"`
	Happiness     float64 `json:"happiness"`
	Excitement    float64 `json:"excitement"`
	Contentment   float64 `json:"contentment"`
	Trust         float64 `json:"trust"`
	Calmness      float64 `json:"calmness"`
	Energy        float64 `json:"energy"`
	Nostalgia     float64 `json:"nostalgia"`
	Longing       float64 `json:"longing"`
	Curiosity     float64 `json:"curiosity"`
	Shyness       float64 `json:"shyness"`
	Embarrassment float64 `json:"embarrassment"`
	Jealousy      float64 `json:"jealousy"`
	Sadness       float64 `json:"sadness"`
	Loneliness    float64 `json:"loneliness"`
	Anger         float64 `json:"anger"`
	Fear          float64 `json:"fear"`
	Worry         float64 `json:"worry"`
	Frustration   float64 `json:"frustration"`
	Boredom       float64 `json:"boredom"`

	UpdatedAt int64 `json:"updated_at"`
}

// Axis returns the value of a named axis. Unknown axes read as 0.
func (s *EmotionalState) Axis(name string) float64 {
	switch name {
	case "love":
		return s.Love
	case "happiness":
		return s.Happiness
	case "excitement":
		return s.Excitement
	case "contentment":
		return s.Contentment
	case "trust":
		return s.Trust
	case "calmness":
		return s.Calmness
	case "energy":
		return s.Energy
	case "nostalgia":
		return s.Nostalgia
	case "longing":
		return s.Longing
	case "curiosity":
		return s.Curiosity
	case "shyness":
		return s.Shyness
	case "embarrassment":
		return s.Embarrassment
	case "jealousy":
		return s.Jealousy
	case "sadness":
		return s.Sadness
	case "loneliness":
		return s.Loneliness
	case "anger":
		return s.Anger
	case "fear":
		return s.Fear
	case "worry":
		return s.Worry
	case "frustration":
		return s.Frustration
	case "boredom":
		return s.Boredom
	}
	return 0
}

// SetAxis sets a named axis, clamping to [0,100]. Unknown axes are ignored.
func (s *EmotionalState) SetAxis(name string, v float64) {
	v = ClampScalar(v)
	switch name {
	case "love":
		s.Love = v
	case "happiness":
		s.Happiness = v
	case "excitement":
		s.Excitement = v
	case "contentment":
		s.Contentment = v
	case "trust":
		s.Trust = v
	case "calmness":
		s.Calmness = v
	case "energy":
		s.Energy = v
	case "nostalgia":
		s.Nostalgia = v
	case "longing":
		s.Longing = v
	case "curiosity":
		s.Curiosity = v
	case "shyness":
		s.Shyness = v
	case "embarrassment":
		s.Embarrassment = v
	case "jealousy":
		s.Jealousy = v
	case "sadness":
		s.Sadness = v
	case "loneliness":
		s.Loneliness = v
	case "anger":
		s.Anger = v
	case "fear":
		s.Fear = v
	case "worry":
		s.Worry = v
	case "frustration":
		s.Frustration = v
	case "boredom":
		s.Boredom = v
	}
}

// ClampScalar bounds a value to the [0,100] range used across the engine.
func ClampScalar(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

const emotionColumns = `character_id, love, happiness, excitement, contentment, trust,
	calmness, energy, nostalgia, longing, curiosity,
	shyness, embarrassment, jealousy, sadness, loneliness,
	anger, fear, worry, frustration, boredom, updated_at`

func (s *EmotionalState) scanArgs() []any {
	return []any{&s.CharacterID, &s.Love, &s.Happiness, &s.Excitement, &s.Contentment, &s.Trust,
		&s.Calmness, &s.Energy, &s.Nostalgia, &s.Longing, &s.Curiosity,
		&s.Shyness, &s.Embarrassment, &s.Jealousy, &s.Sadness, &s.Loneliness,
		&s.Anger, &s.Fear, &s.Worry, &s.Frustration, &s.Boredom, &s.UpdatedAt}
}

func (s *EmotionalState) execArgs() []any {
	return []any{s.CharacterID, s.Love, s.Happiness, s.Excitement, s.Contentment, s.Trust,
		s.Calmness, s.Energy, s.Nostalgia, s.Longing, s.Curiosity,
		s.Shyness, s.Embarrassment, s.Jealousy, s.Sadness, s.Loneliness,
		s.Anger, s.Fear, s.Worry, s.Frustration, s.Boredom, s.UpdatedAt}
}

// GetEmotions returns the stored emotion vector for a character, or nil if
// the character has never been seeded.
func (db *DB) GetEmotions(characterID string) (*EmotionalState, error) {
	var s EmotionalState
	err := db.QueryRow(`
		SELECT `+emotionColumns+` FROM emotional_states WHERE character_id = ?
	`, characterID).Scan(s.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get emotions: %w", err)
	}
	return &s, nil
}

// SaveEmotions inserts or replaces a character's emotion vector.
func (db *DB) SaveEmotions(s *EmotionalState) error {
	s.UpdatedAt = time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT OR REPLACE INTO emotional_states (`+emotionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.execArgs()...)
	if err != nil {
		return fmt.Errorf("save emotions: %w", err)
	}
	return nil
}

// EmotionCharacters returns the ids of all characters with a seeded vector.
func (db *DB) EmotionCharacters() ([]string, error) {
	rows, err := db.Query("SELECT character_id FROM emotional_states ORDER BY character_id")
	if err != nil {
		return nil, fmt.Errorf("emotion characters: %w", err)
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
