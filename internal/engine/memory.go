package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lunarpark/hearthside/internal/store"
)

// AddMemory records an episodic memory and applies its side effects: the
// memory's emotion deltas, trust delta, and affection delta all land on the
// character, and the interaction clock advances. The stored record comes
// back with id, timestamps, and recall bookkeeping filled in.
func (e *Engine) AddMemory(m *store.Memory) (*store.Memory, error) {
	if m.CharacterID == "" {
		return nil, fmt.Errorf("memory needs a character id")
	}
	if !validMemoryType(m.Type) {
		return nil, fmt.Errorf("unknown memory type %q", m.Type)
	}

	now := e.now().UnixMilli()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.LastRecalledAt = now
	m.RecallCount = 1
	m.FadeLevel = 100

	if err := e.DB.InsertMemory(m); err != nil {
		return nil, err
	}

	deltas := make(map[string]float64, len(m.EmotionDelta)+1)
	for axis, d := range m.EmotionDelta {
		deltas[axis] = d
	}
	if m.TrustDelta != 0 {
		deltas["trust"] += m.TrustDelta
	}
	if len(deltas) > 0 {
		if _, err := e.ApplyEmotionDeltas(m.CharacterID, deltas); err != nil {
			return nil, err
		}
	} else if err := e.DB.MarkInteraction(m.CharacterID, now); err != nil {
		return nil, err
	}

	if m.AffectionDelta != 0 {
		if _, _, err := e.ApplyAffectionDelta(m.CharacterID, m.AffectionDelta); err != nil {
			return nil, err
		}
	}

	for _, f := range m.Flags {
		if err := e.DB.SetFlag(m.CharacterID, f); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecentMemories returns the newest n memories for a character.
func (e *Engine) RecentMemories(characterID string, n int) ([]store.Memory, error) {
	return e.DB.RecentMemories(characterID, n)
}

// StrongestMemories returns the n memories with the largest absolute
// emotional weight, so painful ones surface alongside fond ones.
func (e *Engine) StrongestMemories(characterID string, n int) ([]store.Memory, error) {
	return e.DB.StrongestMemories(characterID, n)
}

// RecallMemory reinforces a memory: recall count up, fade boosted, and a
// small echo of the original feeling pushed back onto the character. Returns
// nil when the memory doesn't exist or belongs to someone else.
func (e *Engine) RecallMemory(characterID, memoryID string) (*store.Memory, error) {
	m, err := e.DB.GetMemory(memoryID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.CharacterID != characterID {
		return nil, nil
	}

	if err := e.DB.TouchMemory(memoryID, e.now().UnixMilli(), 5); err != nil {
		return nil, err
	}

	echo := m.EmotionalWeight / 5
	if echo < 0 {
		echo = -echo
	}
	if echo > 10 {
		echo = 10
	}
	if echo > 0 {
		deltas := map[string]float64{"happiness": echo, "nostalgia": echo}
		if m.EmotionalWeight < 0 {
			deltas = map[string]float64{"sadness": echo, "worry": echo}
		}
		if _, err := e.ApplyEmotionDeltas(characterID, deltas); err != nil {
			return nil, err
		}
	}

	return e.DB.GetMemory(memoryID)
}

func validMemoryType(t string) bool {
	for _, mt := range store.MemoryTypes {
		if mt == t {
			return true
		}
	}
	return false
}
