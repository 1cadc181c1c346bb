package engine

import (
	"fmt"

	"github.com/lunarpark/hearthside/internal/store"
)

// Snapshot is a character's complete persisted state, exportable as JSON and
// importable into a fresh database. Import reproduces the exported state
// exactly, recall counts and fade levels included.
type Snapshot struct {
	CharacterID string                `json:"character_id"`
	Emotions    *store.EmotionalState `json:"emotions,omitempty"`
	Mood        *store.MoodState      `json:"mood,omitempty"`
	MoodHistory []store.MoodEntry     `json:"mood_history,omitempty"`
	Affection   float64               `json:"affection"`
	Flags       []string              `json:"flags,omitempty"`
	Memories    []store.Memory        `json:"memories,omitempty"`
}

// ExportSnapshot captures everything stored for a character.
func (e *Engine) ExportSnapshot(characterID string) (*Snapshot, error) {
	snap := &Snapshot{CharacterID: characterID}

	var err error
	if snap.Emotions, err = e.DB.GetEmotions(characterID); err != nil {
		return nil, err
	}
	if snap.Mood, err = e.DB.GetMood(characterID); err != nil {
		return nil, err
	}
	if snap.MoodHistory, err = e.DB.GetMoodHistory(characterID); err != nil {
		return nil, err
	}
	if snap.Affection, err = e.DB.GetAffection(characterID); err != nil {
		return nil, err
	}
	if snap.Flags, err = e.DB.ListFlags(characterID); err != nil {
		return nil, err
	}
	if snap.Memories, err = e.DB.ListMemories(characterID); err != nil {
		return nil, err
	}
	return snap, nil
}

// ImportSnapshot restores a character's state. Rows already stored for the
// character are removed first, so importing over existing state replaces it
// rather than stacking on top; memories are inserted as-is, oldest first.
func (e *Engine) ImportSnapshot(snap *Snapshot) error {
	if snap.CharacterID == "" {
		return fmt.Errorf("snapshot needs a character id")
	}
	if err := e.DB.PurgeCharacter(snap.CharacterID); err != nil {
		return err
	}

	if snap.Emotions != nil {
		snap.Emotions.CharacterID = snap.CharacterID
		if err := e.DB.SaveEmotions(snap.Emotions); err != nil {
			return err
		}
	}
	if snap.Mood != nil {
		snap.Mood.CharacterID = snap.CharacterID
		if err := e.DB.SetMood(snap.Mood); err != nil {
			return err
		}
	}
	// History is stored newest first; append oldest first so the ring keeps
	// the same ordering after restore.
	for i := len(snap.MoodHistory) - 1; i >= 0; i-- {
		if err := e.DB.AppendMoodHistory(snap.CharacterID, snap.MoodHistory[i]); err != nil {
			return err
		}
	}
	if err := e.DB.SetAffection(snap.CharacterID, snap.Affection); err != nil {
		return err
	}
	for _, f := range snap.Flags {
		if err := e.DB.SetFlag(snap.CharacterID, f); err != nil {
			return err
		}
	}
	for i := range snap.Memories {
		snap.Memories[i].CharacterID = snap.CharacterID
		if err := e.DB.InsertMemory(&snap.Memories[i]); err != nil {
			return err
		}
	}
	return nil
}
