package engine

import (
	"fmt"

	"github.com/lunarpark/hearthside/internal/store"
)

// Emotions returns the character's emotion vector, seeding it from the
// content baseline on first access. Unknown characters get the global
// baseline, so the engine never refuses a character id.
func (e *Engine) Emotions(characterID string) (*store.EmotionalState, error) {
	s, err := e.DB.GetEmotions(characterID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	s = &store.EmotionalState{CharacterID: characterID}
	for axis, v := range e.Content.Baseline(characterID) {
		s.SetAxis(axis, v)
	}
	if err := e.DB.SaveEmotions(s); err != nil {
		return nil, fmt.Errorf("seed emotions: %w", err)
	}
	return s, nil
}

// ApplyEmotionDeltas shifts named axes by signed amounts, clamping each to
// [0,100], persists the result, and re-evaluates the character's mood.
// Unknown axis names are ignored.
func (e *Engine) ApplyEmotionDeltas(characterID string, deltas map[string]float64) (*store.EmotionalState, error) {
	s, err := e.Emotions(characterID)
	if err != nil {
		return nil, err
	}
	for axis, d := range deltas {
		s.SetAxis(axis, s.Axis(axis)+d)
	}
	if err := e.DB.SaveEmotions(s); err != nil {
		return nil, err
	}
	if err := e.DB.MarkInteraction(characterID, e.now().UnixMilli()); err != nil {
		return nil, err
	}
	if _, err := e.UpdateMood(characterID); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyAffectionDelta shifts the affection scalar, clamped to [0,100], and
// returns the new value with the stage it now resolves to.
func (e *Engine) ApplyAffectionDelta(characterID string, delta float64) (float64, Stage, error) {
	a, err := e.DB.GetAffection(characterID)
	if err != nil {
		return 0, Stage{}, err
	}
	a = store.ClampScalar(a + delta)
	if err := e.DB.SetAffection(characterID, a); err != nil {
		return 0, Stage{}, err
	}
	return a, ResolveStage(a), nil
}
