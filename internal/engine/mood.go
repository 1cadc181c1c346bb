package engine

import (
	"github.com/lunarpark/hearthside/internal/store"
)

// Moods is the closed set of mood labels.
var Moods = []string{
	"calm", "happy", "excited", "romantic", "melancholic",
	"angry", "nervous", "lonely", "playful", "content",
}

// moodSwitchThreshold is the hysteresis band: a re-evaluation that keeps the
// same label only commits when intensity moved by more than this.
const moodSwitchThreshold = 15.0

// moodQualifyMin is the floor an emotion must clear to drive a mood at all.
// A vector with nothing past it reads as calm.
const moodQualifyMin = 60.0

// moodFor maps a dominant axis to its mood label. The happiness cluster
// splits on intensity: past 80 it reads as excited rather than happy.
func moodFor(axis string, intensity float64) string {
	switch axis {
	case "happiness", "excitement", "contentment":
		if intensity > 80 {
			return "excited"
		}
		return "happy"
	case "love", "longing":
		return "romantic"
	case "sadness", "nostalgia":
		return "melancholic"
	case "anger", "frustration":
		return "angry"
	case "fear", "worry", "embarrassment", "shyness":
		return "nervous"
	case "loneliness":
		return "lonely"
	case "curiosity", "energy":
		return "playful"
	case "calmness", "trust":
		return "content"
	}
	return "calm"
}

// ClassifyMood derives a mood from an emotion vector without touching
// storage. Only axes past the qualifying floor can drive a mood; among
// those the strongest wins, first-listed axis breaking ties, and the
// intensity rides slightly above the winning value. Nothing qualifying
// reads as calm.
func ClassifyMood(s *store.EmotionalState) (mood string, intensity float64, trigger string) {
	top := ""
	topVal := 0.0
	for _, axis := range store.EmotionAxes {
		if v := s.Axis(axis); v > topVal {
			top, topVal = axis, v
		}
	}
	intensity = topVal + 10
	if intensity > 100 {
		intensity = 100
	}
	if topVal <= moodQualifyMin {
		return "calm", intensity, ""
	}
	return moodFor(top, intensity), intensity, top
}

// UpdateMood re-classifies the character's mood from the current emotion
// vector and commits the transition if it clears hysteresis: the label
// changed, or the intensity moved by more than the switch threshold. The
// outgoing mood is appended to the bounded history before the swap.
func (e *Engine) UpdateMood(characterID string) (*store.MoodState, error) {
	s, err := e.Emotions(characterID)
	if err != nil {
		return nil, err
	}
	mood, intensity, trigger := ClassifyMood(s)

	current, err := e.DB.GetMood(characterID)
	if err != nil {
		return nil, err
	}

	if current != nil {
		delta := intensity - current.Intensity
		if delta < 0 {
			delta = -delta
		}
		if current.Mood == mood && delta <= moodSwitchThreshold {
			return current, nil
		}
		err = e.DB.AppendMoodHistory(characterID, store.MoodEntry{
			Mood:      current.Mood,
			Intensity: current.Intensity,
			Trigger:   current.Trigger,
			At:        e.now().UnixMilli(),
		})
		if err != nil {
			return nil, err
		}
	}

	next := &store.MoodState{
		CharacterID: characterID,
		Mood:        mood,
		Intensity:   intensity,
		Trigger:     trigger,
		Since:       e.now().UnixMilli(),
	}
	if err := e.DB.SetMood(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Mood returns the character's committed mood, classifying one first if the
// character has never been evaluated.
func (e *Engine) Mood(characterID string) (*store.MoodState, error) {
	m, err := e.DB.GetMood(characterID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}
	return e.UpdateMood(characterID)
}
