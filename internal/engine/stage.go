package engine

import "github.com/lunarpark/hearthside/internal/store"

// Stage is one band of the relationship ladder. The affection scalar alone
// determines the stage; everything else here is derived flavor and gating.
type Stage struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
	Unlocks     string  `json:"unlocks"`

	BaseTension  float64 `json:"base_tension"`
	BaseIntimacy float64 `json:"base_intimacy"`
}

// stages is ordered low to high; resolution walks it from the top so float
// affection values between band edges still land in a band.
var stages = []Stage{
	{Name: "Stranger", Status: "stranger", Min: 0, Max: 9,
		Description: "You've barely met.", Unlocks: "small talk",
		BaseTension: 0, BaseIntimacy: 0},
	{Name: "Acquaintance", Status: "acquaintance", Min: 10, Max: 24,
		Description: "A familiar face, a name you remember.", Unlocks: "casual outings",
		BaseTension: 5, BaseIntimacy: 5},
	{Name: "Friend", Status: "friend", Min: 25, Max: 44,
		Description: "Someone you seek out on purpose.", Unlocks: "regular hangouts",
		BaseTension: 15, BaseIntimacy: 20},
	{Name: "Close Friend", Status: "close_friend", Min: 45, Max: 64,
		Description: "The first person you tell.", Unlocks: "personal conversations",
		BaseTension: 30, BaseIntimacy: 40},
	{Name: "Romantic Interest", Status: "romantic_interest", Min: 65, Max: 79,
		Description: "Something unspoken between you.", Unlocks: "romantic dates, confession",
		BaseTension: 60, BaseIntimacy: 55},
	{Name: "Lover", Status: "lover", Min: 80, Max: 94,
		Description: "Together, and everyone knows it.", Unlocks: "intimate moments",
		BaseTension: 70, BaseIntimacy: 80},
	{Name: "Soulmate", Status: "soulmate", Min: 95, Max: 100,
		Description: "Two halves of one life.", Unlocks: "everything",
		BaseTension: 80, BaseIntimacy: 95},
}

// confessTensionMin gates CanConfess on romantic tension.
const confessTensionMin = 70.0

// Stages returns the full ladder, low to high.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// ResolveStage maps an affection value to its stage. Values between band
// edges resolve downward; out-of-range values clamp to the end bands.
func ResolveStage(affection float64) Stage {
	for i := len(stages) - 1; i >= 0; i-- {
		if affection >= stages[i].Min {
			return stages[i]
		}
	}
	return stages[0]
}

// StageIndex returns the ladder position of a status, or -1.
func StageIndex(status string) int {
	for i, s := range stages {
		if s.Status == status {
			return i
		}
	}
	return -1
}

// CurrentStage resolves the character's stage from stored affection.
func (e *Engine) CurrentStage(characterID string) (Stage, float64, error) {
	a, err := e.DB.GetAffection(characterID)
	if err != nil {
		return Stage{}, 0, err
	}
	return ResolveStage(a), a, nil
}

// RomanticTension derives tension from the stage base: up 20% when the pair
// has interacted this session, down 20% while jealousy is flagged active,
// clamped to [0,100].
func (e *Engine) RomanticTension(characterID string) (float64, error) {
	stage, _, err := e.CurrentStage(characterID)
	if err != nil {
		return 0, err
	}
	t := stage.BaseTension
	if e.interactedThisSession(characterID) {
		t *= 1.2
	}
	jealous, err := e.DB.HasFlag(characterID, "jealousy_active")
	if err != nil {
		return 0, err
	}
	if jealous {
		t *= 0.8
	}
	return store.ClampScalar(t), nil
}

// CanConfess reports whether a confession can fire: the relationship must
// sit exactly at romantic interest with tension at or past the bar.
func (e *Engine) CanConfess(characterID string) (bool, error) {
	stage, _, err := e.CurrentStage(characterID)
	if err != nil {
		return false, err
	}
	if stage.Status != "romantic_interest" {
		return false, nil
	}
	t, err := e.RomanticTension(characterID)
	if err != nil {
		return false, err
	}
	return t >= confessTensionMin, nil
}
