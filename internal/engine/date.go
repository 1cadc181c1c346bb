package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lunarpark/hearthside/internal/content"
	"github.com/lunarpark/hearthside/internal/store"
)

// PlayerWallet is the wallet id for the single player.
const PlayerWallet = "player"

// dateSuccessCap bounds the stochastic success chance.
const dateSuccessCap = 0.9

// PlanRefusal explains why a date could not be planned. Refusals that
// represent a game outcome (wrong stage, empty wallet) carry the cancelled
// plan that was recorded for them.
type PlanRefusal struct {
	Reason string          `json:"reason"`
	Plan   *store.DatePlan `json:"plan,omitempty"`
}

// PlanDate validates and books a date. The relationship stage is checked
// before money: being too broke for a venue you aren't close enough to visit
// reads as a stage problem, not a funds problem. On success the total cost is
// debited up front and a planned row is stored.
func (e *Engine) PlanDate(characterID, locationID string, activityIDs []string) (*store.DatePlan, *PlanRefusal, error) {
	loc, ok := e.Content.Location(locationID)
	if !ok {
		return nil, &PlanRefusal{Reason: fmt.Sprintf("unknown location %q", locationID)}, nil
	}
	if len(activityIDs) == 0 {
		return nil, &PlanRefusal{Reason: "a date needs at least one activity"}, nil
	}

	var acts []content.Activity
	for _, id := range activityIDs {
		a, ok := e.Content.Activity(locationID, id)
		if !ok {
			return nil, &PlanRefusal{Reason: fmt.Sprintf("unknown activity %q at %s", id, locationID)}, nil
		}
		acts = append(acts, a)
	}

	cost := loc.Cost
	duration := 0
	for _, a := range acts {
		cost += a.Cost
		duration += a.DurationMinutes
	}

	plan := &store.DatePlan{
		ID:                   uuid.NewString(),
		CharacterID:          characterID,
		LocationID:           locationID,
		ActivityIDs:          activityIDs,
		TotalDurationMinutes: duration,
		TotalCost:            cost,
		CreatedAt:            e.now().UnixMilli(),
	}

	stage, _, err := e.CurrentStage(characterID)
	if err != nil {
		return nil, nil, err
	}
	if loc.RequiredStage != "" && StageIndex(stage.Status) < StageIndex(loc.RequiredStage) {
		refusal, err := e.cancelPlan(plan, fmt.Sprintf("%s requires stage %s, currently %s",
			loc.Name, loc.RequiredStage, stage.Status))
		return nil, refusal, err
	}

	ok, err = e.DB.Debit(PlayerWallet, cost)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		refusal, err := e.cancelPlan(plan, fmt.Sprintf("cannot afford %d for %s", cost, loc.Name))
		return nil, refusal, err
	}

	plan.Status = "planned"
	if err := e.DB.InsertDatePlan(plan); err != nil {
		return nil, nil, err
	}
	return plan, nil, nil
}

// cancelPlan records a refused plan so the history shows what was attempted.
func (e *Engine) cancelPlan(plan *store.DatePlan, reason string) (*PlanRefusal, error) {
	plan.Status = "cancelled"
	plan.Reason = reason
	if err := e.DB.InsertDatePlan(plan); err != nil {
		return nil, err
	}
	return &PlanRefusal{Reason: reason, Plan: plan}, nil
}

// ExecuteDate runs a planned date activity by activity. Each activity rolls
// against a success chance derived from the character's composure at that
// moment, stat gates force the unfavorable branch, and every activity leaves
// a memory.
func (e *Engine) ExecuteDate(planID string) (*store.DateResults, error) {
	plan, err := e.DB.GetDatePlan(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("date plan %s not found", planID)
	}

	// Resolve the full menu before touching the plan status. A content
	// reload that dropped an activity cancels the plan and refunds the
	// debit instead of wedging the row in_progress.
	acts := make([]content.Activity, 0, len(plan.ActivityIDs))
	for _, actID := range plan.ActivityIDs {
		act, ok := e.Content.Activity(plan.LocationID, actID)
		if !ok {
			reason := fmt.Sprintf("activity %q vanished from %s", actID, plan.LocationID)
			cancelled, cerr := e.DB.CancelDatePlan(planID, reason)
			if cerr != nil {
				return nil, cerr
			}
			if cancelled {
				if cerr := e.DB.Credit(PlayerWallet, plan.TotalCost); cerr != nil {
					return nil, cerr
				}
			}
			return nil, fmt.Errorf("execute date: %s", reason)
		}
		acts = append(acts, act)
	}

	ok, err := e.DB.TransitionDatePlan(planID, "planned", "in_progress")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("date plan %s is %s, not planned", planID, plan.Status)
	}

	results := &store.DateResults{}
	for _, act := range acts {
		// Read the vector fresh each step: earlier outcomes shift the
		// blend for later activities.
		s, err := e.Emotions(plan.CharacterID)
		if err != nil {
			return nil, err
		}
		composure := (s.Axis("calmness") + s.Axis("trust") + s.Axis("energy")) / 3
		chance := 0.6 + 0.3*composure/100
		if chance > dateSuccessCap {
			chance = dateSuccessCap
		}

		success := e.rng.Float64() < chance
		for _, g := range act.Gates {
			stat, err := e.DB.PlayerStat(g.Stat)
			if err != nil {
				return nil, err
			}
			if stat < g.Min {
				success = false
			}
		}

		outcome := act.Failure
		if success {
			outcome = act.Success
		}

		weight := outcome.Affection
		if weight < 3 {
			weight = 3
		}
		mem, err := e.AddMemory(&store.Memory{
			CharacterID:     plan.CharacterID,
			Type:            "date",
			Title:           act.Name,
			Description:     outcome.Message,
			Location:        plan.LocationID,
			EmotionalWeight: weight,
			AffectionDelta:  outcome.Affection,
			EmotionDelta:    outcome.Emotions,
		})
		if err != nil {
			return nil, err
		}

		results.Activities = append(results.Activities, store.ActivityResult{
			ActivityID:     act.ID,
			Success:        success,
			AffectionDelta: outcome.Affection,
			TensionDelta:   outcome.Tension,
			Message:        outcome.Message,
		})
		results.MemoryIDs = append(results.MemoryIDs, mem.ID)
		results.TotalAffectionGained += outcome.Affection
		results.TotalTensionChange += outcome.Tension
	}

	results.OverallSuccess = results.TotalAffectionGained > 5*float64(len(plan.ActivityIDs))
	stage, _, err := e.CurrentStage(plan.CharacterID)
	if err != nil {
		return nil, err
	}
	results.RelationshipProgression = stage.Name

	ok, err = e.DB.CompleteDatePlan(planID, results)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("date plan %s could not be completed", planID)
	}
	return results, nil
}
