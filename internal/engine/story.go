package engine

import (
	"fmt"
	"time"

	"github.com/lunarpark/hearthside/internal/content"
)

// StoryEvent is a triggered narrative beat. Kind is meeting, seasonal, or
// arc; only arcs carry branches and a completion flag.
type StoryEvent struct {
	Kind     string              `json:"kind"`
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Text     string              `json:"text"`
	Flag     string              `json:"flag,omitempty"`
	Branches []content.ArcBranch `json:"branches,omitempty"`
}

// Trigger chances for the two random event classes.
const (
	meetingChance  = 0.3
	seasonalChance = 0.2
)

// seasonForMonth maps a calendar month to a season key.
func seasonForMonth(m time.Month) string {
	switch m {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	}
	return "winter"
}

// CheckStoryEvent rolls for at most one event, checked in priority order:
// a chance meeting for the current time and place, a seasonal moment, then
// the highest scripted arc the relationship has earned. Confession arcs fire
// only when a confession is actually possible. Returns nil when nothing
// triggers.
func (e *Engine) CheckStoryEvent(characterID, timeOfDay, locationID string) (*StoryEvent, error) {
	if e.rng.Float64() < meetingChance {
		if meetings := e.Content.Meetings(timeOfDay, locationID); len(meetings) > 0 {
			m := meetings[e.rng.Intn(len(meetings))]
			return &StoryEvent{Kind: "meeting", ID: m.ID, Title: m.Title, Text: m.Text}, nil
		}
	}

	if e.rng.Float64() < seasonalChance {
		season := seasonForMonth(e.now().Month())
		if events := e.Content.Seasonal(season); len(events) > 0 {
			s := events[e.rng.Intn(len(events))]
			return &StoryEvent{Kind: "seasonal", ID: s.ID, Title: s.Title, Text: s.Text}, nil
		}
	}

	affection, err := e.DB.GetAffection(characterID)
	if err != nil {
		return nil, err
	}
	for _, arc := range e.Content.Arcs(characterID) {
		if affection < arc.RequiredAffection {
			continue
		}
		done, err := e.DB.HasFlag(characterID, arc.Flag)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		if arc.Type == "confession" {
			ok, err := e.CanConfess(characterID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		return &StoryEvent{
			Kind:     "arc",
			ID:       arc.ID,
			Title:    arc.Title,
			Text:     arc.Text,
			Flag:     arc.Flag,
			Branches: arc.Branches,
		}, nil
	}

	return nil, nil
}

// CompleteStoryEvent resolves a scripted arc: the completion flag is set so
// it never re-fires, and the chosen branch's affection lands. Arcs without
// branches take an empty branch id.
func (e *Engine) CompleteStoryEvent(characterID, arcID, branchID string) (*Stage, error) {
	var arc *content.StoryArc
	for _, a := range e.Content.Arcs(characterID) {
		if a.ID == arcID {
			arc = &a
			break
		}
	}
	if arc == nil {
		return nil, fmt.Errorf("unknown story arc %q for %s", arcID, characterID)
	}

	var branch *content.ArcBranch
	if branchID != "" {
		for i := range arc.Branches {
			if arc.Branches[i].ID == branchID {
				branch = &arc.Branches[i]
				break
			}
		}
		if branch == nil {
			return nil, fmt.Errorf("unknown branch %q in arc %s", branchID, arcID)
		}
	} else if len(arc.Branches) > 0 {
		return nil, fmt.Errorf("arc %s needs a branch choice", arcID)
	}

	if err := e.DB.SetFlag(characterID, arc.Flag); err != nil {
		return nil, err
	}

	stage, _, err := e.CurrentStage(characterID)
	if err != nil {
		return nil, err
	}
	if branch != nil && branch.Affection != 0 {
		_, stage, err = e.ApplyAffectionDelta(characterID, branch.Affection)
		if err != nil {
			return nil, err
		}
	}
	return &stage, nil
}
