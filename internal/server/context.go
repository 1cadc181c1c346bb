package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lunarpark/hearthside/internal/store"
)

func (s *Server) handleCharacterContext(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	ctx, err := s.buildContext(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"context": ctx})
}

// buildContext renders a markdown brief of the relationship, for injection
// into a narrative prompt or a debug view. Memories are ranked by how vivid
// and how often-recalled they are, capped so the brief stays short.
func (s *Server) buildContext(characterID string) (string, error) {
	var b strings.Builder

	name := characterID
	if c, ok := s.engine.Content.Character(characterID); ok {
		name = c.Name
	}
	b.WriteString(fmt.Sprintf("## %s\n", name))

	stage, affection, err := s.engine.CurrentStage(characterID)
	if err != nil {
		return "", err
	}
	b.WriteString(fmt.Sprintf("\n### Relationship\n%s (affection %.0f) — %s\n",
		stage.Name, affection, stage.Description))

	mood, err := s.engine.Mood(characterID)
	if err != nil {
		return "", err
	}
	b.WriteString(fmt.Sprintf("\n### Mood\n%s (intensity %.0f", mood.Mood, mood.Intensity))
	if mood.Trigger != "" {
		b.WriteString(", from " + mood.Trigger)
	}
	b.WriteString(")\n")

	// Rank all memories by vividness, cap at 10.
	const maxContextItems = 10

	memories, err := s.db.ListMemories(characterID)
	if err != nil {
		return "", err
	}
	sort.Slice(memories, func(i, j int) bool {
		return memoryScore(memories[i]) > memoryScore(memories[j])
	})
	if len(memories) > maxContextItems {
		memories = memories[:maxContextItems]
	}
	if len(memories) > 0 {
		b.WriteString("\n### What she remembers\n")
		for _, m := range memories {
			b.WriteString(fmt.Sprintf("- [%s] %s\n", m.Type, m.Title))
		}
	}

	// Recent dates, refusals included.
	plans, err := s.db.ListDatePlans(characterID)
	if err != nil {
		return "", err
	}
	if len(plans) > 5 {
		plans = plans[:5]
	}
	if len(plans) > 0 {
		b.WriteString("\n### Recent dates\n")
		for _, p := range plans {
			ts := time.UnixMilli(p.CreatedAt).Format("2006-01-02")
			line := fmt.Sprintf("- [%s] %s: %s", ts, p.LocationID, p.Status)
			if p.Reason != "" {
				line += " (" + p.Reason + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String(), nil
}

// memoryScore ranks a memory for context inclusion. Vivid memories rank
// high; frequent recall keeps an old memory prominent past its fade.
func memoryScore(m store.Memory) float64 {
	weight := m.EmotionalWeight
	if weight < 0 {
		weight = -weight
	}
	recallBoost := 1.0
	if m.RecallCount > 1 {
		recallBoost = 1.0 + math.Log2(float64(m.RecallCount))
	}
	return (m.FadeLevel + weight) * recallBoost
}
