package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lunarpark/hearthside/internal/engine"
	"github.com/lunarpark/hearthside/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	type charJSON struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Bio  string `json:"bio,omitempty"`
	}
	var out []charJSON
	for _, c := range s.engine.Content.Characters() {
		out = append(out, charJSON{c.ID, c.Name, c.Bio})
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": out})
}

func (s *Server) handleCharacterState(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	emotions, err := s.engine.Emotions(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	mood, err := s.engine.Mood(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stage, affection, err := s.engine.CurrentStage(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tension, err := s.engine.RomanticTension(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	canConfess, err := s.engine.CanConfess(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"character_id": characterID,
		"emotions":     emotions,
		"mood":         mood,
		"affection":    affection,
		"stage":        stage,
		"tension":      tension,
		"can_confess":  canConfess,
	})
}

func (s *Server) handleApplyEmotions(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	var req struct {
		Deltas map[string]float64 `json:"deltas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Deltas) == 0 {
		writeError(w, http.StatusBadRequest, "deltas required")
		return
	}

	emotions, err := s.engine.ApplyEmotionDeltas(characterID, req.Deltas)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	mood, err := s.engine.Mood(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"emotions": emotions, "mood": mood})
}

func (s *Server) handleApplyAffection(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	affection, stage, err := s.engine.ApplyAffectionDelta(characterID, req.Delta)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"affection": affection, "stage": stage})
}

func (s *Server) handleMoodHistory(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	history, err := s.db.GetMoodHistory(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	var m store.Memory
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	m.CharacterID = characterID

	stored, err := s.engine.AddMemory(&m)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	var memories []store.Memory
	var err error
	if r.URL.Query().Get("sort") == "strongest" {
		memories, err = s.engine.StrongestMemories(characterID, limit)
	} else {
		memories, err = s.engine.RecentMemories(characterID, limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(memories), "memories": memories})
}

func (s *Server) handleRecallMemory(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")
	memoryID := chi.URLParam(r, "memoryID")

	m, err := s.engine.RecallMemory(characterID, memoryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	var req engine.DialogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category required")
		return
	}
	req.CharacterID = characterID

	line, err := s.engine.SelectDialogue(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (s *Server) handleStoryCheck(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")
	timeOfDay := r.URL.Query().Get("time_of_day")
	location := r.URL.Query().Get("location")

	ev, err := s.engine.CheckStoryEvent(characterID, timeOfDay, location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ev == nil {
		writeJSON(w, http.StatusOK, map[string]any{"event": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": ev})
}

func (s *Server) handleStoryComplete(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")
	arcID := chi.URLParam(r, "arcID")

	var req struct {
		Branch string `json:"branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	stage, err := s.engine.CompleteStoryEvent(characterID, arcID, req.Branch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "completed", "stage": stage})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.engine.Content.Locations()})
}

func (s *Server) handlePlanDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID string   `json:"character_id"`
		LocationID  string   `json:"location_id"`
		ActivityIDs []string `json:"activity_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CharacterID == "" {
		writeError(w, http.StatusBadRequest, "character_id required")
		return
	}

	plan, refusal, err := s.engine.PlanDate(req.CharacterID, req.LocationID, req.ActivityIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if refusal != nil {
		writeJSON(w, http.StatusConflict, refusal)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetDate(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")

	plan, err := s.db.GetDatePlan(planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "date plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleExecuteDate(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")

	results, err := s.engine.ExecuteDate(planID)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleListDates(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	plans, err := s.db.ListDatePlans(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(plans), "dates": plans})
}

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	snap, err := s.engine.ExportSnapshot(characterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	var snap engine.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	snap.CharacterID = characterID

	if err := s.engine.ImportSnapshot(&snap); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	balance, err := s.db.Balance(engine.PlayerWallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (s *Server) handleWalletCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := s.db.Credit(engine.PlayerWallet, req.Amount); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	balance, err := s.db.Balance(engine.PlayerWallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.ListPlayerStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) handleSetStat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stat  string  `json:"stat"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Stat == "" {
		writeError(w, http.StatusBadRequest, "stat required")
		return
	}

	if err := s.db.SetPlayerStat(req.Stat, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDecay(w http.ResponseWriter, r *http.Request) {
	faded, err := s.engine.DecayAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"faded": faded})
}
