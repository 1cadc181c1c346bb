package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lunarpark/hearthside/internal/engine"
	"github.com/lunarpark/hearthside/internal/store"
)

// Server is the hearthside HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over an engine and its database.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/characters", s.handleListCharacters)
		r.Route("/characters/{characterID}", func(r chi.Router) {
			r.Get("/state", s.handleCharacterState)
			r.Post("/emotions", s.handleApplyEmotions)
			r.Post("/affection", s.handleApplyAffection)
			r.Get("/mood/history", s.handleMoodHistory)

			r.Post("/memories", s.handleAddMemory)
			r.Get("/memories", s.handleListMemories)
			r.Post("/memories/{memoryID}/recall", s.handleRecallMemory)

			r.Post("/dialogue", s.handleDialogue)
			r.Get("/story/check", s.handleStoryCheck)
			r.Post("/story/{arcID}/complete", s.handleStoryComplete)

			r.Get("/dates", s.handleListDates)

			r.Get("/snapshot", s.handleExportSnapshot)
			r.Post("/snapshot", s.handleImportSnapshot)

			r.Get("/context", s.handleCharacterContext)
		})

		r.Get("/locations", s.handleListLocations)
		r.Post("/dates", s.handlePlanDate)
		r.Get("/dates/{planID}", s.handleGetDate)
		r.Post("/dates/{planID}/execute", s.handleExecuteDate)

		r.Get("/wallet", s.handleWallet)
		r.Post("/wallet/credit", s.handleWalletCredit)
		r.Get("/stats", s.handleStats)
		r.Post("/stats", s.handleSetStat)

		r.Post("/decay", s.handleDecay)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
