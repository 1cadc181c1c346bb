package engine

import (
	"log"
	"time"

	"github.com/lunarpark/hearthside/internal/content"
	"github.com/lunarpark/hearthside/internal/store"
)

// Engine orchestrates emotional state, moods, memories, relationship stages,
// dates, dialogue, and story events for every character.
type Engine struct {
	DB      *store.DB
	Content *content.Library

	rng          Rand
	now          func() time.Time
	sessionStart time.Time
	stopCh       chan struct{}
}

// New creates a new Engine. Randomness is time-seeded and the clock is real;
// tests swap both with SetRand and SetClock.
func New(db *store.DB, lib *content.Library) *Engine {
	return &Engine{
		DB:           db,
		Content:      lib,
		rng:          NewRand(time.Now().UnixNano()),
		now:          time.Now,
		sessionStart: time.Now(),
		stopCh:       make(chan struct{}),
	}
}

// SetRand swaps the random source. Seeded sources make outcomes reproducible.
func (e *Engine) SetRand(r Rand) {
	e.rng = r
}

// SetClock swaps the time source. The session start moves with it so
// "interacted this session" stays coherent under a fake clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.sessionStart = now()
}

// StartDecayTimer runs memory decay on startup and then daily.
func (e *Engine) StartDecayTimer() {
	if faded, err := e.DecayAll(); err != nil {
		log.Printf("decay error: %v", err)
	} else if faded > 0 {
		log.Printf("decay: faded %d memories", faded)
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if faded, err := e.DecayAll(); err != nil {
					log.Printf("decay error: %v", err)
				} else if faded > 0 {
					log.Printf("decay: faded %d memories", faded)
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	close(e.stopCh)
}

// DecayAll fades memories for every character that has any, returning the
// number of memories whose fade level dropped.
func (e *Engine) DecayAll() (int, error) {
	chars, err := e.DB.MemoryCharacters()
	if err != nil {
		return 0, err
	}
	now := e.now().UnixMilli()
	total := 0
	for _, id := range chars {
		n, err := e.DB.DecayMemories(id, now)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// interactedThisSession reports whether the character has had any interaction
// since the engine started.
func (e *Engine) interactedThisSession(characterID string) bool {
	at, err := e.DB.LastInteraction(characterID)
	if err != nil {
		return false
	}
	return at >= e.sessionStart.UnixMilli()
}
