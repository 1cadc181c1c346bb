package engine

import (
	"testing"
	"time"

	"github.com/lunarpark/hearthside/internal/content"
	"github.com/lunarpark/hearthside/internal/store"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	lib, err := content.Default()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}

	e := New(db, lib)
	e.SetRand(NewRand(1))
	return e
}

// fixedRand always returns the same values, for forcing a specific branch of
// a stochastic roll.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

// fakeClock drives the engine clock from a settable instant.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func useFakeClock(e *Engine) *fakeClock {
	c := &fakeClock{at: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)}
	e.SetClock(c.now)
	return c
}
