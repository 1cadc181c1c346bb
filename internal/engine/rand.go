package engine

import "math/rand"

// Rand is the slice of math/rand the engine uses. Injecting it keeps
// stochastic outcomes (date success rolls, dialogue picks, event triggers)
// reproducible under test.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded Rand.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
