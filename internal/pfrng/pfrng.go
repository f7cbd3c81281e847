// Package pfrng provides the small randomness interface the
// pathfinder's air-unit random walk and other parametric helpers
// consume (spec §6 "consumed interfaces"), so callers can substitute a
// seeded, deterministic generator in tests without touching the
// algorithm under test.
//
// Grounded on the teacher's use of math/rand/v2 directly in
// internal/ai/attackable_ai.go's tryRandomWalk (rand.IntN for chance
// rolls, rand.Int32N for bounded drift); this package wraps the same
// API behind an interface instead of calling the package-level
// functions straight, since the pathfinder needs reproducible runs.
package pfrng

import "math/rand/v2"

// RNG is the randomness capability consumed by pfrng's callers.
type RNG interface {
	// NextInt returns a pseudo-random integer in [lo, hi). Returns lo
	// if hi <= lo.
	NextInt(lo, hi int) int
	// Chance returns true with probability 1/n (false if n <= 0).
	Chance(n int) bool
}

// Default is the production RNG, backed by math/rand/v2's PCG source.
type Default struct {
	r *rand.Rand
}

// NewDefault seeds a Default RNG. The same seed always reproduces the
// same sequence.
func NewDefault(seed uint64) *Default {
	return &Default{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *Default) NextInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + d.r.IntN(hi-lo)
}

func (d *Default) Chance(n int) bool {
	if n <= 0 {
		return false
	}
	return d.r.IntN(n) == 0
}
