package parabola

import (
	"github.com/tidewake/pathengine/internal/pfrng"
	"github.com/tidewake/pathengine/internal/terrain"
)

// WalkStatus discriminates an AirWalker step.
type WalkStatus int

const (
	// WalkNext carries the next tile to move toward.
	WalkNext WalkStatus = iota
	// WalkComplete means the unit has arrived at its destination.
	WalkComplete
)

// AirWalker advances an air unit toward a destination with an
// occasional random lateral drift, rather than a planned path (air
// units fly over everything, so no obstacle avoidance is needed).
// Grounded on the teacher's AttackableAI.tryRandomWalk: a 1/n chance
// roll per call gates a bounded random offset.
type AirWalker struct {
	grid        *terrain.Grid
	rng         pfrng.RNG
	driftChance int // 1/driftChance odds of drifting on a given call
	maxDrift    int // max tiles of lateral drift per call
}

// NewAirWalker builds an AirWalker. driftChance and maxDrift mirror
// the teacher's randomWalkRate/maxDriftRange constants.
func NewAirWalker(grid *terrain.Grid, rng pfrng.RNG, driftChance, maxDrift int) *AirWalker {
	return &AirWalker{grid: grid, rng: rng, driftChance: driftChance, maxDrift: maxDrift}
}

// Next returns the next coordinate to move toward from from, heading
// for to, with an occasional random lateral drift. Returns
// WalkComplete once from reaches to.
func (w *AirWalker) Next(from, to terrain.Tile) (Point, WalkStatus) {
	if from == to {
		return Point{X: w.grid.X(from), Y: w.grid.Y(from)}, WalkComplete
	}

	fx, fy := w.grid.X(from), w.grid.Y(from)
	tx, ty := w.grid.X(to), w.grid.Y(to)
	nx, ny := fx+sign(tx-fx), fy+sign(ty-fy)

	if w.rng.Chance(w.driftChance) {
		nx += w.rng.NextInt(-w.maxDrift, w.maxDrift+1)
		ny += w.rng.NextInt(-w.maxDrift, w.maxDrift+1)
	}

	nx = clamp(nx, 0, w.grid.Width()-1)
	ny = clamp(ny, 0, w.grid.Height()-1)
	return Point{X: nx, Y: ny}, WalkNext
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
