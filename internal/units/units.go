// Package units implements the thin unit-AI consumers named in spec
// §4.8: warship, trade ship, SAM missile, and shell. Each owns exactly
// the stepper (or parametric planner) it needs and calls it once per
// tick; none of them know anything about A*, clustering, or
// smoothing. Grounded on the teacher's internal/ai/basic_ai.go
// Start/Stop/Tick state-machine shape.
package units

import (
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"
)

// Stepper is the narrow capability naval units consume: per-tick
// single-step advancement toward a destination that may change at
// any time (spec §4.8).
type Stepper interface {
	Next(from, to terrain.Tile, stopDistance int) transform.StepResult
	Invalidate()
}

// NavalStatus is a naval unit's tick-to-tick state.
type NavalStatus int

const (
	// NavalMoving means the unit is still en route.
	NavalMoving NavalStatus = iota
	// NavalArrived means the unit reached its destination this tick.
	NavalArrived
	// NavalRetreating means the stepper could not find a path, and the
	// unit is returning to its spawn point (spec §7 "warship
	// retreats").
	NavalRetreating
)
