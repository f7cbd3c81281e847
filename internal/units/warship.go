package units

import (
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"
)

// WarShip owns a Stepper and advances toward its current destination
// by up to speed tiles per tick. On a stepper failure it retreats to
// its spawn point instead of stopping dead (spec §7 "warship
// retreats").
type WarShip struct {
	stepper Stepper
	pos     terrain.Tile
	spawn   terrain.Tile
	dest    terrain.Tile
	speed   int
	status  NavalStatus
}

// NewWarShip places a warship at spawn with the given stepper and
// per-tick speed.
func NewWarShip(stepper Stepper, spawn terrain.Tile, speed int) *WarShip {
	if speed < 1 {
		speed = 1
	}
	return &WarShip{stepper: stepper, pos: spawn, spawn: spawn, dest: spawn, speed: speed, status: NavalArrived}
}

// Position returns the ship's current tile.
func (w *WarShip) Position() terrain.Tile { return w.pos }

// Status returns the ship's state as of the last Tick.
func (w *WarShip) Status() NavalStatus { return w.status }

// SetDestination retargets the ship. Cheap: the stepper detects the
// destination change on its own next call (spec §4.8 "the consumer
// may change to at any time").
func (w *WarShip) SetDestination(dest terrain.Tile) {
	w.dest = dest
	w.status = NavalMoving
}

// Tick advances the ship up to speed steps toward its destination (or
// spawn, if retreating), stopping early on arrival.
func (w *WarShip) Tick() NavalStatus {
	target := w.dest
	if w.status == NavalRetreating {
		target = w.spawn
	}

	for i := 0; i < w.speed; i++ {
		res := w.stepper.Next(w.pos, target, 0)
		switch res.Status {
		case transform.StatusComplete:
			if w.status == NavalRetreating {
				w.status = NavalMoving
				w.dest = w.spawn
			} else {
				w.status = NavalArrived
			}
			return w.status
		case transform.StatusNotFound:
			w.stepper.Invalidate()
			if w.status != NavalRetreating {
				w.status = NavalRetreating
			}
			return w.status
		case transform.StatusNext:
			w.pos = res.Tile
		}
	}
	return w.status
}
