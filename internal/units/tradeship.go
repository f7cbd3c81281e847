package units

import (
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"
)

// TradeStatus is a trade ship's tick-to-tick state.
type TradeStatus int

const (
	// TradeMoving means the ship is still en route.
	TradeMoving TradeStatus = iota
	// TradeArrived means the ship reached its destination this tick.
	TradeArrived
	// TradeDestroyed means the stepper could not find a path and the
	// ship removed itself (spec §7 "trade ship is deleted").
	TradeDestroyed
)

// TradeShip owns a Stepper and, unlike WarShip, has no spawn to fall
// back to: a lost trade ship is simply removed.
type TradeShip struct {
	stepper Stepper
	pos     terrain.Tile
	dest    terrain.Tile
	speed   int
	status  TradeStatus
}

// NewTradeShip places a trade ship at pos heading for dest.
func NewTradeShip(stepper Stepper, pos, dest terrain.Tile, speed int) *TradeShip {
	if speed < 1 {
		speed = 1
	}
	return &TradeShip{stepper: stepper, pos: pos, dest: dest, speed: speed, status: TradeMoving}
}

// Position returns the ship's current tile.
func (s *TradeShip) Position() terrain.Tile { return s.pos }

// Status returns the ship's state as of the last Tick.
func (s *TradeShip) Status() TradeStatus { return s.status }

// SetDestination retargets the ship.
func (s *TradeShip) SetDestination(dest terrain.Tile) {
	s.dest = dest
	s.status = TradeMoving
}

// Tick advances the ship up to speed steps toward dest.
func (s *TradeShip) Tick() TradeStatus {
	if s.status == TradeDestroyed {
		return s.status
	}
	for i := 0; i < s.speed; i++ {
		res := s.stepper.Next(s.pos, s.dest, 0)
		switch res.Status {
		case transform.StatusComplete:
			s.status = TradeArrived
			return s.status
		case transform.StatusNotFound:
			s.status = TradeDestroyed
			return s.status
		case transform.StatusNext:
			s.pos = res.Tile
		}
	}
	return s.status
}
