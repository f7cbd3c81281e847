package units

import (
	"github.com/tidewake/pathengine/internal/parabola"
	"github.com/tidewake/pathengine/internal/terrain"
)

// FlightStatus is a projectile's tick-to-tick state.
type FlightStatus int

const (
	// FlightActive means the projectile is still in the air.
	FlightActive FlightStatus = iota
	// FlightImpact means this tick's position is the projectile's
	// final one.
	FlightImpact
)

// Shell follows a precomputed parabolic arc (spec §7 "missile
// aborts" does not apply here: the arc is geometry, not a search, so
// it cannot fail to find one).
type Shell struct {
	points []parabola.Point
	idx    int
}

// NewShell configures a ballistic arc from orig to dst via planner and
// returns a Shell ready to fly it.
func NewShell(planner *parabola.Planner, orig, dst terrain.Tile, minHeight int, speed float64) *Shell {
	return &Shell{points: planner.Configure(orig, dst, minHeight, speed)}
}

// Tick returns the shell's next position along its arc.
func (s *Shell) Tick() (parabola.Point, FlightStatus) {
	if s.idx >= len(s.points) {
		return parabola.Point{}, FlightImpact
	}
	pt := s.points[s.idx]
	s.idx++
	if s.idx >= len(s.points) {
		return pt, FlightImpact
	}
	return pt, FlightActive
}

// SamMissile homes toward a (possibly moving) air target via a biased
// random walk rather than a fixed arc, since it must correct course
// each tick (spec §6 AirWalker).
type SamMissile struct {
	walker *parabola.AirWalker
	grid   *terrain.Grid
	pos    terrain.Tile
	target terrain.Tile
}

// NewSamMissile launches a missile from pos toward target.
func NewSamMissile(grid *terrain.Grid, walker *parabola.AirWalker, pos, target terrain.Tile) *SamMissile {
	return &SamMissile{walker: walker, grid: grid, pos: pos, target: target}
}

// Retarget updates the missile's intercept point for a moving target.
func (m *SamMissile) Retarget(target terrain.Tile) { m.target = target }

// Position returns the missile's current tile.
func (m *SamMissile) Position() terrain.Tile { return m.pos }

// Tick advances the missile one step toward its target.
func (m *SamMissile) Tick() FlightStatus {
	pt, status := m.walker.Next(m.pos, m.target)
	if status == parabola.WalkComplete {
		return FlightImpact
	}
	if m.grid.InBounds(pt.X, pt.Y) {
		m.pos = m.grid.Ref(pt.X, pt.Y)
	}
	return FlightActive
}
