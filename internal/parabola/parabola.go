// Package parabola implements the two parametric overlay paths spec
// §4.6/§6 calls for: a parabolic arc trajectory for ballistic
// projectiles (nukes, shells) and a biased random walk for air units
// and SAM missiles. Both
// describe motion that can legitimately leave the terrain grid's
// bounds (a missile arcs above the map), so they work in plain (x,y)
// coordinates rather than terrain.Tile, which panics outside the
// grid (spec §7).
package parabola

import (
	"math"

	"github.com/tidewake/pathengine/internal/terrain"
)

// Point is an unconstrained planar coordinate, unlike terrain.Tile
// which must stay within grid bounds.
type Point struct {
	X, Y int
}

// DefaultMinHeight is the minimum arc peak height above the
// straight-line origin/destination row, in tiles (spec §8 "peaking no
// less than 50 rows above").
const DefaultMinHeight = 50

// minArcSamples is the floor on how many points an arc is sampled
// into, regardless of speed: short, high-arc trajectories need enough
// samples to actually reach their peak height once coordinates are
// rounded to whole tiles.
const minArcSamples = 20

// Planner configures a parabolic arc between two tiles of a grid.
type Planner struct {
	grid *terrain.Grid
}

// NewPlanner builds a Planner bound to grid, used only to translate
// terrain.Tile endpoints into coordinates.
func NewPlanner(grid *terrain.Grid) *Planner {
	return &Planner{grid: grid}
}

// Configure returns the sequence of points describing a parabolic arc
// from orig to dst, peaking at least minHeight rows above the
// straight-line midpoint. speed controls how many points are emitted
// per unit of straight-line distance: higher speed means fewer, more
// widely spaced points (spec §4.6 "speed-controlled advance").
func (p *Planner) Configure(orig, dst terrain.Tile, minHeight int, speed float64) []Point {
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	if speed <= 0 {
		speed = 1
	}

	ox, oy := float64(p.grid.X(orig)), float64(p.grid.Y(orig))
	dx, dy := float64(p.grid.X(dst)), float64(p.grid.Y(dst))

	dist := euclidean(ox, oy, dx, dy)
	steps := int(dist / speed)
	if steps < minArcSamples {
		steps = minArcSamples
	}
	// An even step count puts a sample exactly at t=0.5, the apex.
	if steps%2 == 1 {
		steps++
	}

	out := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := lerp(ox, dx, t)
		y := lerp(oy, dy, t) - 4*float64(minHeight)*t*(1-t)
		out = append(out, Point{X: round(x), Y: round(y)})
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func euclidean(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	return math.Sqrt(dx*dx + dy*dy)
}

func round(v float64) int {
	return int(math.Round(v))
}
