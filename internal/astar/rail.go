package astar

import "github.com/tidewake/pathengine/internal/terrain"

// Rail cardinal direction indices, used to fold "which way am I moving"
// into the A* node ID so the adapter can penalise direction changes
// without widening the stamp arrays' domain beyond tile*4.
const (
	DirNorth = iota
	DirEast
	DirSouth
	DirWest
	railDirCount = 4
)

// RailAdapter drives GenericAStar over rail track, penalising water
// crossings (rail bridges are expensive) and direction changes (trains
// don't corner for free), per spec §4.4 "adapter A*... used for rails
// (penalise water, penalise direction change)" and §6
// makeRailPathfinder's options.
type RailAdapter struct {
	grid                  *terrain.Grid
	waterPenalty          float64
	directionChangePenalty float64
	heuristicWeight       float64
}

// NewRailAdapter builds a rail adapter over grid.
func NewRailAdapter(grid *terrain.Grid, waterPenalty, directionChangePenalty, heuristicWeight float64) *RailAdapter {
	return &RailAdapter{
		grid:                   grid,
		waterPenalty:           waterPenalty,
		directionChangePenalty: directionChangePenalty,
		heuristicWeight:        heuristicWeight,
	}
}

// RailNode packs a tile and the direction of travel that reached it into
// one A* node ID.
func RailNode(t terrain.Tile, dir int) int32 { return int32(t)*railDirCount + int32(dir) }

// RailTile unpacks the tile component of a rail node.
func RailTile(node int32) terrain.Tile { return terrain.Tile(node / railDirCount) }

// RailDir unpacks the direction component of a rail node.
func RailDir(node int32) int { return int(node % railDirCount) }

func (r *RailAdapter) DomainSize() int32 {
	return int32(r.grid.Width()*r.grid.Height()) * railDirCount
}

func (r *RailAdapter) Neighbours(node int32, dst []int32) []int32 {
	tile := RailTile(node)
	x, y := r.grid.X(tile), r.grid.Y(tile)

	type step struct {
		dx, dy, dir int
	}
	steps := [4]step{
		{0, -1, DirNorth},
		{1, 0, DirEast},
		{0, 1, DirSouth},
		{-1, 0, DirWest},
	}
	for _, s := range steps {
		nx, ny := x+s.dx, y+s.dy
		if !r.grid.InBounds(nx, ny) {
			continue
		}
		nb := r.grid.Ref(nx, ny)
		dst = append(dst, RailNode(nb, s.dir))
	}
	return dst
}

func (r *RailAdapter) Cost(from, to int32) (float64, bool) {
	toTile := RailTile(to)
	cost := baseCost
	if r.grid.IsWater(toTile) {
		cost += r.waterPenalty
	}
	if RailDir(from) != RailDir(to) {
		cost += r.directionChangePenalty
	}
	return cost, true
}

func (r *RailAdapter) Heuristic(node, target int32) float64 {
	tile, targetTile := RailTile(node), RailTile(target)
	x, y := r.grid.X(tile), r.grid.Y(tile)
	tx, ty := r.grid.X(targetTile), r.grid.Y(targetTile)
	return r.heuristicWeight * float64(manhattan(x, y, tx, ty))
}

func (r *RailAdapter) MaxPriority() int  { return -1 }
func (r *RailAdapter) MaxNeighbors() int { return 4 }

// RailPathfinder wraps GenericAStar + RailAdapter behind a Tile-in,
// Tile-out API matching the water finders, so the transformer pipeline
// (spec §4.7) can treat both uniformly.
type RailPathfinder struct {
	adapter *RailAdapter
	search  *GenericAStar
}

// NewRailPathfinder builds a rail pathfinder over grid with the given
// tuning (spec §6 makeRailPathfinder options).
func NewRailPathfinder(grid *terrain.Grid, waterPenalty, directionChangePenalty, heuristicWeight float64, maxIterations int) *RailPathfinder {
	adapter := NewRailAdapter(grid, waterPenalty, directionChangePenalty, heuristicWeight)
	return &RailPathfinder{
		adapter: adapter,
		search:  NewGenericAStar(adapter, maxIterations),
	}
}

// FindPath finds the cheapest rail route from any of sources to target.
// The starting direction for each source is tried in all 4 orientations
// so the first hop never pays a spurious direction-change penalty.
func (r *RailPathfinder) FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	starts := make([]int32, 0, len(sources)*railDirCount)
	for _, s := range sources {
		for d := 0; d < railDirCount; d++ {
			starts = append(starts, RailNode(s, d))
		}
	}
	targets := make([]int32, 0, railDirCount)
	for d := 0; d < railDirCount; d++ {
		targets = append(targets, RailNode(target, d))
	}

	var best []int32
	bestCost := 0.0
	found := false
	for _, t := range targets {
		path, cost, ok := r.search.FindPath(starts, t)
		if !ok {
			continue
		}
		if !found || cost < bestCost {
			best, bestCost, found = path, cost, true
		}
	}
	if !found {
		return nil, false
	}
	out := make([]terrain.Tile, len(best))
	for i, n := range best {
		out[i] = RailTile(n)
	}
	return out, true
}

// Stats exposes the underlying A* exhaustion counter.
func (r *RailPathfinder) Stats() *Stats { return &r.search.Stats }
