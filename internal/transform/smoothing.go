package transform

import "github.com/tidewake/pathengine/internal/terrain"

// lineIterator2D traces a Bresenham line between two tiles. Adapted
// from the teacher's 3D LOS tracer (internal/game/geo.LineIterator3D)
// with the Z axis dropped, since water LOS smoothing only needs
// planar visibility.
type lineIterator2D struct {
	curX, curY       int
	targetX, targetY int
	deltaX, deltaY   int
	stepX, stepY     int
	errTerm          int
	dominant         int // 0 = X, 1 = Y
	started          bool
}

func newLineIterator2D(sx, sy, ex, ey int) *lineIterator2D {
	it := &lineIterator2D{curX: sx, curY: sy, targetX: ex, targetY: ey}
	it.deltaX = abs(ex - sx)
	it.deltaY = abs(ey - sy)
	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sy < ey {
		it.stepY = 1
	} else {
		it.stepY = -1
	}
	if it.deltaX >= it.deltaY {
		it.dominant = 0
		it.errTerm = it.deltaX / 2
	} else {
		it.dominant = 1
		it.errTerm = it.deltaY / 2
	}
	return it
}

func (it *lineIterator2D) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.curX == it.targetX && it.curY == it.targetY {
		return false
	}
	if it.dominant == 0 {
		it.curX += it.stepX
		it.errTerm += it.deltaY
		if it.errTerm >= it.deltaX {
			it.curY += it.stepY
			it.errTerm -= it.deltaX
		}
	} else {
		it.curY += it.stepY
		it.errTerm += it.deltaX
		if it.errTerm >= it.deltaY {
			it.curX += it.stepX
			it.errTerm -= it.deltaY
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// bresenhamTrace returns every tile the straight line from a to b
// passes through, inclusive of both endpoints.
func bresenhamTrace(grid *terrain.Grid, a, b terrain.Tile) []terrain.Tile {
	it := newLineIterator2D(grid.X(a), grid.Y(a), grid.X(b), grid.Y(b))
	var out []terrain.Tile
	for it.Next() {
		out = append(out, grid.Ref(it.curX, it.curY))
	}
	return out
}

// losClear reports whether every tile on the straight line from a to
// b is water of at least minMagnitude (spec §4.7 pass 1/pass 2).
func losClear(grid *terrain.Grid, a, b terrain.Tile, minMagnitude int) bool {
	for _, t := range bresenhamTrace(grid, a, b) {
		if grid.IsLand(t) || grid.Magnitude(t) < minMagnitude {
			return false
		}
	}
	return true
}

// losSmoothPass greedily replaces spans of path with their straight
// Bresenham trace wherever every tile crossed clears minMagnitude,
// binary-searching the farthest reachable vertex from each anchor
// (spec §4.7 pass 1/pass 2).
func losSmoothPass(grid *terrain.Grid, path []terrain.Tile, minMagnitude int) []terrain.Tile {
	if len(path) < 3 {
		return path
	}
	out := []terrain.Tile{path[0]}
	i := 0
	for i < len(path)-1 {
		lo, hi := i+1, len(path)-1
		best := i + 1
		for lo <= hi {
			mid := (lo + hi) / 2
			if losClear(grid, path[i], path[mid], minMagnitude) {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		if best == i+1 {
			out = append(out, path[best])
		} else {
			trace := bresenhamTrace(grid, path[i], path[best])
			out = append(out, trace[1:]...)
		}
		i = best
	}
	return out
}

const (
	losMagnitudePass1 = 3
	losMagnitudePass2 = 6
	endpointRefineLen = 50
)

// BoundedFinder is the capability smoothing uses to re-plan short
// endpoint segments (satisfied by astar.BoundedWaterAStar via a thin
// adapter, see the endpointRefiner type in package pathfinder).
type BoundedFinder interface {
	RefineSegment(path []terrain.Tile) ([]terrain.Tile, bool)
}

// SmoothingWaterTransformer applies the three-pass polyline smoother
// specified in spec §4.7 and §9 Open Questions resolution (c): LOS
// pass 1 (loose), endpoint refinement, LOS pass 2 (strict).
type SmoothingWaterTransformer struct {
	grid     *terrain.Grid
	inner    PathFinder
	refiner  BoundedFinder // may be nil to skip endpoint refinement
}

// NewSmoothingWaterTransformer wraps inner. refiner may be nil, in
// which case only the two LOS passes run.
func NewSmoothingWaterTransformer(grid *terrain.Grid, inner PathFinder, refiner BoundedFinder) *SmoothingWaterTransformer {
	return &SmoothingWaterTransformer{grid: grid, inner: inner, refiner: refiner}
}

func (s *SmoothingWaterTransformer) FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	path, ok := s.inner.FindPath(sources, target)
	if !ok {
		return nil, false
	}
	return s.Smooth(path), true
}

// Smooth runs the canonical LOS -> refine -> LOS pipeline over an
// already-computed dense path. Exposed directly so it can be re-run
// idempotently (spec §8 "running SmoothingWaterTransformer twice...
// yields the same result the second time").
func (s *SmoothingWaterTransformer) Smooth(path []terrain.Tile) []terrain.Tile {
	path = losSmoothPass(s.grid, path, losMagnitudePass1)
	path = s.refineEndpoints(path)
	path = losSmoothPass(s.grid, path, losMagnitudePass2)
	return path
}

// refineEndpoints re-plans the leading and trailing endpointRefineLen
// tiles via the bounded refiner, preserving the interior polyline
// (spec §4.7 pass 2).
func (s *SmoothingWaterTransformer) refineEndpoints(path []terrain.Tile) []terrain.Tile {
	if s.refiner == nil || len(path) < 3 {
		return path
	}

	headLen := endpointRefineLen
	if headLen > len(path)-1 {
		headLen = len(path) - 1
	}
	if headLen > 0 {
		if refined, ok := s.refiner.RefineSegment(path[:headLen+1]); ok && len(refined) > 0 {
			path = append(append([]terrain.Tile{}, refined...), path[headLen+1:]...)
		}
	}

	tailLen := endpointRefineLen
	if tailLen > len(path)-1 {
		tailLen = len(path) - 1
	}
	if tailLen > 0 {
		tailStart := len(path) - tailLen - 1
		if refined, ok := s.refiner.RefineSegment(path[tailStart:]); ok && len(refined) > 0 {
			path = append(append([]terrain.Tile{}, path[:tailStart]...), refined...)
		}
	}
	return path
}

func (s *SmoothingWaterTransformer) PlanSegments(sources []terrain.Tile, target terrain.Tile) (SegmentPlan, bool) {
	path, ok := s.FindPath(sources, target)
	if !ok {
		return SegmentPlan{}, false
	}
	return planFromDense(path, s.grid), true
}
