package transform

import "github.com/tidewake/pathengine/internal/terrain"

// StepStatus is the stepper's tagged result discriminant, replacing
// the source's ad-hoc union return type with an integer tag (spec §9
// "PathResult<T>").
type StepStatus int

const (
	// StatusComplete means the unit has arrived (or from==to, or
	// from is already within the caller's stopping distance).
	StatusComplete StepStatus = iota
	// StatusNext carries the next tile to move toward.
	StatusNext
	// StatusNotFound means the inner finder could not produce a
	// path; the caller decides what to do (retreat, delete, etc.).
	StatusNotFound
)

// StepResult is returned by Stepper.Next.
type StepResult struct {
	Status StepStatus
	Tile   terrain.Tile
}

// Stepper wraps an inner PathFinder to provide per-tick single-step
// traversal with an implicit path cache (spec §4.7 PathFinderStepper).
type Stepper struct {
	grid  *terrain.Grid
	inner PathFinder

	hasCached  bool
	cachedPath []terrain.Tile
	cachedDest terrain.Tile
	idx        int
}

// NewStepper wraps inner.
func NewStepper(grid *terrain.Grid, inner PathFinder) *Stepper {
	return &Stepper{grid: grid, inner: inner}
}

// Invalidate discards the cached path, forcing the next Next call to
// recompute (spec §4.7 "explicit invalidate() for consumers that know
// the world changed").
func (s *Stepper) Invalidate() {
	s.hasCached = false
	s.cachedPath = nil
	s.idx = 0
}

// Next advances toward to from the unit's current position from.
// stopDistance, if > 0, short-circuits to StatusComplete once from is
// within that Manhattan distance of to, without computing a path
// (spec §4.7).
func (s *Stepper) Next(from, to terrain.Tile, stopDistance int) StepResult {
	if from == to {
		s.Invalidate()
		return StepResult{Status: StatusComplete}
	}
	if stopDistance > 0 && s.grid.ManhattanDist(from, to) <= stopDistance {
		s.Invalidate()
		return StepResult{Status: StatusComplete}
	}

	if s.hasCached && s.cachedDest != to {
		s.Invalidate()
	}
	if s.hasCached && !s.fromMatchesExpected(from) {
		s.Invalidate()
	}

	if !s.hasCached {
		path, ok := s.inner.FindPath([]terrain.Tile{from}, to)
		if !ok {
			return StepResult{Status: StatusNotFound}
		}
		s.cachedPath = path
		s.cachedDest = to
		s.idx = 0
		s.hasCached = true
	}

	if s.idx >= len(s.cachedPath)-1 {
		s.Invalidate()
		return StepResult{Status: StatusComplete}
	}
	s.idx++
	return StepResult{Status: StatusNext, Tile: s.cachedPath[s.idx]}
}

// fromMatchesExpected reports whether from is consistent with the
// cached path's current position: either exactly where the stepper
// expects the unit to be, or one step behind it (spec §3 "a stepper's
// cached path either starts at the unit's current position or at the
// position one step before it").
func (s *Stepper) fromMatchesExpected(from terrain.Tile) bool {
	if s.idx < len(s.cachedPath) && s.cachedPath[s.idx] == from {
		return true
	}
	if s.idx > 0 && s.cachedPath[s.idx-1] == from {
		return true
	}
	return false
}
