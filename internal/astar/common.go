// Package astar implements the three A* variants spec.md §4.4 settles on
// as canonical (per the Open Questions resolution in spec.md §9): an
// unbounded water A* over the whole grid, a bounded water A* restricted
// to an axis-aligned rectangle, and a generic adapter-driven A* used for
// rail units and for building the abstract graph's intra-cluster edges.
//
// All three share the stamp-based working-memory scheme the teacher's
// geo engine uses for its closed set (internal/game/geo/pathfinding.go),
// generalized from a map[nodeKey]struct{} to a flat stamped array per
// spec.md §9's note against allocating map-backed closed sets in hot
// search loops: stamp++ on each call; a slot's data is live iff its
// recorded stamp equals the current one, which turns "clear everything"
// into an O(1) increment instead of a bulk zero.
package astar

import "sync/atomic"

// stampSet is the reusable per-instance working memory shared by every
// A* variant in this package: g-scores, parent pointers, and the
// monotonic stamp that makes them "live" only for the duration of one
// search. Each A* instance owns exactly one stampSet, sized once at
// construction and reused across every subsequent FindPath call (spec
// §5, §9).
type stampSet struct {
	gScoreStamp []uint32
	gScore      []float64
	cameFrom    []int32 // -1 sentinel = no parent (this node is a source)
	origin      []int32 // index of the multi-source entry that reached this node first
	closedStamp []uint32
	stamp       uint32
}

func newStampSet(size int) *stampSet {
	return &stampSet{
		gScoreStamp: make([]uint32, size),
		gScore:      make([]float64, size),
		cameFrom:    make([]int32, size),
		origin:      make([]int32, size),
		closedStamp: make([]uint32, size),
	}
}

// bump advances the stamp, bulk-clearing on 32-bit overflow (spec §4.4,
// §8: "stamp overflow correctly bulk-clears and continues").
func (s *stampSet) bump() {
	s.stamp++
	if s.stamp == 0 {
		for i := range s.gScoreStamp {
			s.gScoreStamp[i] = 0
			s.closedStamp[i] = 0
		}
		s.stamp = 1
	}
}

func (s *stampSet) hasG(i int32) bool    { return s.gScoreStamp[i] == s.stamp }
func (s *stampSet) isClosed(i int32) bool { return s.closedStamp[i] == s.stamp }
func (s *stampSet) close(i int32)        { s.closedStamp[i] = s.stamp }

func (s *stampSet) setG(i int32, g float64, parent int32, originIdx int32) {
	s.gScoreStamp[i] = s.stamp
	s.gScore[i] = g
	s.cameFrom[i] = parent
	s.origin[i] = originIdx
}

// Stats exposes the exhaustion metric spec.md §7 asks a bounded search to
// record ("it records a metric but does not throw") without surfacing it
// as an error. Supplemented ambient observability, not part of the core
// contract (spec.md §6 exposes no such accessor) — see SPEC_FULL.md.
type Stats struct {
	exhausted atomic.Int64
}

// Exhausted returns the number of FindPath calls that ran out of
// maxIterations without finding a path.
func (s *Stats) Exhausted() int64 { return s.exhausted.Load() }

func (s *Stats) recordExhausted() { s.exhausted.Add(1) }

// magnitude cost bands (spec §4.4): shallows are expensive, the 3..10
// lane off the shore is free, and the deep centre carries a small extra.
const (
	baseCost          = 1.0
	shallowPenalty    = 4.0
	deepPenalty       = 0.75
	sweetSpotMinMag   = 3
	sweetSpotMaxMag   = 10
	crossBiasScale    = 1.0 / 1024.0 // keeps the bias inside the fractional part of one unit cost
)

func magnitudePenalty(m int) float64 {
	switch {
	case m < sweetSpotMinMag:
		return shallowPenalty
	case m <= sweetSpotMaxMag:
		return 0
	default:
		return deepPenalty
	}
}

// crossProductBias nudges the search toward the straight line from the
// node's origin through the goal, breaking ties between equal-f paths
// (spec §4.4, §5 "tie-breaking is specified").
func crossProductBias(startX, startY, goalX, goalY, curX, curY int) float64 {
	dx1, dy1 := goalX-startX, goalY-startY
	dx2, dy2 := goalX-curX, goalY-curY
	cross := dx1*dy2 - dx2*dy1
	if cross < 0 {
		cross = -cross
	}
	// |cross| never exceeds the product of the two Manhattan lengths, so
	// the ratio lies in [0, 1] and the scaled bias stays below one unit.
	span := (abs(dx1) + abs(dy1)) * (abs(dx2) + abs(dy2))
	if span == 0 {
		return 0
	}
	return float64(cross) / float64(span) * crossBiasScale
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func manhattan(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}
