// Package gridbfs implements 4-neighbour, stamp-based breadth-first
// search over a terrain.Grid, visitor-callback driven. Used for
// nearest-gateway-node search and for the intra-cluster edge scan that
// builds the abstract graph (spec §4.4 item "Grid BFS", §4.5, §4.6).
//
// Stamp-based visited tracking (spec §4.4, §9): rather than a
// map[Tile]struct{} that must be allocated and GC'd per search, BFS owns
// one []uint32 sized to the grid, bumped by a monotonic stamp each call —
// a tile is visited iff its stamp slot equals the current stamp. This
// turns "clear the visited set" into an O(1) increment.
package gridbfs

import "github.com/tidewake/pathengine/internal/terrain"

// BFS owns reusable stamped working memory for one grid. Not safe for
// concurrent reuse across goroutines (spec §5: callers must not invoke
// the same pathfinder instance re-entrantly).
type BFS struct {
	grid       *terrain.Grid
	visitStamp []uint32
	parent     []terrain.Tile
	stamp      uint32
}

// New allocates a BFS instance sized to g.
func New(g *terrain.Grid) *BFS {
	n := g.Width() * g.Height()
	return &BFS{
		grid:       g,
		visitStamp: make([]uint32, n),
		parent:     make([]terrain.Tile, n),
	}
}

func (b *BFS) bump() {
	b.stamp++
	if b.stamp == 0 { // overflow: bulk-clear and restart at 1
		for i := range b.visitStamp {
			b.visitStamp[i] = 0
		}
		b.stamp = 1
	}
}

func (b *BFS) visited(t terrain.Tile) bool { return b.visitStamp[t] == b.stamp }

func (b *BFS) markVisited(t terrain.Tile, parent terrain.Tile) {
	b.visitStamp[t] = b.stamp
	b.parent[t] = parent
}

// Predicate reports whether a tile may be entered/expanded during a walk.
type Predicate func(t terrain.Tile) bool

// Visitor is called once per dequeued tile, in BFS order, with its
// distance in steps from the nearest source. Returning false stops the
// search early (e.g. once a caller-chosen target set has been fully
// found).
type Visitor func(t terrain.Tile, dist int) (keepGoing bool)

// Walk runs a multi-source BFS from sources, calling visit for every
// reachable tile for which passable(tile) is true, up to maxDistance
// steps (or unlimited if maxDistance < 0). Sources themselves are visited
// at distance 0 regardless of passable, matching the multi-source
// A* convention in spec §4.4.
func (b *BFS) Walk(sources []terrain.Tile, passable Predicate, maxDistance int, visit Visitor) {
	b.bump()

	type queued struct {
		tile terrain.Tile
		dist int
	}
	q := make([]queued, 0, len(sources))
	for _, s := range sources {
		if b.visited(s) {
			continue
		}
		b.markVisited(s, s)
		q = append(q, queued{s, 0})
	}

	var nbrs [4]terrain.Tile
	head := 0
	for head < len(q) {
		cur := q[head]
		head++

		if !visit(cur.tile, cur.dist) {
			return
		}
		if maxDistance >= 0 && cur.dist >= maxDistance {
			continue
		}

		ns := b.grid.Neighbours(cur.tile, nbrs[:0])
		for _, nb := range ns {
			if b.visited(nb) {
				continue
			}
			if !passable(nb) {
				continue
			}
			b.markVisited(nb, cur.tile)
			q = append(q, queued{nb, cur.dist + 1})
		}
	}
}

// Parent returns the BFS-tree parent of t from the most recent Walk call.
// Only meaningful for tiles visited during that call.
func (b *BFS) Parent(t terrain.Tile) terrain.Tile { return b.parent[t] }

// Visited reports whether t was reached during the most recent Walk call.
func (b *BFS) Visited(t terrain.Tile) bool { return b.visited(t) }

// NearestMatching runs a BFS from sources and returns the first tile
// encountered for which match returns true (BFS order guarantees it is
// nearest by step count), along with the path length. ok is false if no
// matching tile is reached within maxDistance.
func NearestMatching(b *BFS, sources []terrain.Tile, passable Predicate, match Predicate, maxDistance int) (found terrain.Tile, dist int, ok bool) {
	b.Walk(sources, passable, maxDistance, func(t terrain.Tile, d int) bool {
		if match(t) {
			found, dist, ok = t, d, true
			return false
		}
		return true
	})
	return
}

// ReconstructPath walks BFS parent pointers from target back to its
// source and returns the tile sequence in source->target order. Only
// valid immediately after the Walk call that reached target.
func (b *BFS) ReconstructPath(target terrain.Tile) []terrain.Tile {
	path := []terrain.Tile{target}
	cur := target
	for b.parent[cur] != cur {
		cur = b.parent[cur]
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
