package astar

import "github.com/tidewake/pathengine/internal/pqueue"

// Adapter decouples A* from any particular domain: rails (tile nodes
// with a direction-change penalty) and the abstract graph (gateway
// nodes with integer intra-cluster costs) both drive the same search
// core through this interface (spec §4.4 "generic A* with an adapter",
// §9 "replace implicit coupling... with a small PathFinder capability").
type Adapter interface {
	// DomainSize returns the number of distinct node IDs the adapter can
	// produce (used to size the stamped working arrays once).
	DomainSize() int32
	// Neighbours appends node's outgoing neighbours to dst and returns
	// the extended slice.
	Neighbours(node int32, dst []int32) []int32
	// Cost returns the edge cost from `from` to `to`. ok is false if the
	// edge is impassable.
	Cost(from, to int32) (cost float64, ok bool)
	// Heuristic returns the estimated remaining cost from node to
	// target. Must be an admissible (or intentionally over-weighted)
	// distance estimate for the tie-breaking guarantees in spec §5 to
	// hold.
	Heuristic(node, target int32) float64
	// MaxPriority returns the highest integer priority FindPath will
	// ever push, enabling a bucket queue; a negative value requests the
	// binary heap instead (spec §4.2: "bucket queue... requires... a
	// known upper bound").
	MaxPriority() int
	// MaxNeighbors bounds the per-node neighbour fan-out, so callers can
	// size a reusable neighbour buffer up-front.
	MaxNeighbors() int
}

// GenericAStar runs A* over any Adapter's domain, sharing the same
// stamp-based working-memory scheme as the water variants.
type GenericAStar struct {
	adapter       Adapter
	maxIterations int
	set           *stampSet
	queue         pqueue.Queue
	nbrBuf        []int32
	Stats
}

// NewGenericAStar constructs a reusable generic A* over adapter's
// domain.
func NewGenericAStar(adapter Adapter, maxIterations int) *GenericAStar {
	if maxIterations <= 0 {
		panic("astar: maxIterations must be > 0")
	}
	var q pqueue.Queue
	if mp := adapter.MaxPriority(); mp >= 0 {
		q = pqueue.NewBucketQueue(mp)
	} else {
		q = pqueue.NewBinaryHeap(256)
	}
	return &GenericAStar{
		adapter:       adapter,
		maxIterations: maxIterations,
		set:           newStampSet(int(adapter.DomainSize())),
		queue:         q,
		nbrBuf:        make([]int32, 0, adapter.MaxNeighbors()),
	}
}

// FindPath runs multi-source A* from any of sources to target over the
// adapter's domain. Returns the path, its total cost and true; returns
// (nil, 0, false) on exhaustion or if no path exists.
func (a *GenericAStar) FindPath(sources []int32, target int32) ([]int32, float64, bool) {
	if len(sources) == 0 {
		return nil, 0, false
	}
	for _, s := range sources {
		if s == target {
			return []int32{target}, 0, true
		}
	}

	a.set.bump()
	a.queue.Clear()

	for idx, s := range sources {
		h := a.adapter.Heuristic(s, target)
		a.set.setG(s, 0, s, int32(idx))
		a.queue.Push(s, h)
	}

	iterations := 0
	for !a.queue.IsEmpty() {
		if iterations >= a.maxIterations {
			a.recordExhausted()
			return nil, 0, false
		}
		iterations++

		cur, _ := a.queue.Pop()
		if a.set.isClosed(cur) {
			continue
		}
		a.set.close(cur)

		if cur == target {
			return a.reconstruct(cur), a.set.gScore[cur], true
		}

		curG := a.set.gScore[cur]
		a.nbrBuf = a.adapter.Neighbours(cur, a.nbrBuf[:0])
		for _, nb := range a.nbrBuf {
			if a.set.isClosed(nb) {
				continue
			}
			cost, ok := a.adapter.Cost(cur, nb)
			if !ok {
				continue
			}
			g := curG + cost
			if a.set.hasG(nb) && g >= a.set.gScore[nb] {
				continue
			}
			a.set.setG(nb, g, cur, a.set.origin[cur])
			h := a.adapter.Heuristic(nb, target)
			a.queue.Push(nb, g+h)
		}
	}
	a.recordExhausted()
	return nil, 0, false
}

func (a *GenericAStar) reconstruct(target int32) []int32 {
	path := []int32{target}
	cur := target
	for a.set.cameFrom[cur] != cur {
		cur = a.set.cameFrom[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
