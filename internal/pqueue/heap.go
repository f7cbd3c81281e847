// Package pqueue implements the two priority-queue strategies pathfinding
// needs: a binary min-heap for arbitrary float priorities, and a bucket
// queue for small non-negative integer priorities. Both share the same
// push/pop/isEmpty/clear contract so A* variants can swap one for the
// other without touching search logic.
//
// The binary heap generalizes the teacher geo engine's container/heap
// based nodeHeap (internal/game/geo/pathfinding.go) from *geoNode to a
// generic Tile-keyed queue.
package pqueue

import "container/heap"

// Queue is the shared priority-queue contract.
type Queue interface {
	Push(node int32, priority float64)
	Pop() (node int32, ok bool)
	Len() int
	IsEmpty() bool
	Clear()
}

type heapEntry struct {
	node     int32
	priority float64
	index    int
}

type heapSlice []*heapEntry

func (h heapSlice) Len() int            { return len(h) }
func (h heapSlice) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h heapSlice) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *heapSlice) Push(x any) {
	e := x.(*heapEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *heapSlice) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// BinaryHeap is a flat binary min-heap keyed by arbitrary float64
// priorities. Push/Pop are O(log n). Use for the unbounded water A*,
// where per-tile cost is a real number (magnitude penalty + cross-product
// tie-break, spec §4.4).
type BinaryHeap struct {
	h heapSlice
}

// NewBinaryHeap returns an empty binary heap, optionally pre-sizing its
// backing array to reduce early reallocation.
func NewBinaryHeap(capacityHint int) *BinaryHeap {
	return &BinaryHeap{h: make(heapSlice, 0, capacityHint)}
}

// Push inserts node with the given priority.
func (q *BinaryHeap) Push(node int32, priority float64) {
	heap.Push(&q.h, &heapEntry{node: node, priority: priority})
}

// Pop removes and returns the lowest-priority node. ok is false if the
// queue is empty.
func (q *BinaryHeap) Pop() (int32, bool) {
	if len(q.h) == 0 {
		return 0, false
	}
	e := heap.Pop(&q.h).(*heapEntry)
	return e.node, true
}

// Len returns the number of queued entries.
func (q *BinaryHeap) Len() int { return len(q.h) }

// IsEmpty reports whether the queue has no entries.
func (q *BinaryHeap) IsEmpty() bool { return len(q.h) == 0 }

// Clear empties the queue, keeping its backing array for reuse.
func (q *BinaryHeap) Clear() { q.h = q.h[:0] }
