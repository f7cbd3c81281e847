package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineAdapter is a trivial Adapter over a 1-D chain of n nodes, 0..n-1,
// each connected to its immediate neighbours at unit cost. Used to
// exercise GenericAStar's engine independent of any real domain.
type lineAdapter struct {
	n         int
	blocked   map[int32]bool
	maxPrio   int
}

func (l *lineAdapter) DomainSize() int32 { return int32(l.n) }

func (l *lineAdapter) Neighbours(node int32, dst []int32) []int32 {
	if node > 0 {
		dst = append(dst, node-1)
	}
	if node < int32(l.n-1) {
		dst = append(dst, node+1)
	}
	return dst
}

func (l *lineAdapter) Cost(from, to int32) (float64, bool) {
	if l.blocked != nil && l.blocked[to] {
		return 0, false
	}
	return 1, true
}

func (l *lineAdapter) Heuristic(node, target int32) float64 {
	d := node - target
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func (l *lineAdapter) MaxPriority() int  { return l.maxPrio }
func (l *lineAdapter) MaxNeighbors() int { return 2 }

func TestGenericAStarFindsShortestPath(t *testing.T) {
	adapter := &lineAdapter{n: 10, maxPrio: -1}
	a := NewGenericAStar(adapter, 1000)
	path, cost, ok := a.FindPath([]int32{0}, 9)
	require.True(t, ok)
	assert.Equal(t, float64(9), cost)
	require.Len(t, path, 10)
	assert.Equal(t, int32(0), path[0])
	assert.Equal(t, int32(9), path[9])
}

func TestGenericAStarUsesBucketQueueWhenMaxPriorityNonNegative(t *testing.T) {
	adapter := &lineAdapter{n: 10, maxPrio: 20}
	a := NewGenericAStar(adapter, 1000)
	path, cost, found := a.FindPath([]int32{0}, 5)
	require.True(t, found)
	assert.Equal(t, float64(5), cost)
	assert.Len(t, path, 6)
}

func TestGenericAStarRespectsBlockedEdges(t *testing.T) {
	adapter := &lineAdapter{n: 10, maxPrio: -1, blocked: map[int32]bool{5: true}}
	a := NewGenericAStar(adapter, 1000)
	_, _, ok := a.FindPath([]int32{0}, 9)
	assert.False(t, ok)
}

func TestGenericAStarExhaustsWithinIterationBudget(t *testing.T) {
	adapter := &lineAdapter{n: 1000, maxPrio: -1}
	a := NewGenericAStar(adapter, 3)
	_, _, ok := a.FindPath([]int32{0}, 999)
	assert.False(t, ok)
	assert.Equal(t, int64(1), a.Exhausted())
}

func TestGenericAStarTrivialSameNode(t *testing.T) {
	adapter := &lineAdapter{n: 10, maxPrio: -1}
	a := NewGenericAStar(adapter, 100)
	path, cost, ok := a.FindPath([]int32{4}, 4)
	require.True(t, ok)
	assert.Equal(t, []int32{4}, path)
	assert.Equal(t, float64(0), cost)
}

func TestGenericAStarMultiSourcePicksNearest(t *testing.T) {
	adapter := &lineAdapter{n: 20, maxPrio: -1}
	a := NewGenericAStar(adapter, 1000)
	path, cost, ok := a.FindPath([]int32{0, 18}, 15)
	require.True(t, ok)
	assert.Equal(t, float64(3), cost)
	assert.Equal(t, int32(18), path[0])
}
