package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/terrain"
)

func buildWaterGrid(t *testing.T, rows []string) *terrain.Grid {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	data := make([]byte, w*h)
	for y, row := range rows {
		require.Len(t, row, w)
		for x, ch := range row {
			land := ch == '#'
			mag := 5
			if ch == 's' {
				mag = 1
			} else if ch == 'd' {
				mag = 20
			}
			data[y*w+x] = terrain.PackCell(land, !land, false, mag)
		}
	}
	g, err := terrain.LoadGrid(data, w, h)
	require.NoError(t, err)
	return g
}

func TestUnboundedWaterAStarFindsPath(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"......",
		".####.",
		"......",
	})
	a := NewUnboundedWaterAStar(g, nil, 1.0, 10000)
	path, ok := a.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(5, 0))
	require.True(t, ok)
	assert.Equal(t, g.Ref(0, 0), path[0])
	assert.Equal(t, g.Ref(5, 0), path[len(path)-1])
}

func TestUnboundedWaterAStarRejectsDisconnectedComponents(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"..####..",
	})
	comps := component.Build(g)
	a := NewUnboundedWaterAStar(g, comps, 1.0, 10000)
	_, ok := a.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(7, 0))
	assert.False(t, ok)
}

func TestUnboundedWaterAStarTrivialSameTile(t *testing.T) {
	g := buildWaterGrid(t, []string{"..."})
	a := NewUnboundedWaterAStar(g, nil, 1.0, 100)
	path, ok := a.FindPath([]terrain.Tile{g.Ref(1, 0)}, g.Ref(1, 0))
	require.True(t, ok)
	assert.Equal(t, []terrain.Tile{g.Ref(1, 0)}, path)
}

func TestUnboundedWaterAStarExhaustsWithinBudget(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"..####..",
	})
	a := NewUnboundedWaterAStar(g, nil, 1.0, 4)
	_, ok := a.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(7, 0))
	assert.False(t, ok)
	assert.Equal(t, int64(1), a.Exhausted())
}

func TestUnboundedWaterAStarPrefersSweetSpotMagnitude(t *testing.T) {
	// a shallow lane costs more per step than the 3..10 sweet spot lane,
	// so the search should avoid it when an alternative route exists.
	g := buildWaterGrid(t, []string{
		"sssssss",
		".......",
	})
	a := NewUnboundedWaterAStar(g, nil, 1.0, 10000)
	path, ok := a.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(6, 0))
	require.True(t, ok)
	for _, tile := range path[1 : len(path)-1] {
		assert.Equal(t, 1, g.Y(tile), "expected path to route through the cheaper row")
	}
}

func TestBoundedWaterAStarRejectsOversizedRect(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"....",
		"....",
	})
	a := NewBoundedWaterAStar(g, 4, 1.0, 1000)
	_, ok := a.FindPath(Rect{0, 0, 3, 1}, []terrain.Tile{g.Ref(0, 0)}, g.Ref(3, 1))
	assert.False(t, ok)
}

func TestBoundedWaterAStarRejectsTargetOutsideRect(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"......",
	})
	a := NewBoundedWaterAStar(g, 36, 1.0, 1000)
	_, ok := a.FindPath(Rect{0, 0, 2, 0}, []terrain.Tile{g.Ref(0, 0)}, g.Ref(5, 0))
	assert.False(t, ok)
}

func TestBoundedWaterAStarFindsPathWithinRect(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"......",
		"......",
	})
	a := NewBoundedWaterAStar(g, 36, 1.0, 1000)
	path, ok := a.FindPath(Rect{0, 0, 5, 1}, []terrain.Tile{g.Ref(0, 0)}, g.Ref(5, 1))
	require.True(t, ok)
	assert.Equal(t, g.Ref(0, 0), path[0])
	assert.Equal(t, g.Ref(5, 1), path[len(path)-1])
}

func TestBoundedWaterAStarReconstructOrdersSourceToTarget(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"....",
	})
	a := NewBoundedWaterAStar(g, 16, 1.0, 1000)
	path, ok := a.FindPath(Rect{0, 0, 3, 0}, []terrain.Tile{g.Ref(0, 0)}, g.Ref(3, 0))
	require.True(t, ok)
	require.Len(t, path, 4)
	for i, tile := range path {
		assert.Equal(t, g.Ref(i, 0), tile)
	}
}

func TestBoundedWaterAStarReusableAcrossCalls(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"....",
	})
	a := NewBoundedWaterAStar(g, 16, 1.0, 1000)
	for i := 0; i < 3; i++ {
		path, ok := a.FindPath(Rect{0, 0, 3, 0}, []terrain.Tile{g.Ref(0, 0)}, g.Ref(3, 0))
		require.True(t, ok)
		assert.Len(t, path, 4)
	}
}
