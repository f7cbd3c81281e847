package hierarchical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/graph"
	"github.com/tidewake/pathengine/internal/terrain"
)

func buildHGrid(t *testing.T, rows []string) *terrain.Grid {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	data := make([]byte, w*h)
	for y, row := range rows {
		require.Len(t, row, w)
		for x, ch := range row {
			land := ch == '#'
			data[y*w+x] = terrain.PackCell(land, !land, false, 5)
		}
	}
	g, err := terrain.LoadGrid(data, w, h)
	require.NoError(t, err)
	return g
}

// the 8x8 scenario from the pathfinding spec's concrete end-to-end
// examples.
func specGrid(t *testing.T) *terrain.Grid {
	return buildHGrid(t, []string{
		"..#.....",
		"..#.....",
		"..#.....",
		"..#..##.",
		".....##.",
		"........",
		"........",
		"........",
	})
}

func newFinder(t *testing.T, g *terrain.Grid, clusterSize int) *Finder {
	t.Helper()
	comps := component.Build(g)
	gr, err := graph.Build(context.Background(), g, comps, clusterSize)
	require.NoError(t, err)
	return New(g, comps, gr, 1.0, 4096, 100000)
}

func TestFindPathRoutesAroundVerticalWall(t *testing.T) {
	g := specGrid(t)
	f := newFinder(t, g, 4)
	path, ok := f.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(7, 0))
	require.True(t, ok)
	assert.Equal(t, g.Ref(0, 0), path[0])
	assert.Equal(t, g.Ref(7, 0), path[len(path)-1])
	assert.InDelta(t, 14, len(path), 1)
}

func TestFindPathAvoidsIsland(t *testing.T) {
	g := specGrid(t)
	f := newFinder(t, g, 4)
	path, ok := f.FindPath([]terrain.Tile{g.Ref(3, 3)}, g.Ref(6, 3))
	require.True(t, ok)
	assert.Equal(t, g.Ref(3, 3), path[0])
	assert.Equal(t, g.Ref(6, 3), path[len(path)-1])
	assert.Equal(t, 5, len(path))
}

func TestFindPathMultiSourcePicksCloserSource(t *testing.T) {
	g := specGrid(t)
	f := newFinder(t, g, 4)
	path, ok := f.FindPath([]terrain.Tile{g.Ref(0, 0), g.Ref(0, 7)}, g.Ref(7, 4))
	require.True(t, ok)
	assert.Equal(t, g.Ref(0, 7), path[0])
	assert.Equal(t, g.Ref(7, 4), path[len(path)-1])
}

func TestFindPathTrivialSameTile(t *testing.T) {
	g := specGrid(t)
	f := newFinder(t, g, 4)
	path, ok := f.FindPath([]terrain.Tile{g.Ref(2, 5)}, g.Ref(2, 5))
	require.True(t, ok)
	assert.Equal(t, []terrain.Tile{g.Ref(2, 5)}, path)
}

func TestFindPathRejectsDisconnectedComponents(t *testing.T) {
	g := buildHGrid(t, []string{
		"...####...",
	})
	f := newFinder(t, g, 4)
	_, ok := f.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(9, 0))
	assert.False(t, ok)
}

func TestFindPathAcrossMultipleClusters(t *testing.T) {
	const size = 90 // distance (0,0)->(size-1,size-1) exceeds the short-path
	// threshold, forcing the full abstract-graph route.
	rows := make([]string, size)
	for y := range rows {
		row := make([]byte, size)
		for x := range row {
			row[x] = '.'
		}
		rows[y] = string(row)
	}
	g := buildHGrid(t, rows)
	f := newFinder(t, g, 8)
	path, ok := f.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(size-1, size-1))
	require.True(t, ok)
	assert.Equal(t, g.Ref(0, 0), path[0])
	assert.Equal(t, g.Ref(size-1, size-1), path[len(path)-1])
}
