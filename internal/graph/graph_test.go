package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/terrain"
)

func buildGraphGrid(t *testing.T, rows []string) *terrain.Grid {
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

func TestBuildPlacesGatewayOnSingleCrossing(t *testing.T) {
	rows := make([]string, 4)
	for i := range rows {
		s := ""
		for x := 0; x < 8; x++ {
			s += "."
		}
		rows[i] = s
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	graph, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)
	assert.Greater(t, graph.NodeCount(), 0)
}

func TestBuildNoCrossingWhenBoundaryIsLand(t *testing.T) {
	rows := []string{
		"...#....",
		"...#....",
		"...#....",
		"...#....",
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	graph, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, graph.NodeCount())
}

func TestEdgesHaveCanonicalOrdering(t *testing.T) {
	rows := make([]string, 8)
	for i := range rows {
		s := ""
		for x := 0; x < 8; x++ {
			s += "."
		}
		rows[i] = s
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	graph, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)
	for i := 0; i < graph.EdgeCount(); i++ {
		e := graph.Edge(int32(i))
		assert.Less(t, e.NodeA, e.NodeB)
	}
}

func TestPathCacheFirstWriterWins(t *testing.T) {
	rows := make([]string, 8)
	for i := range rows {
		s := ""
		for x := 0; x < 8; x++ {
			s += "."
		}
		rows[i] = s
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	graph, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)
	require.Greater(t, graph.EdgeCount(), 0)

	first := []terrain.Tile{g.Ref(0, 0), g.Ref(1, 0)}
	second := []terrain.Tile{g.Ref(0, 0), g.Ref(0, 1), g.Ref(1, 0)}

	ok1 := graph.StorePath(0, DirAToB, first)
	ok2 := graph.StorePath(0, DirAToB, second)
	assert.True(t, ok1)
	assert.False(t, ok2)

	stored, found := graph.CachedPath(0, DirAToB)
	require.True(t, found)
	assert.Equal(t, first, stored)

	_, found = graph.CachedPath(0, DirBToA)
	assert.False(t, found)
}

func TestClusterOfAndRect(t *testing.T) {
	rows := make([]string, 8)
	for i := range rows {
		s := ""
		for x := 0; x < 8; x++ {
			s += "."
		}
		rows[i] = s
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	graph, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)

	cx, cy := graph.ClusterOf(5, 5)
	assert.Equal(t, 1, cx)
	assert.Equal(t, 1, cy)

	minX, minY, maxX, maxY := graph.ClusterRect(1, 1)
	assert.Equal(t, 4, minX)
	assert.Equal(t, 4, minY)
	assert.Equal(t, 7, maxX)
	assert.Equal(t, 7, maxY)
}

func TestAssembleReproducesClusterMembership(t *testing.T) {
	rows := make([]string, 8)
	for i := range rows {
		s := ""
		for x := 0; x < 8; x++ {
			s += "."
		}
		rows[i] = s
	}
	g := buildGraphGrid(t, rows)
	comps := component.Build(g)
	built, err := Build(context.Background(), g, comps, 4)
	require.NoError(t, err)

	cols, rows2 := built.ClusterDims()
	membership := make(map[int32][][2]int)
	for cx := 0; cx < cols; cx++ {
		for cy := 0; cy < rows2; cy++ {
			for _, id := range built.NodesInCluster(cx, cy) {
				membership[id] = append(membership[id], [2]int{cx, cy})
			}
		}
	}

	reassembled := Assemble(g, built.ClusterSize(), append([]Node{}, nodesOf(built)...), append([]Edge{}, edgesOf(built)...), membership)
	assert.Equal(t, built.NodeCount(), reassembled.NodeCount())
	assert.Equal(t, built.EdgeCount(), reassembled.EdgeCount())
	for cx := 0; cx < cols; cx++ {
		for cy := 0; cy < rows2; cy++ {
			assert.ElementsMatch(t, built.NodesInCluster(cx, cy), reassembled.NodesInCluster(cx, cy))
		}
	}
}

func nodesOf(g *Graph) []Node {
	out := make([]Node, g.NodeCount())
	for i := range out {
		out[i] = g.Node(int32(i))
	}
	return out
}

func edgesOf(g *Graph) []Edge {
	out := make([]Edge, g.EdgeCount())
	for i := range out {
		out[i] = g.Edge(int32(i))
	}
	return out
}
