package astar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/terrain"
)

func TestRailNodeRoundTrip(t *testing.T) {
	tile := terrain.Tile(42)
	node := RailNode(tile, DirEast)
	assert.Equal(t, tile, RailTile(node))
	assert.Equal(t, DirEast, RailDir(node))
}

func TestRailPathfinderPrefersLandOverWater(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"#####",
		".....",
	})
	rp := NewRailPathfinder(g, 10.0, 0.0, 1.0, 10000)
	path, ok := rp.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(4, 0))
	require.True(t, ok)
	for _, tile := range path {
		assert.True(t, g.IsLand(tile), "expected rail path to stay on land when water is heavily penalised")
	}
}

func TestRailPathfinderPenalisesDirectionChanges(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"#####",
		"#####",
		"#####",
	})
	// a straight route along row 1 costs 4 steps with no turns; a route
	// that dips through row 0/2 would pay extra turning penalties, so with
	// a heavy direction-change penalty the straight route must win.
	rp := NewRailPathfinder(g, 0.0, 50.0, 1.0, 10000)
	path, ok := rp.FindPath([]terrain.Tile{g.Ref(0, 1)}, g.Ref(4, 1))
	require.True(t, ok)
	for _, tile := range path {
		assert.Equal(t, 1, g.Y(tile))
	}
}

func TestRailPathfinderExhaustsWithinIterationBudget(t *testing.T) {
	g := buildWaterGrid(t, []string{
		"##########",
	})
	rp := NewRailPathfinder(g, 0.0, 0.0, 1.0, 2)
	_, ok := rp.FindPath([]terrain.Tile{g.Ref(0, 0)}, g.Ref(9, 0))
	assert.False(t, ok)
}

func TestRailAdapterSatisfiesAdapterInterface(t *testing.T) {
	g := buildWaterGrid(t, []string{"..."})
	var _ Adapter = NewRailAdapter(g, 1, 1, 1)
}
