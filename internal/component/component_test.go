package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/terrain"
)

func buildGrid(t *testing.T, rows []string) *terrain.Grid {
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

func TestSingleComponentAllWater(t *testing.T) {
	g := buildGrid(t, []string{
		"....",
		"....",
		"....",
	})
	c := Build(g)
	assert.Equal(t, uint32(1), c.Count())
	assert.True(t, c.SameComponent(g.Ref(0, 0), g.Ref(3, 2)))
}

func TestLandTilesAreComponentZero(t *testing.T) {
	g := buildGrid(t, []string{
		"##",
		"..",
	})
	c := Build(g)
	assert.Equal(t, Land, c.ComponentID(g.Ref(0, 0)))
	assert.Equal(t, Land, c.ComponentID(g.Ref(1, 0)))
	assert.NotEqual(t, Land, c.ComponentID(g.Ref(0, 1)))
}

func TestDisconnectedWaterComponents(t *testing.T) {
	g := buildGrid(t, []string{
		"..#..",
		"..#..",
		"..#..",
	})
	c := Build(g)
	assert.Equal(t, uint32(2), c.Count())
	left := g.Ref(0, 0)
	right := g.Ref(4, 0)
	assert.False(t, c.SameComponent(left, right))
	assert.True(t, c.SameComponent(left, g.Ref(1, 2)))
	assert.True(t, c.SameComponent(right, g.Ref(3, 2)))
}

func TestDiagonalWaterIsNotConnected(t *testing.T) {
	// 4-connectivity only: corner-touching water tiles across a land
	// diagonal are NOT the same component.
	g := buildGrid(t, []string{
		".#",
		"#.",
	})
	c := Build(g)
	assert.False(t, c.SameComponent(g.Ref(0, 0), g.Ref(1, 1)))
}
