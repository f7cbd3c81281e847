package pathfinder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/pfconfig"
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"
)

func openWaterData(w, h int) []byte {
	data := make([]byte, w*h)
	for i := range data {
		data[i] = terrain.PackCell(false, true, false, 5)
	}
	return data
}

func TestMakeWaterPathfinderUnboundedAdvancesStepper(t *testing.T) {
	data := openWaterData(16, 16)
	grid, err := LoadGrid(data, 16, 16)
	require.NoError(t, err)
	comps := component.Build(grid)

	opts := WaterOptions{MaxIterations: 10000, HeuristicWeight: 1.0}
	s, err := MakeWaterPathfinder(context.Background(), grid, comps, nil, opts)
	require.NoError(t, err)

	res := s.Next(grid.Ref(0, 0), grid.Ref(5, 5), 0)
	assert.Equal(t, transform.StatusNext, res.Status)
}

func TestMakeWaterPathfinderHierarchicalWithSmoothing(t *testing.T) {
	data := openWaterData(40, 40)
	grid, err := LoadGrid(data, 40, 40)
	require.NoError(t, err)

	comps, g, err := BuildAbstractGraph(context.Background(), grid, 8)
	require.NoError(t, err)

	opts := WaterOptions{
		UseHierarchical: true,
		Smoothing:       "full",
		MaxIterations:   50000,
		HeuristicWeight: 1.0,
		MaxSearchArea:   64 * 64,
		ClusterSize:     8,
	}
	s, err := MakeWaterPathfinder(context.Background(), grid, comps, g, opts)
	require.NoError(t, err)

	res := s.Next(grid.Ref(0, 0), grid.Ref(39, 39), 0)
	assert.Equal(t, transform.StatusNext, res.Status)
}

func TestMakeWaterPathfinderWithMiniMap(t *testing.T) {
	data := openWaterData(32, 32)
	grid, err := LoadGrid(data, 32, 32)
	require.NoError(t, err)
	comps := component.Build(grid)

	opts := WaterOptions{
		UseMiniMap:      true,
		MaxIterations:   50000,
		HeuristicWeight: 1.0,
	}
	s, err := MakeWaterPathfinder(context.Background(), grid, comps, nil, opts)
	require.NoError(t, err)

	res := s.Next(grid.Ref(0, 0), grid.Ref(31, 31), 0)
	assert.Equal(t, transform.StatusNext, res.Status)
}

func TestMakeRailPathfinderFindsPath(t *testing.T) {
	data := openWaterData(16, 4)
	grid, err := LoadGrid(data, 16, 4)
	require.NoError(t, err)

	rail := MakeRailPathfinder(grid, RailOptions{
		DirectionChangePenalty: 3,
		WaterPenalty:           5,
		HeuristicWeight:        1.0,
		MaxIterations:          10000,
	})
	path, ok := rail.FindPath([]terrain.Tile{grid.Ref(0, 0)}, grid.Ref(15, 0))
	require.True(t, ok)
	assert.Equal(t, grid.Ref(0, 0), path[0])
	assert.Equal(t, grid.Ref(15, 0), path[len(path)-1])
}

func TestWaterOptionsFromConfigCarriesFields(t *testing.T) {
	cfg := pfconfig.Default()
	opts := WaterOptionsFromConfig(cfg, true, false, "full")
	assert.True(t, opts.UseHierarchical)
	assert.Equal(t, "full", opts.Smoothing)
	assert.Equal(t, cfg.MaxIterations, opts.MaxIterations)
	assert.Equal(t, cfg.ClusterSize, opts.ClusterSize)
}

func TestRailOptionsFromConfigCarriesFields(t *testing.T) {
	cfg := pfconfig.Default()
	opts := RailOptionsFromConfig(cfg)
	assert.Equal(t, float64(cfg.DirectionChangePenalty), opts.DirectionChangePenalty)
	assert.Equal(t, float64(cfg.WaterPenalty), opts.WaterPenalty)
}

func TestBuildAbstractGraphProducesGateways(t *testing.T) {
	data := openWaterData(32, 32)
	grid, err := LoadGrid(data, 32, 32)
	require.NoError(t, err)

	_, g, err := BuildAbstractGraph(context.Background(), grid, 8)
	require.NoError(t, err)
	assert.Greater(t, g.NodeCount(), 0)
}
