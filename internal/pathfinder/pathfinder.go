// Package pathfinder is the single entry point the rest of the game
// is meant to import (spec §6 "external interfaces"): everything else
// under internal/ is an implementation detail assembled here. It
// wires terrain loading, the three A* cores, the abstract graph, the
// transformer pipeline, and the parametric helpers into the handful
// of factory functions spec §6 names.
package pathfinder

import (
	"context"
	"fmt"

	"github.com/tidewake/pathengine/internal/astar"
	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/graph"
	"github.com/tidewake/pathengine/internal/hierarchical"
	"github.com/tidewake/pathengine/internal/parabola"
	"github.com/tidewake/pathengine/internal/pfconfig"
	"github.com/tidewake/pathengine/internal/pfrng"
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"
)

// LoadGrid parses the terrain byte layout into a TileGrid (spec §6
// "bit-exact terrain byte layout is a boundary format and is part of
// this contract").
func LoadGrid(data []byte, w, h int) (*terrain.Grid, error) {
	return terrain.LoadGrid(data, w, h)
}

// WaterOptions configures MakeWaterPathfinder (spec §6).
type WaterOptions struct {
	UseHierarchical bool
	UseMiniMap      bool
	Smoothing       string // "off" or "full"
	MaxIterations   int
	HeuristicWeight float64
	MaxSearchArea   int
	ClusterSize     int
}

// WaterOptionsFromConfig derives WaterOptions from a loaded pfconfig.
func WaterOptionsFromConfig(cfg pfconfig.Config, useHierarchical, useMiniMap bool, smoothing string) WaterOptions {
	return WaterOptions{
		UseHierarchical: useHierarchical,
		UseMiniMap:      useMiniMap,
		Smoothing:       smoothing,
		MaxIterations:   cfg.MaxIterations,
		HeuristicWeight: cfg.HeuristicWeight,
		MaxSearchArea:   cfg.MaxSearchArea,
		ClusterSize:     cfg.ClusterSize,
	}
}

// RailOptions configures MakeRailPathfinder (spec §6).
type RailOptions struct {
	DirectionChangePenalty float64
	WaterPenalty           float64
	HeuristicWeight        float64
	MaxIterations          int
}

// RailOptionsFromConfig derives RailOptions from a loaded pfconfig.
func RailOptionsFromConfig(cfg pfconfig.Config) RailOptions {
	return RailOptions{
		DirectionChangePenalty: float64(cfg.DirectionChangePenalty),
		WaterPenalty:           float64(cfg.WaterPenalty),
		HeuristicWeight:        cfg.HeuristicWeight,
		MaxIterations:          cfg.MaxIterations,
	}
}

// BuildAbstractGraph scans grid for gateway nodes and intra-cluster
// edges (spec §6 "buildAbstractGraph(grid, clusterSize=32)").
func BuildAbstractGraph(ctx context.Context, grid *terrain.Grid, clusterSize int) (*component.Components, *graph.Graph, error) {
	if clusterSize <= 0 {
		clusterSize = graph.DefaultClusterSize
	}
	comps := component.Build(grid)
	g, err := graph.Build(ctx, grid, comps, clusterSize)
	if err != nil {
		return nil, nil, fmt.Errorf("building abstract graph: %w", err)
	}
	return comps, g, nil
}

// MakeWaterPathfinder assembles the requested pipeline (hierarchical
// or unbounded core, optional mini-map downsampling, optional
// smoothing) behind a single Stepper, exactly as spec §4 describes
// the one-way control flow from consumer to core and back.
func MakeWaterPathfinder(ctx context.Context, grid *terrain.Grid, comps *component.Components, g *graph.Graph, opts WaterOptions) (*transform.Stepper, error) {
	core, err := buildWaterCore(ctx, grid, comps, g, opts)
	if err != nil {
		return nil, err
	}

	if opts.UseMiniMap {
		mini := terrain.BuildMiniGrid(grid)
		miniGrid, err := materializeMiniGrid(mini)
		if err != nil {
			return nil, fmt.Errorf("materializing mini-grid: %w", err)
		}
		miniComps := component.Build(miniGrid)
		var miniGraph *graph.Graph
		if opts.UseHierarchical {
			miniGraph, err = graph.Build(ctx, miniGrid, miniComps, opts.ClusterSize)
			if err != nil {
				return nil, fmt.Errorf("building mini-grid abstract graph: %w", err)
			}
		}
		miniCore, err := buildWaterCore(ctx, miniGrid, miniComps, miniGraph, opts)
		if err != nil {
			return nil, err
		}
		core = transform.NewMiniMapTransformer(grid, mini, miniCore)
	}

	if opts.Smoothing == "full" {
		refiner := &endpointRefiner{
			grid: grid,
			a:    astar.NewBoundedWaterAStar(grid, opts.MaxSearchArea, opts.HeuristicWeight, opts.MaxIterations),
		}
		core = transform.NewSmoothingWaterTransformer(grid, core, refiner)
	}

	return transform.NewStepper(grid, core), nil
}

func buildWaterCore(ctx context.Context, grid *terrain.Grid, comps *component.Components, g *graph.Graph, opts WaterOptions) (transform.PathFinder, error) {
	if !opts.UseHierarchical {
		return astar.NewUnboundedWaterAStar(grid, comps, opts.HeuristicWeight, opts.MaxIterations), nil
	}
	if g == nil {
		built, err := graph.Build(ctx, grid, comps, opts.ClusterSize)
		if err != nil {
			return nil, fmt.Errorf("building abstract graph for hierarchical core: %w", err)
		}
		g = built
	}
	return hierarchical.New(grid, comps, g, opts.HeuristicWeight, opts.MaxSearchArea, opts.MaxIterations), nil
}

// endpointRefiner adapts astar.BoundedWaterAStar to the
// transform.BoundedFinder capability smoothing's endpoint refinement
// pass needs.
type endpointRefiner struct {
	grid *terrain.Grid
	a    *astar.BoundedWaterAStar
}

func (e *endpointRefiner) RefineSegment(path []terrain.Tile) ([]terrain.Tile, bool) {
	if len(path) < 2 {
		return nil, false
	}
	minX, minY := e.grid.X(path[0]), e.grid.Y(path[0])
	maxX, maxY := minX, minY
	for _, t := range path {
		x, y := e.grid.X(t), e.grid.Y(t)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return e.a.FindPath(astar.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, []terrain.Tile{path[0]}, path[len(path)-1])
}

// materializeMiniGrid packs a MiniGrid's downsampled cells into a
// standalone TileGrid, so the full A* stack (which is typed to
// *terrain.Grid) can run over it unmodified instead of needing a
// parallel MiniGrid-flavoured implementation of every core.
func materializeMiniGrid(mini *terrain.MiniGrid) (*terrain.Grid, error) {
	w, h := mini.Width(), mini.Height()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := mini.Ref(x, y)
			land := mini.IsLand(t)
			data[y*w+x] = terrain.PackCell(land, !land, false, mini.Magnitude(t))
		}
	}
	return terrain.LoadGrid(data, w, h)
}

// MakeRailPathfinder builds a rail Finder (spec §6
// "makeRailPathfinder(grid, options)").
func MakeRailPathfinder(grid *terrain.Grid, opts RailOptions) *astar.RailPathfinder {
	return astar.NewRailPathfinder(grid, opts.WaterPenalty, opts.DirectionChangePenalty, opts.HeuristicWeight, opts.MaxIterations)
}

// NewParabolaPlanner builds a ParabolaPlanner for grid (spec §6).
func NewParabolaPlanner(grid *terrain.Grid) *parabola.Planner {
	return parabola.NewPlanner(grid)
}

// NewAirWalker builds an AirWalker for grid, seeded via rng (spec §6
// "AirWalker(grid, rng)").
func NewAirWalker(grid *terrain.Grid, rng pfrng.RNG, driftChance, maxDrift int) *parabola.AirWalker {
	return parabola.NewAirWalker(grid, rng, driftChance, maxDrift)
}
