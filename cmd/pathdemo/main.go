// pathdemo exercises the pathfinder façade end to end against a
// synthetic or file-backed terrain grid: water stepping and the
// parabola/air-walk overlays, printing each tile as it advances. It
// does not run the rail pathfinder.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tidewake/pathengine/internal/parabola"
	"github.com/tidewake/pathengine/internal/pfconfig"
	"github.com/tidewake/pathengine/internal/pfrng"
	"github.com/tidewake/pathengine/internal/terrain"
	"github.com/tidewake/pathengine/internal/transform"

	"github.com/tidewake/pathengine/internal/pathfinder"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	terrainPath := flag.String("terrain", "", "path to a terrain byte file; if empty, a synthetic open-water grid is used")
	width := flag.Int("width", 64, "grid width (used for the synthetic grid, or to parse -terrain)")
	height := flag.Int("height", 64, "grid height (used for the synthetic grid, or to parse -terrain)")
	configPath := flag.String("config", "", "pathfinder config YAML (optional)")
	fromX := flag.Int("from-x", 0, "source x")
	fromY := flag.Int("from-y", 0, "source y")
	toX := flag.Int("to-x", 0, "target x")
	toY := flag.Int("to-y", 0, "target y")
	hierarchical := flag.Bool("hierarchical", true, "use the hierarchical water A* core")
	miniMap := flag.Bool("minimap", false, "downsample through the mini-grid first")
	smoothing := flag.String("smoothing", "full", "off or full")
	flag.Parse()

	if *toX == 0 && *toY == 0 {
		*toX, *toY = *width-1, *height-1
	}

	cfg, err := pfconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	grid, err := loadOrSynthesizeGrid(*terrainPath, *width, *height)
	if err != nil {
		return err
	}

	ctx := context.Background()
	comps, g, err := pathfinder.BuildAbstractGraph(ctx, grid, cfg.ClusterSize)
	if err != nil {
		return fmt.Errorf("building abstract graph: %w", err)
	}

	opts := pathfinder.WaterOptionsFromConfig(cfg, *hierarchical, *miniMap, *smoothing)
	stepper, err := pathfinder.MakeWaterPathfinder(ctx, grid, comps, g, opts)
	if err != nil {
		return fmt.Errorf("building water pathfinder: %w", err)
	}

	from, to := grid.Ref(*fromX, *fromY), grid.Ref(*toX, *toY)
	if err := walkStepper(grid, stepper, from, to); err != nil {
		return err
	}

	demoParabola(grid)
	demoAirWalk(grid)
	return nil
}

func loadOrSynthesizeGrid(path string, w, h int) (*terrain.Grid, error) {
	if path == "" {
		data := make([]byte, w*h)
		for i := range data {
			data[i] = terrain.PackCell(false, true, false, 5)
		}
		return pathfinder.LoadGrid(data, w, h)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading terrain file %s: %w", path, err)
	}
	return pathfinder.LoadGrid(data, w, h)
}

func walkStepper(grid *terrain.Grid, s *transform.Stepper, from, to terrain.Tile) error {
	pos := from
	for tick := 0; tick < 10000; tick++ {
		res := s.Next(pos, to, 0)
		switch res.Status {
		case transform.StatusComplete:
			slog.Info("arrived", "x", grid.X(pos), "y", grid.Y(pos), "ticks", tick)
			return nil
		case transform.StatusNotFound:
			return fmt.Errorf("no path from (%d,%d) to (%d,%d)", grid.X(from), grid.Y(from), grid.X(to), grid.Y(to))
		case transform.StatusNext:
			pos = res.Tile
			slog.Info("step", "x", grid.X(pos), "y", grid.Y(pos))
		}
	}
	return fmt.Errorf("exceeded demo tick budget without arriving")
}

func demoParabola(grid *terrain.Grid) {
	planner := pathfinder.NewParabolaPlanner(grid)
	orig := grid.Ref(0, grid.Height()-1)
	dst := grid.Ref(grid.Width()-1, grid.Height()-1)
	points := planner.Configure(orig, dst, parabola.DefaultMinHeight, 1)
	slog.Info("parabola arc", "points", len(points), "peak_y", minY(points))
}

func demoAirWalk(grid *terrain.Grid) {
	rng := pfrng.NewDefault(1)
	walker := pathfinder.NewAirWalker(grid, rng, 6, 2)
	from := grid.Ref(0, 0)
	to := grid.Ref(grid.Width()-1, grid.Height()-1)
	for i := 0; i < 5; i++ {
		pt, status := walker.Next(from, to)
		if status == parabola.WalkComplete {
			break
		}
		from = grid.Ref(pt.X, pt.Y)
		slog.Info("air step", "x", pt.X, "y", pt.Y)
	}
}

func minY(points []parabola.Point) int {
	if len(points) == 0 {
		return 0
	}
	m := points[0].Y
	for _, p := range points {
		if p.Y < m {
			m = p.Y
		}
	}
	return m
}
