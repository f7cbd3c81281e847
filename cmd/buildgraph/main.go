// buildgraph precomputes a terrain grid's abstract graph once and
// persists it, so every pathfinder process that loads the same grid
// can reuse it instead of rebuilding it on startup (spec §6
// "buildAbstractGraph(grid, clusterSize=32)").
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidewake/pathengine/internal/graphstore"
	"github.com/tidewake/pathengine/internal/pathfinder"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	terrainPath := flag.String("terrain", "", "path to the terrain byte file (required)")
	width := flag.Int("width", 0, "grid width in tiles (required)")
	height := flag.Int("height", 0, "grid height in tiles (required)")
	clusterSize := flag.Int("cluster-size", 32, "abstract graph cluster edge length")
	dsn := flag.String("dsn", "", "PostgreSQL DSN to persist the graph to (required)")
	key := flag.String("key", "default", "storage key to save the graph under")
	flag.Parse()

	if *terrainPath == "" || *width <= 0 || *height <= 0 || *dsn == "" {
		return fmt.Errorf("terrain, width, height, and dsn are all required")
	}

	data, err := os.ReadFile(*terrainPath)
	if err != nil {
		return fmt.Errorf("reading terrain file %s: %w", *terrainPath, err)
	}

	grid, err := pathfinder.LoadGrid(data, *width, *height)
	if err != nil {
		return fmt.Errorf("loading grid: %w", err)
	}

	slog.Info("building abstract graph", "width", *width, "height", *height, "cluster_size", *clusterSize)
	_, g, err := pathfinder.BuildAbstractGraph(ctx, grid, *clusterSize)
	if err != nil {
		return fmt.Errorf("building abstract graph: %w", err)
	}
	slog.Info("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if err := graphstore.RunMigrations(ctx, *dsn); err != nil {
		return fmt.Errorf("running graph store migrations: %w", err)
	}

	store, err := graphstore.New(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("connecting to graph store: %w", err)
	}
	defer store.Close()

	if err := store.SaveGraph(ctx, *key, grid, g); err != nil {
		return fmt.Errorf("saving graph %q: %w", *key, err)
	}
	slog.Info("graph persisted", "key", *key)
	return nil
}
