// Package graphstore persists a built abstract graph (internal/graph)
// to PostgreSQL, so a fleet of pathfinder processes can load a
// precomputed graph instead of rebuilding it from the terrain grid on
// every startup (spec §6 "persist and reload the abstract graph").
//
// Grounded on the teacher's internal/db package: pgxpool connection
// management (db.go), goose migrations against an embedded FS
// (migrate.go), and table-per-concern repository methods
// (repository.go).
package graphstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/tidewake/pathengine/internal/graph"
	"github.com/tidewake/pathengine/internal/graphstore/migrations"
	"github.com/tidewake/pathengine/internal/terrain"
)

var gooseOnce sync.Once

// Store wraps a pgx connection pool for abstract-graph persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a Store handle.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to graph store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging graph store: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() { s.pool.Close() }

// Pool returns the underlying pgx pool.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// RunMigrations applies every pending goose migration embedded in
// migrations.FS.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for graph migrations: %w", err)
	}
	defer sqlDB.Close()

	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		dialectErr = goose.SetDialect("postgres")
	})
	if dialectErr != nil {
		return fmt.Errorf("setting goose dialect: %w", dialectErr)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running graph migrations: %w", err)
	}
	return nil
}

// SaveGraph persists g under gridKey, replacing anything previously
// stored under the same key.
func (s *Store) SaveGraph(ctx context.Context, gridKey string, grid *terrain.Grid, g *graph.Graph) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning graph save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM graph_meta WHERE grid_key = $1`, gridKey); err != nil {
		return fmt.Errorf("clearing previous graph %q: %w", gridKey, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO graph_meta (grid_key, cluster_size, grid_width, grid_height) VALUES ($1, $2, $3, $4)`,
		gridKey, g.ClusterSize(), grid.Width(), grid.Height(),
	); err != nil {
		return fmt.Errorf("inserting graph meta %q: %w", gridKey, err)
	}

	for i := 0; i < g.NodeCount(); i++ {
		n := g.Node(int32(i))
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_nodes (grid_key, id, x, y, tile, component_id) VALUES ($1, $2, $3, $4, $5, $6)`,
			gridKey, n.ID, n.X, n.Y, int64(n.Tile), int64(n.ComponentID),
		); err != nil {
			return fmt.Errorf("inserting node %d: %w", n.ID, err)
		}
	}

	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(int32(i))
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_edges (grid_key, id, node_a, node_b, cost, cluster_x, cluster_y) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			gridKey, e.ID, e.NodeA, e.NodeB, e.Cost, e.ClusterX, e.ClusterY,
		); err != nil {
			return fmt.Errorf("inserting edge %d: %w", e.ID, err)
		}
	}

	cols, rows := g.ClusterDims()
	for cx := 0; cx < cols; cx++ {
		for cy := 0; cy < rows; cy++ {
			for _, nodeID := range g.NodesInCluster(cx, cy) {
				if _, err := tx.Exec(ctx,
					`INSERT INTO graph_cluster_nodes (grid_key, cluster_x, cluster_y, node_id) VALUES ($1, $2, $3, $4)`,
					gridKey, cx, cy, nodeID,
				); err != nil {
					return fmt.Errorf("inserting cluster membership for node %d: %w", nodeID, err)
				}
			}
		}
	}

	return tx.Commit(ctx)
}

// LoadGraph reconstructs a graph.Graph previously saved under
// gridKey. Returns false if nothing is stored under that key.
func (s *Store) LoadGraph(ctx context.Context, gridKey string, grid *terrain.Grid) (*graph.Graph, bool, error) {
	var clusterSize int
	err := s.pool.QueryRow(ctx, `SELECT cluster_size FROM graph_meta WHERE grid_key = $1`, gridKey).Scan(&clusterSize)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying graph meta %q: %w", gridKey, err)
	}

	nodeRows, err := s.pool.Query(ctx,
		`SELECT id, x, y, tile, component_id FROM graph_nodes WHERE grid_key = $1 ORDER BY id`, gridKey)
	if err != nil {
		return nil, false, fmt.Errorf("querying nodes for %q: %w", gridKey, err)
	}
	var nodes []graph.Node
	for nodeRows.Next() {
		var n graph.Node
		var tile, compID int64
		if err := nodeRows.Scan(&n.ID, &n.X, &n.Y, &tile, &compID); err != nil {
			nodeRows.Close()
			return nil, false, fmt.Errorf("scanning node for %q: %w", gridKey, err)
		}
		n.Tile = terrain.Tile(tile)
		n.ComponentID = uint32(compID)
		nodes = append(nodes, n)
	}
	nodeRows.Close()
	if err := nodeRows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating nodes for %q: %w", gridKey, err)
	}

	edgeRows, err := s.pool.Query(ctx,
		`SELECT id, node_a, node_b, cost, cluster_x, cluster_y FROM graph_edges WHERE grid_key = $1 ORDER BY id`, gridKey)
	if err != nil {
		return nil, false, fmt.Errorf("querying edges for %q: %w", gridKey, err)
	}
	var edges []graph.Edge
	for edgeRows.Next() {
		var e graph.Edge
		if err := edgeRows.Scan(&e.ID, &e.NodeA, &e.NodeB, &e.Cost, &e.ClusterX, &e.ClusterY); err != nil {
			edgeRows.Close()
			return nil, false, fmt.Errorf("scanning edge for %q: %w", gridKey, err)
		}
		// node edge-lists are derived, not stored; rebuild below once
		// both node and edge slices exist.
		edges = append(edges, e)
	}
	edgeRows.Close()
	if err := edgeRows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating edges for %q: %w", gridKey, err)
	}
	for _, e := range edges {
		nodes[e.NodeA].EdgeIDs = append(nodes[e.NodeA].EdgeIDs, e.ID)
		nodes[e.NodeB].EdgeIDs = append(nodes[e.NodeB].EdgeIDs, e.ID)
	}

	memberRows, err := s.pool.Query(ctx,
		`SELECT cluster_x, cluster_y, node_id FROM graph_cluster_nodes WHERE grid_key = $1`, gridKey)
	if err != nil {
		return nil, false, fmt.Errorf("querying cluster membership for %q: %w", gridKey, err)
	}
	membership := make(map[int32][][2]int)
	for memberRows.Next() {
		var cx, cy int
		var nodeID int32
		if err := memberRows.Scan(&cx, &cy, &nodeID); err != nil {
			memberRows.Close()
			return nil, false, fmt.Errorf("scanning cluster membership for %q: %w", gridKey, err)
		}
		membership[nodeID] = append(membership[nodeID], [2]int{cx, cy})
	}
	memberRows.Close()
	if err := memberRows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating cluster membership for %q: %w", gridKey, err)
	}

	return graph.Assemble(grid, clusterSize, nodes, edges, membership), true, nil
}
