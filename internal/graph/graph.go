// Package graph builds and serves the abstract graph the hierarchical
// water pathfinder plans over: one gateway node per water run crossing
// a cluster boundary, intra-cluster edges between gateways in the same
// cluster and water component, and a direction-aware path cache shared
// by every consumer.
//
// Grounded on the teacher's internal/world.Region — its atomic,
// lock-free snapshot-cache pattern is reused here for the path cache,
// and its "built once, read many, immutable after construction" shape
// is reused for the graph itself.
package graph

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/gridbfs"
	"github.com/tidewake/pathengine/internal/terrain"
)

// DefaultClusterSize is the default square cluster edge length (spec §6
// buildAbstractGraph default, §GLOSSARY "Cluster").
const DefaultClusterSize = 32

// boundaryAllowance pads a cluster's BFS rectangle so intra-cluster
// edge searches can deviate slightly around the cluster's own
// boundary without immediately failing (spec §4.5 "a modest allowance
// for path deviation").
const boundaryAllowance = 2

// Node is one gateway placed where a water run crosses a cluster
// boundary.
type Node struct {
	ID          int32
	X, Y        int
	Tile        terrain.Tile
	ComponentID uint32
	EdgeIDs     []int32
}

// Edge is a precomputed intra-cluster connection between two gateway
// nodes. NodeA is always < NodeB (spec §3 invariant).
type Edge struct {
	ID               int32
	NodeA, NodeB     int32
	Cost             int
	ClusterX, ClusterY int
}

// direction indices into the path cache (spec §4.5 "indexed by
// edge.id × direction (2)").
const (
	DirAToB = 0
	DirBToA = 1
)

// Graph is the built, immutable-after-construction abstract graph.
// Only the path cache mutates after Build returns, and only
// monotonically (spec §5 "first writer wins per slot").
type Graph struct {
	grid        *terrain.Grid
	clusterSize int

	nodes []Node
	edges []Edge

	clusterCols, clusterRows int
	clusterNodes             [][]int32 // cluster index -> node IDs in that cluster

	pathCache []atomic.Pointer[[]terrain.Tile]
}

// ClusterSize returns the graph's cluster edge length.
func (g *Graph) ClusterSize() int { return g.clusterSize }

// Node returns the node with the given ID.
func (g *Graph) Node(id int32) Node { return g.nodes[id] }

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id int32) Edge { return g.edges[id] }

// NodeCount returns the number of gateway nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of intra-cluster edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// ClusterDims returns the cluster grid's column and row counts.
func (g *Graph) ClusterDims() (cols, rows int) { return g.clusterCols, g.clusterRows }

// ClusterIndex returns the flattened cluster index for a cluster
// coordinate.
func (g *Graph) ClusterIndex(cx, cy int) int { return cy*g.clusterCols + cx }

// ClusterOf returns the cluster coordinate containing tile (x,y).
func (g *Graph) ClusterOf(x, y int) (int, int) { return x / g.clusterSize, y / g.clusterSize }

// ClusterRect returns the tile rectangle covered by cluster (cx,cy),
// clamped to the grid.
func (g *Graph) ClusterRect(cx, cy int) (minX, minY, maxX, maxY int) {
	minX = cx * g.clusterSize
	minY = cy * g.clusterSize
	maxX = minX + g.clusterSize - 1
	maxY = minY + g.clusterSize - 1
	if maxX >= g.grid.Width() {
		maxX = g.grid.Width() - 1
	}
	if maxY >= g.grid.Height() {
		maxY = g.grid.Height() - 1
	}
	return
}

// NodesInCluster returns the gateway node IDs belonging to cluster
// (cx,cy).
func (g *Graph) NodesInCluster(cx, cy int) []int32 {
	return g.clusterNodes[g.ClusterIndex(cx, cy)]
}

// Build scans grid for gateway nodes on every cluster boundary, then
// builds intra-cluster edges between gateways sharing a water
// component (spec §4.5). comps must be built from the same grid.
func Build(ctx context.Context, grid *terrain.Grid, comps *component.Components, clusterSize int) (*Graph, error) {
	if clusterSize <= 0 {
		clusterSize = DefaultClusterSize
	}
	g := &Graph{
		grid:        grid,
		clusterSize: clusterSize,
		clusterCols: (grid.Width() + clusterSize - 1) / clusterSize,
		clusterRows: (grid.Height() + clusterSize - 1) / clusterSize,
	}
	g.clusterNodes = make([][]int32, g.clusterCols*g.clusterRows)

	placeGatewayNodes(g, grid, comps)
	if err := buildEdgesConcurrently(ctx, g, grid, comps); err != nil {
		return nil, err
	}
	g.pathCache = make([]atomic.Pointer[[]terrain.Tile], len(g.edges)*2)
	return g, nil
}

// Assemble reconstructs a Graph from previously built parts (spec §6
// "persist and reload the abstract graph without rebuilding it"),
// rather than running Build again. clusterMembership maps a node ID to
// every cluster it belongs to (a boundary gateway can belong to up to
// four).
func Assemble(grid *terrain.Grid, clusterSize int, nodes []Node, edges []Edge, clusterMembership map[int32][][2]int) *Graph {
	if clusterSize <= 0 {
		clusterSize = DefaultClusterSize
	}
	g := &Graph{
		grid:        grid,
		clusterSize: clusterSize,
		nodes:       nodes,
		edges:       edges,
		clusterCols: (grid.Width() + clusterSize - 1) / clusterSize,
		clusterRows: (grid.Height() + clusterSize - 1) / clusterSize,
	}
	g.clusterNodes = make([][]int32, g.clusterCols*g.clusterRows)
	for nodeID, clusters := range clusterMembership {
		for _, c := range clusters {
			idx := g.ClusterIndex(c[0], c[1])
			g.clusterNodes[idx] = append(g.clusterNodes[idx], nodeID)
		}
	}
	g.pathCache = make([]atomic.Pointer[[]terrain.Tile], len(edges)*2)
	return g
}

// placeGatewayNodes scans every vertical and horizontal inter-cluster
// boundary for maximal water-adjacent runs and places one node at each
// run's midpoint, deduplicating nodes that land on the same tile
// (corner nodes shared by up to four clusters, spec §4.5 invariant).
func placeGatewayNodes(g *Graph, grid *terrain.Grid, comps *component.Components) {
	tileToNode := make(map[terrain.Tile]int32)

	addNode := func(x, y int) int32 {
		t := grid.Ref(x, y)
		if id, ok := tileToNode[t]; ok {
			return id
		}
		id := int32(len(g.nodes))
		g.nodes = append(g.nodes, Node{
			ID:          id,
			X:           x,
			Y:           y,
			Tile:        t,
			ComponentID: comps.ComponentID(t),
		})
		tileToNode[t] = id
		return id
	}

	addToCluster := func(cx, cy int, id int32) {
		idx := g.ClusterIndex(cx, cy)
		for _, existing := range g.clusterNodes[idx] {
			if existing == id {
				return
			}
		}
		g.clusterNodes[idx] = append(g.clusterNodes[idx], id)
	}

	// Vertical boundaries: between cluster column cx and cx+1.
	for cx := 0; cx < g.clusterCols-1; cx++ {
		leftX := (cx+1)*g.clusterSize - 1
		rightX := leftX + 1
		if leftX < 0 || rightX >= grid.Width() {
			continue
		}
		for cy := 0; cy < g.clusterRows; cy++ {
			_, minY, _, maxY := g.ClusterRect(cx, cy)
			runStart := -1
			flush := func(endY int) {
				if runStart < 0 {
					return
				}
				midY := (runStart + endY) / 2
				idL := addNode(leftX, midY)
				idR := addNode(rightX, midY)
				addToCluster(cx, cy, idL)
				addToCluster(cx+1, cy, idR)
				runStart = -1
			}
			for y := minY; y <= maxY; y++ {
				tl := grid.Ref(leftX, y)
				tr := grid.Ref(rightX, y)
				crossing := grid.IsWater(tl) && grid.IsWater(tr) && comps.SameComponent(tl, tr)
				if crossing {
					if runStart < 0 {
						runStart = y
					}
				} else {
					flush(y - 1)
				}
			}
			flush(maxY)
		}
	}

	// Horizontal boundaries: between cluster row cy and cy+1.
	for cy := 0; cy < g.clusterRows-1; cy++ {
		topY := (cy+1)*g.clusterSize - 1
		botY := topY + 1
		if topY < 0 || botY >= grid.Height() {
			continue
		}
		for cx := 0; cx < g.clusterCols; cx++ {
			minX, _, maxX, _ := g.ClusterRect(cx, cy)
			runStart := -1
			flush := func(endX int) {
				if runStart < 0 {
					return
				}
				midX := (runStart + endX) / 2
				idT := addNode(midX, topY)
				idB := addNode(midX, botY)
				addToCluster(cx, cy, idT)
				addToCluster(cx, cy+1, idB)
				runStart = -1
			}
			for x := minX; x <= maxX; x++ {
				tt := grid.Ref(x, topY)
				tb := grid.Ref(x, botY)
				crossing := grid.IsWater(tt) && grid.IsWater(tb) && comps.SameComponent(tt, tb)
				if crossing {
					if runStart < 0 {
						runStart = x
					}
				} else {
					flush(x - 1)
				}
			}
			flush(maxX)
		}
	}
}

// buildEdgesConcurrently computes intra-cluster edges for every
// cluster in parallel (clusters are independent, so this is a safe
// fan-out grounded on the teacher's errgroup usage in
// cmd/gameserver/main.go for independent concurrent subsystems).
func buildEdgesConcurrently(ctx context.Context, g *Graph, grid *terrain.Grid, comps *component.Components) error {
	group, _ := errgroup.WithContext(ctx)

	var mu sync.Mutex
	edgeIndex := make(map[[2]int32]int32) // (nodeA,nodeB) -> edge ID, nodeA<nodeB

	for cx := 0; cx < g.clusterCols; cx++ {
		for cy := 0; cy < g.clusterRows; cy++ {
			cx, cy := cx, cy
			group.Go(func() error {
				found := clusterEdges(g, grid, comps, cx, cy)
				if len(found) == 0 {
					return nil
				}
				mu.Lock()
				defer mu.Unlock()
				for _, fe := range found {
					key := [2]int32{fe.NodeA, fe.NodeB}
					if existingID, ok := edgeIndex[key]; ok {
						if fe.Cost < g.edges[existingID].Cost {
							g.edges[existingID].Cost = fe.Cost
						}
						continue
					}
					id := int32(len(g.edges))
					fe.ID = id
					g.edges = append(g.edges, fe)
					edgeIndex[key] = id
					g.nodes[fe.NodeA].EdgeIDs = append(g.nodes[fe.NodeA].EdgeIDs, id)
					g.nodes[fe.NodeB].EdgeIDs = append(g.nodes[fe.NodeB].EdgeIDs, id)
				}
				return nil
			})
		}
	}
	return group.Wait()
}

// clusterEdges runs one bounded BFS per gateway node in cluster
// (cx,cy), targeting every other gateway node in the same cluster and
// water component (spec §4.5 "one grid BFS from one endpoint, seeking
// all other endpoints as targets, bounded to the cluster rectangle").
func clusterEdges(g *Graph, grid *terrain.Grid, comps *component.Components, cx, cy int) []Edge {
	nodeIDs := g.NodesInCluster(cx, cy)
	if len(nodeIDs) < 2 {
		return nil
	}

	minX, minY, maxX, maxY := g.ClusterRect(cx, cy)
	minX -= boundaryAllowance
	minY -= boundaryAllowance
	maxX += boundaryAllowance
	maxY += boundaryAllowance
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= grid.Width() {
		maxX = grid.Width() - 1
	}
	if maxY >= grid.Height() {
		maxY = grid.Height() - 1
	}

	passable := func(t terrain.Tile) bool {
		x, y := grid.X(t), grid.Y(t)
		return x >= minX && x <= maxX && y >= minY && y <= maxY && grid.IsWater(t)
	}

	bfs := gridbfs.New(grid)
	var edges []Edge
	for i, srcID := range nodeIDs {
		src := g.nodes[srcID]
		if grid.IsLand(src.Tile) {
			continue
		}
		targets := make(map[terrain.Tile]int32, len(nodeIDs)-1)
		remaining := 0
		for _, dstID := range nodeIDs[i+1:] {
			dst := g.nodes[dstID]
			if dst.ComponentID != src.ComponentID || dst.ComponentID == component.Land {
				continue
			}
			targets[dst.Tile] = dstID
			remaining++
		}
		if remaining == 0 {
			continue
		}

		bfs.Walk([]terrain.Tile{src.Tile}, passable, -1, func(t terrain.Tile, dist int) bool {
			if dstID, ok := targets[t]; ok {
				edges = append(edges, Edge{NodeA: srcID, NodeB: dstID, Cost: dist, ClusterX: cx, ClusterY: cy})
				delete(targets, t)
				remaining--
			}
			return remaining > 0
		})
	}

	for i := range edges {
		if edges[i].NodeA > edges[i].NodeB {
			edges[i].NodeA, edges[i].NodeB = edges[i].NodeB, edges[i].NodeA
		}
	}
	return edges
}

// CachedPath returns the cached concrete path for edge traversed in
// direction dir, if one has been stored.
func (g *Graph) CachedPath(edgeID int32, dir int) ([]terrain.Tile, bool) {
	p := g.pathCache[edgeID*2+int32(dir)].Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// StorePath stores path for edge/direction if no path is stored yet
// (first writer wins, spec §5 "monotonically written... never
// evicted"). Returns true if this call's path became the cached one.
func (g *Graph) StorePath(edgeID int32, dir int, path []terrain.Tile) bool {
	slot := &g.pathCache[edgeID*2+int32(dir)]
	return slot.CompareAndSwap(nil, &path)
}
