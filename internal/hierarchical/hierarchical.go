// Package hierarchical orchestrates grid BFS, the bounded and generic A* cores, and
// the abstract graph into the "global" water pathfinder (spec §4.6,
// §9 Open Questions resolution (b)): resolve sources/targets to
// gateway nodes, plan on the abstract graph, stitch local bounded A*
// segments between consecutive gateways, and fall back to a single
// bounded search for short hops.
package hierarchical

import (
	"math"

	"github.com/tidewake/pathengine/internal/astar"
	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/graph"
	"github.com/tidewake/pathengine/internal/gridbfs"
	"github.com/tidewake/pathengine/internal/terrain"
)

// shortPathManhattan is the distance under which every candidate
// source is close enough to the target to skip the abstract graph
// entirely (spec §4.6 step 1, "e.g. 120 tiles").
const shortPathManhattan = 120

const rectPad = 4

// GraphAdapter drives astar.GenericAStar over a graph.Graph's gateway
// nodes, satisfying astar.Adapter (spec §4.4 "adapter A*... for the
// abstract graph (integer costs, Manhattan heuristic weighted >= 1)").
type GraphAdapter struct {
	grid            *terrain.Grid
	g               *graph.Graph
	heuristicWeight float64
}

func NewGraphAdapter(grid *terrain.Grid, g *graph.Graph, heuristicWeight float64) *GraphAdapter {
	return &GraphAdapter{grid: grid, g: g, heuristicWeight: heuristicWeight}
}

func (a *GraphAdapter) DomainSize() int32 { return int32(a.g.NodeCount()) }

func (a *GraphAdapter) Neighbours(node int32, dst []int32) []int32 {
	n := a.g.Node(node)
	for _, eid := range n.EdgeIDs {
		e := a.g.Edge(eid)
		if e.NodeA == node {
			dst = append(dst, e.NodeB)
		} else {
			dst = append(dst, e.NodeA)
		}
	}
	return dst
}

func (a *GraphAdapter) Cost(from, to int32) (float64, bool) {
	n := a.g.Node(from)
	for _, eid := range n.EdgeIDs {
		e := a.g.Edge(eid)
		if (e.NodeA == from && e.NodeB == to) || (e.NodeB == from && e.NodeA == to) {
			return float64(e.Cost), true
		}
	}
	return 0, false
}

func (a *GraphAdapter) Heuristic(node, target int32) float64 {
	na, nb := a.g.Node(node), a.g.Node(target)
	return a.heuristicWeight * float64(a.grid.ManhattanDist(na.Tile, nb.Tile))
}

func (a *GraphAdapter) MaxPriority() int  { return -1 }
func (a *GraphAdapter) MaxNeighbors() int { return 16 }

// edgeBetween finds the edge connecting a and b, and the direction
// (DirAToB/DirBToA from package graph) of travel from a to b.
func edgeBetween(g *graph.Graph, a, b int32) (graph.Edge, int, bool) {
	na := g.Node(a)
	for _, eid := range na.EdgeIDs {
		e := g.Edge(eid)
		if e.NodeA == a && e.NodeB == b {
			return e, graph.DirAToB, true
		}
		if e.NodeB == a && e.NodeA == b {
			return e, graph.DirBToA, true
		}
	}
	return graph.Edge{}, 0, false
}

// Finder is the hierarchical water A* orchestrator (spec §4.6
// findPath(from, to)).
type Finder struct {
	grid  *terrain.Grid
	comps *component.Components
	g     *graph.Graph

	bounded  *astar.BoundedWaterAStar
	abstract *astar.GenericAStar
	adapter  *GraphAdapter
	bfs      *gridbfs.BFS

	heuristicWeight float64
}

// New builds a hierarchical finder over an already-built abstract
// graph. maxSearchArea sizes the bounded A* used for every local
// stitching segment and the short-path fast path; it must be at least
// as large as (2*shortPathManhattan)^2 if short hops over that
// distance are expected.
func New(grid *terrain.Grid, comps *component.Components, g *graph.Graph, heuristicWeight float64, maxSearchArea, maxIterations int) *Finder {
	adapter := NewGraphAdapter(grid, g, heuristicWeight)
	return &Finder{
		grid:            grid,
		comps:           comps,
		g:               g,
		bounded:         astar.NewBoundedWaterAStar(grid, maxSearchArea, heuristicWeight, maxIterations),
		abstract:        astar.NewGenericAStar(adapter, maxIterations),
		adapter:         adapter,
		bfs:             gridbfs.New(grid),
		heuristicWeight: heuristicWeight,
	}
}

// FindPath resolves sources (one or many, e.g. a fleet's home ports)
// to target via the abstract graph, stitching concrete segments
// between gateway crossings. Returns (nil, false) if no path exists or
// the search is exhausted.
func (f *Finder) FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	if len(sources) == 0 {
		return nil, false
	}
	for _, s := range sources {
		if s == target {
			return []terrain.Tile{target}, true
		}
	}

	if f.allWithinShortPath(sources, target) {
		return f.shortPath(sources, target)
	}

	tx, ty := f.grid.X(target), f.grid.Y(target)
	tcx, tcy := f.g.ClusterOf(tx, ty)
	targetNode, ok := f.nearestGateway(target, tcx, tcy)
	if !ok {
		return f.shortPath(sources, target)
	}

	nodeToSource := make(map[int32]terrain.Tile)
	nodeDist := make(map[int32]int)
	startNodes := make([]int32, 0, len(sources))
	for _, s := range sources {
		sx, sy := f.grid.X(s), f.grid.Y(s)
		scx, scy := f.g.ClusterOf(sx, sy)
		n, ok := f.nearestGateway(s, scx, scy)
		if !ok {
			continue
		}
		d := f.grid.ManhattanDist(s, f.g.Node(n).Tile)
		if prev, exists := nodeDist[n]; !exists || d < prev {
			nodeDist[n] = d
			nodeToSource[n] = s
			if !exists {
				startNodes = append(startNodes, n)
			}
		}
	}
	if len(startNodes) == 0 {
		return f.shortPath(sources, target)
	}

	for _, n := range startNodes {
		if n == targetNode {
			src := nodeToSource[n]
			return f.stitchWithinCluster(src, target, tcx, tcy)
		}
	}

	nodePath, _, ok := f.abstract.FindPath(startNodes, targetNode)
	if !ok {
		return nil, false
	}

	winningSource := nodeToSource[nodePath[0]]

	out := []terrain.Tile{}
	firstNodeTile := f.g.Node(nodePath[0]).Tile
	scx, scy := f.g.ClusterOf(f.grid.X(winningSource), f.grid.Y(winningSource))
	seg := f.boundedSegment(winningSource, firstNodeTile, scx, scy)
	out = appendSegment(out, seg)

	for i := 0; i < len(nodePath)-1; i++ {
		a, b := nodePath[i], nodePath[i+1]
		seg := f.edgeSegment(a, b)
		out = appendSegment(out, seg)
	}

	lastNodeTile := f.g.Node(nodePath[len(nodePath)-1]).Tile
	seg = f.boundedSegment(lastNodeTile, target, tcx, tcy)
	out = appendSegment(out, seg)

	if len(out) == 0 || out[0] != winningSource {
		out = append([]terrain.Tile{winningSource}, out...)
	}
	if out[len(out)-1] != target {
		out = append(out, target)
	}
	return out, true
}

func appendSegment(dst, seg []terrain.Tile) []terrain.Tile {
	if len(seg) == 0 {
		return dst
	}
	if len(dst) > 0 && dst[len(dst)-1] == seg[0] {
		seg = seg[1:]
	}
	return append(dst, seg...)
}

// allWithinShortPath reports whether every source is within
// shortPathManhattan of target.
func (f *Finder) allWithinShortPath(sources []terrain.Tile, target terrain.Tile) bool {
	for _, s := range sources {
		if f.grid.ManhattanDist(s, target) > shortPathManhattan {
			return false
		}
	}
	return true
}

// shortPath runs a single bounded A* over the padded bounding box of
// every source and the target (spec §4.6 step 1).
func (f *Finder) shortPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	minX, minY := f.grid.X(target), f.grid.Y(target)
	maxX, maxY := minX, minY
	for _, s := range sources {
		x, y := f.grid.X(s), f.grid.Y(s)
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
	minX -= rectPad
	minY -= rectPad
	maxX += rectPad
	maxY += rectPad
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= f.grid.Width() {
		maxX = f.grid.Width() - 1
	}
	if maxY >= f.grid.Height() {
		maxY = f.grid.Height() - 1
	}
	return f.bounded.FindPath(astar.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, sources, target)
}

// stitchWithinCluster handles the edge case where source and target
// resolve to the same gateway node: a single bounded A* inside that
// cluster suffices (spec §4.6 "Edge cases").
func (f *Finder) stitchWithinCluster(source, target terrain.Tile, cx, cy int) ([]terrain.Tile, bool) {
	seg := f.boundedSegment(source, target, cx, cy)
	if len(seg) == 0 {
		return []terrain.Tile{source, target}, true
	}
	return seg, true
}

// boundedSegment runs bounded A* for source->target inside cluster
// (cx,cy), falling back to a 3x3-cluster expanded rectangle, and
// finally to a raw two-tile endpoint segment if both fail (spec §4.6
// step 6, §7 "Abstract stitching failure").
func (f *Finder) boundedSegment(source, target terrain.Tile, cx, cy int) []terrain.Tile {
	minX, minY, maxX, maxY := f.g.ClusterRect(cx, cy)
	if path, ok := f.bounded.FindPath(astar.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, []terrain.Tile{source}, target); ok {
		return path
	}

	cs := f.g.ClusterSize()
	minX -= cs
	minY -= cs
	maxX += cs
	maxY += cs
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= f.grid.Width() {
		maxX = f.grid.Width() - 1
	}
	if maxY >= f.grid.Height() {
		maxY = f.grid.Height() - 1
	}
	if path, ok := f.bounded.FindPath(astar.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, []terrain.Tile{source}, target); ok {
		return path
	}

	return []terrain.Tile{source, target}
}

// edgeSegment returns the concrete tile path from node a to node b,
// consulting (and populating) the graph's direction-aware path cache
// before falling back to bounded A* (spec §4.5 "Path cache").
func (f *Finder) edgeSegment(a, b int32) []terrain.Tile {
	edge, dir, ok := edgeBetween(f.g, a, b)
	if !ok {
		return f.boundedSegment(f.g.Node(a).Tile, f.g.Node(b).Tile, f.g.ClusterOf(f.grid.X(f.g.Node(a).Tile), f.grid.Y(f.g.Node(a).Tile)))
	}
	if cached, found := f.g.CachedPath(edge.ID, dir); found {
		return cached
	}
	seg := f.boundedSegment(f.g.Node(a).Tile, f.g.Node(b).Tile, edge.ClusterX, edge.ClusterY)
	f.g.StorePath(edge.ID, dir, seg)
	return seg
}

// nearestGateway resolves tile to its nearest gateway node in cluster
// (cx,cy) by Manhattan distance (spec §4.6 steps 2-3), falling back to
// a grid BFS bounded to clusterSize^2 when no gateway shares tile's
// water component within the cluster (spec §4.6 "Edge cases").
func (f *Finder) nearestGateway(tile terrain.Tile, cx, cy int) (int32, bool) {
	comp := f.comps.ComponentID(tile)
	best := int32(-1)
	bestDist := math.MaxInt
	for _, id := range f.g.NodesInCluster(cx, cy) {
		n := f.g.Node(id)
		if n.ComponentID != comp {
			continue
		}
		d := f.grid.ManhattanDist(tile, n.Tile)
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	if best >= 0 {
		return best, true
	}

	targets := make(map[terrain.Tile]int32)
	for id := 0; id < f.g.NodeCount(); id++ {
		n := f.g.Node(int32(id))
		if n.ComponentID == comp {
			targets[n.Tile] = int32(id)
		}
	}
	if len(targets) == 0 {
		return 0, false
	}
	cs := f.g.ClusterSize()
	maxDist := cs * cs
	waterPassable := func(t terrain.Tile) bool { return f.grid.IsWater(t) }
	matchFn := func(t terrain.Tile) bool { _, ok := targets[t]; return ok }
	found, _, ok := gridbfs.NearestMatching(f.bfs, []terrain.Tile{tile}, waterPassable, matchFn, maxDist)
	if !ok {
		return 0, false
	}
	return targets[found], true
}
