package transform

import "github.com/tidewake/pathengine/internal/terrain"

// endpointWeight is the weight given to a candidate source's distance
// from the upscaled path's own start, versus its distance to target,
// when MiniMapTransformer must pick a winning source among several
// (spec §4.7 "scoring each source distTarget + 0.1*distPathStart").
const endpointWeight = 0.1

// MiniMapTransformer runs its inner finder over the half-resolution
// MiniGrid, then upscales the result back to full-resolution tiles
// (spec §4.7).
type MiniMapTransformer struct {
	grid  *terrain.Grid
	mini  *terrain.MiniGrid
	inner PathFinder // operates on mini.Ref(...) tiles
}

// NewMiniMapTransformer wraps inner, which must accept and return
// MiniGrid tile references.
func NewMiniMapTransformer(grid *terrain.Grid, mini *terrain.MiniGrid, inner PathFinder) *MiniMapTransformer {
	return &MiniMapTransformer{grid: grid, mini: mini, inner: inner}
}

// FindPath maps sources/target down to mini-tiles, runs inner, and
// upscales + endpoint-corrects the result.
func (m *MiniMapTransformer) FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	if len(sources) == 0 {
		return nil, false
	}

	miniSources := make([]terrain.Tile, len(sources))
	miniByTile := make(map[terrain.Tile][]terrain.Tile, len(sources))
	for i, s := range sources {
		mx, my := terrain.ToMini(m.grid.X(s), m.grid.Y(s))
		mt := m.mini.Ref(mx, my)
		miniSources[i] = mt
		miniByTile[mt] = append(miniByTile[mt], s)
	}
	tx, ty := terrain.ToMini(m.grid.X(target), m.grid.Y(target))
	miniTarget := m.mini.Ref(tx, ty)

	miniPath, ok := m.inner.FindPath(miniSources, miniTarget)
	if !ok {
		return nil, false
	}

	upscaled := m.upscale(miniPath)
	if len(upscaled) == 0 {
		return nil, false
	}

	winner := m.pickSource(sources, miniByTile, miniPath, upscaled)

	upscaled[0] = winner
	if upscaled[len(upscaled)-1] != target {
		upscaled = append(upscaled, target)
	} else {
		upscaled[len(upscaled)-1] = target
	}
	return upscaled, true
}

// upscale doubles each mini-tile's anchor coordinate and linearly
// interpolates the single intermediate tile between consecutive
// anchors (spec §4.7 "upscales the result by scaling x2 with linear
// interpolation between keypoints").
func (m *MiniMapTransformer) upscale(miniPath []terrain.Tile) []terrain.Tile {
	if len(miniPath) == 0 {
		return nil
	}
	out := make([]terrain.Tile, 0, len(miniPath)*2)
	prevX, prevY := terrain.ToFull(m.mini.X(miniPath[0]), m.mini.Y(miniPath[0]))
	out = append(out, m.grid.Ref(prevX, prevY))
	for i := 1; i < len(miniPath); i++ {
		x, y := terrain.ToFull(m.mini.X(miniPath[i]), m.mini.Y(miniPath[i]))
		midX, midY := (prevX+x)/2, (prevY+y)/2
		if midX != prevX || midY != prevY {
			out = append(out, m.grid.Ref(midX, midY))
		}
		out = append(out, m.grid.Ref(x, y))
		prevX, prevY = x, y
	}
	return out
}

// pickSource selects the winning source among several candidates,
// scored by distTarget + endpointWeight*distPathStart (spec §4.7).
// When several sources collapse onto the same mini-tile (a coarse
// mini-grid over several close-together full-resolution sources), all
// of them are scored against each other rather than just whichever one
// happened to be written last into the mini-tile lookup.
func (m *MiniMapTransformer) pickSource(sources []terrain.Tile, miniByTile map[terrain.Tile][]terrain.Tile, miniPath, upscaled []terrain.Tile) terrain.Tile {
	if len(sources) == 1 {
		return sources[0]
	}
	if len(miniPath) == 0 {
		return sources[0]
	}

	candidates := sources
	if group, ok := miniByTile[miniPath[0]]; ok {
		candidates = group
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	target := upscaled[len(upscaled)-1]
	pathStart := upscaled[0]
	best := candidates[0]
	bestScore := -1.0
	for _, s := range candidates {
		distTarget := float64(m.grid.ManhattanDist(s, target))
		distStart := float64(m.grid.ManhattanDist(s, pathStart))
		score := distTarget + endpointWeight*distStart
		if bestScore < 0 || score < bestScore {
			bestScore = score
			best = s
		}
	}
	return best
}
