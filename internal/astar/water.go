package astar

import (
	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/pqueue"
	"github.com/tidewake/pathengine/internal/terrain"
)

// UnboundedWaterAStar searches the whole grid. Use for long ocean
// crossings where no cluster rectangle applies (spec §4.4 "unbounded
// water A* operates over the whole grid, using binary heap").
type UnboundedWaterAStar struct {
	grid            *terrain.Grid
	comps           *component.Components // optional; enables instant same-component rejection
	heuristicWeight float64
	maxIterations   int
	set             *stampSet
	queue           *pqueue.BinaryHeap
	Stats
}

// NewUnboundedWaterAStar constructs a reusable unbounded water A* over
// grid. comps may be nil (component rejection is skipped); otherwise
// sources/targets in different water components are rejected in O(1)
// instead of exhausting the iteration budget.
func NewUnboundedWaterAStar(grid *terrain.Grid, comps *component.Components, heuristicWeight float64, maxIterations int) *UnboundedWaterAStar {
	if maxIterations <= 0 {
		panic("astar: maxIterations must be > 0")
	}
	n := grid.Width() * grid.Height()
	return &UnboundedWaterAStar{
		grid:            grid,
		comps:           comps,
		heuristicWeight: heuristicWeight,
		maxIterations:   maxIterations,
		set:             newStampSet(n),
		queue:           pqueue.NewBinaryHeap(256),
	}
}

// FindPath runs multi-source A* from any of sources to target, confined
// to water tiles. Returns (nil, false) if no path is found within
// maxIterations, or trivially if every source is in a different water
// component than target (spec §8: "for disconnected components, returns
// null within a bounded number of node expansions").
func (a *UnboundedWaterAStar) FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	if len(sources) == 0 {
		return nil, false
	}
	for _, s := range sources {
		if s == target {
			return []terrain.Tile{target}, true
		}
	}
	if a.comps != nil {
		anySame := false
		for _, s := range sources {
			if a.comps.SameComponent(s, target) {
				anySame = true
				break
			}
		}
		if !anySame {
			return nil, false
		}
	}

	a.set.bump()
	a.queue.Clear()

	gx, gy := a.grid.X(target), a.grid.Y(target)

	for idx, s := range sources {
		if a.grid.IsLand(s) {
			continue
		}
		sx, sy := a.grid.X(s), a.grid.Y(s)
		h := a.heuristicWeight * float64(manhattan(sx, sy, gx, gy))
		a.set.setG(int32(s), 0, int32(s), int32(idx))
		a.queue.Push(int32(s), h)
	}

	var nbrs [4]terrain.Tile
	iterations := 0
	for !a.queue.IsEmpty() {
		if iterations >= a.maxIterations {
			a.recordExhausted()
			return nil, false
		}
		iterations++

		curIdx, _ := a.queue.Pop()
		cur := terrain.Tile(curIdx)
		if a.set.isClosed(curIdx) {
			continue
		}
		a.set.close(curIdx)

		if cur == target {
			return a.reconstruct(cur), true
		}

		curG := a.set.gScore[curIdx]
		originTile := sources[a.set.origin[curIdx]]
		ox, oy := a.grid.X(originTile), a.grid.Y(originTile)

		ns := a.grid.Neighbours(cur, nbrs[:0])
		for _, nb := range ns {
			if a.grid.IsLand(nb) {
				continue
			}
			nbIdx := int32(nb)
			if a.set.isClosed(nbIdx) {
				continue
			}
			step := baseCost + magnitudePenalty(a.grid.Magnitude(nb))
			g := curG + step
			if a.set.hasG(nbIdx) && g >= a.set.gScore[nbIdx] {
				continue
			}
			a.set.setG(nbIdx, g, curIdx, a.set.origin[curIdx])

			nx, ny := a.grid.X(nb), a.grid.Y(nb)
			h := a.heuristicWeight * float64(manhattan(nx, ny, gx, gy))
			bias := crossProductBias(ox, oy, gx, gy, nx, ny)
			a.queue.Push(nbIdx, g+h+bias)
		}
	}
	a.recordExhausted()
	return nil, false
}

func (a *UnboundedWaterAStar) reconstruct(target terrain.Tile) []terrain.Tile {
	path := []terrain.Tile{target}
	cur := int32(target)
	for a.set.cameFrom[cur] != cur {
		cur = a.set.cameFrom[cur]
		path = append(path, terrain.Tile(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// BoundedWaterAStar clamps its search to a caller-supplied axis-aligned
// rectangle, translating between global tiles and local indices (spec
// §4.4 "bounded water A*"). Its working arrays are sized to
// maxSearchArea once at construction; a rectangle larger than that
// budget is rejected rather than causing a reallocation or a panic
// (spec §8 boundary behaviour).
type BoundedWaterAStar struct {
	grid            *terrain.Grid
	maxSearchArea   int
	heuristicWeight float64
	maxIterations   int
	set             *stampSet
	queue           *pqueue.BinaryHeap
	Stats
}

// NewBoundedWaterAStar constructs a reusable bounded water A* whose
// working arrays can address up to maxSearchArea local cells.
func NewBoundedWaterAStar(grid *terrain.Grid, maxSearchArea int, heuristicWeight float64, maxIterations int) *BoundedWaterAStar {
	if maxIterations <= 0 {
		panic("astar: maxIterations must be > 0")
	}
	if maxSearchArea <= 0 {
		panic("astar: maxSearchArea must be > 0")
	}
	return &BoundedWaterAStar{
		grid:            grid,
		maxSearchArea:   maxSearchArea,
		heuristicWeight: heuristicWeight,
		maxIterations:   maxIterations,
		set:             newStampSet(maxSearchArea),
		queue:           pqueue.NewBinaryHeap(256),
	}
}

// Rect is an inclusive axis-aligned tile rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Rect) width() int  { return r.MaxX - r.MinX + 1 }
func (r Rect) height() int { return r.MaxY - r.MinY + 1 }
func (r Rect) area() int   { return r.width() * r.height() }

func (r Rect) contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

func (r Rect) localIndex(x, y int) int32 { return int32((y-r.MinY)*r.width() + (x - r.MinX)) }

// FindPath runs multi-source bounded A* within rect. Returns (nil,
// false) if the rectangle exceeds maxSearchArea, if target lies outside
// rect, or if no path is found within maxIterations.
func (a *BoundedWaterAStar) FindPath(rect Rect, sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool) {
	if rect.area() > a.maxSearchArea || rect.area() <= 0 {
		return nil, false
	}
	tx, ty := a.grid.X(target), a.grid.Y(target)
	if !rect.contains(tx, ty) {
		return nil, false
	}
	for _, s := range sources {
		if s == target {
			return []terrain.Tile{target}, true
		}
	}

	a.set.bump()
	a.queue.Clear()

	for idx, s := range sources {
		sx, sy := a.grid.X(s), a.grid.Y(s)
		if !rect.contains(sx, sy) || a.grid.IsLand(s) {
			continue
		}
		li := rect.localIndex(sx, sy)
		h := a.heuristicWeight * float64(manhattan(sx, sy, tx, ty))
		a.set.setG(li, 0, li, int32(idx))
		a.queue.Push(li, h)
	}

	var nbrs [4]terrain.Tile
	iterations := 0
	for !a.queue.IsEmpty() {
		if iterations >= a.maxIterations {
			a.recordExhausted()
			return nil, false
		}
		iterations++

		curLocal, _ := a.queue.Pop()
		if a.set.isClosed(curLocal) {
			continue
		}
		a.set.close(curLocal)

		curX := rect.MinX + int(curLocal)%rect.width()
		curY := rect.MinY + int(curLocal)/rect.width()
		curTile := a.grid.Ref(curX, curY)

		if curTile == target {
			return a.reconstruct(rect, curLocal), true
		}

		curG := a.set.gScore[curLocal]
		originIdx := a.set.origin[curLocal]
		ox, oy := a.grid.X(sources[originIdx]), a.grid.Y(sources[originIdx])

		ns := a.grid.Neighbours(curTile, nbrs[:0])
		for _, nb := range ns {
			nx, ny := a.grid.X(nb), a.grid.Y(nb)
			if !rect.contains(nx, ny) || a.grid.IsLand(nb) {
				continue
			}
			nbLocal := rect.localIndex(nx, ny)
			if a.set.isClosed(nbLocal) {
				continue
			}
			step := baseCost + magnitudePenalty(a.grid.Magnitude(nb))
			g := curG + step
			if a.set.hasG(nbLocal) && g >= a.set.gScore[nbLocal] {
				continue
			}
			a.set.setG(nbLocal, g, curLocal, originIdx)

			h := a.heuristicWeight * float64(manhattan(nx, ny, tx, ty))
			bias := crossProductBias(ox, oy, tx, ty, nx, ny)
			a.queue.Push(nbLocal, g+h+bias)
		}
	}
	a.recordExhausted()
	return nil, false
}

func (a *BoundedWaterAStar) reconstruct(rect Rect, targetLocal int32) []terrain.Tile {
	path := []int32{targetLocal}
	cur := targetLocal
	for a.set.cameFrom[cur] != cur {
		cur = a.set.cameFrom[cur]
		path = append(path, cur)
	}
	out := make([]terrain.Tile, len(path))
	for i := 0; i < len(path); i++ {
		li := path[len(path)-1-i]
		x := rect.MinX + int(li)%rect.width()
		y := rect.MinY + int(li)/rect.width()
		out[i] = a.grid.Ref(x, y)
	}
	return out
}
