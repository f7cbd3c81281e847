// Package terrain implements the immutable tile grid that every pathfinder
// in this module reads: a flat byte array of per-tile land/water/shoreline
// attributes, plus the halved-resolution MiniGrid used by the mini-map
// transformer.
//
// Java/L2J-style comment convention kept from the teacher engine: formulas
// that pack/unpack bits get one line explaining the layout, nothing more.
package terrain

import "fmt"

// Tile is a packed tile reference: y*W + x. Value type, never allocated
// individually.
type Tile int32

// Bit layout of one terrain cell (1 byte):
//
//	bit 7       land flag
//	bit 6       ocean flag (vs. lake) — meaningful only when water
//	bit 5       shoreline flag
//	bits 4..0   magnitude: distance-from-shore, 0..31
const (
	bitLand      byte = 1 << 7
	bitOcean     byte = 1 << 6
	bitShoreline byte = 1 << 5
	magnitudeMask byte = 0x1F
)

// Grid is an immutable W×H array of terrain cells.
type Grid struct {
	w, h  int
	cells []byte
}

// LoadGrid constructs a Grid from a bit-exact terrain byte layout: one byte
// per cell, row-major, width*height bytes total. This is a boundary format
// (spec §6) — callers outside this module must produce bytes in this exact
// layout.
func LoadGrid(data []byte, w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("terrain: invalid grid dimensions %dx%d", w, h))
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("terrain: expected %d bytes for %dx%d grid, got %d", w*h, w, h, len(data))
	}
	cells := make([]byte, len(data))
	copy(cells, data)
	return &Grid{w: w, h: h, cells: cells}, nil
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.w }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.h }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// Ref returns the packed tile reference for (x, y). Panics if out of
// bounds — an out-of-range coordinate is a programmer error (spec §7).
func (g *Grid) Ref(x, y int) Tile {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("terrain: Ref(%d,%d) out of bounds for %dx%d grid", x, y, g.w, g.h))
	}
	return Tile(y*g.w + x)
}

// X returns the x coordinate of a tile.
func (g *Grid) X(t Tile) int { return int(t) % g.w }

// Y returns the y coordinate of a tile.
func (g *Grid) Y(t Tile) int { return int(t) / g.w }

// InBounds reports whether (x,y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool { return g.inBounds(x, y) }

func (g *Grid) cell(t Tile) byte { return g.cells[t] }

// IsLand reports whether t is land.
func (g *Grid) IsLand(t Tile) bool { return g.cell(t)&bitLand != 0 }

// IsWater reports whether t is water (the complement of IsLand).
func (g *Grid) IsWater(t Tile) bool { return !g.IsLand(t) }

// IsOcean reports whether t is open ocean water (vs. a lake). Meaningless
// for land tiles.
func (g *Grid) IsOcean(t Tile) bool { return g.IsWater(t) && g.cell(t)&bitOcean != 0 }

// IsShoreline reports whether t sits on the land/water boundary.
func (g *Grid) IsShoreline(t Tile) bool { return g.cell(t)&bitShoreline != 0 }

// Magnitude returns the distance-from-shore magnitude, 0..31, for both
// water and land tiles.
func (g *Grid) Magnitude(t Tile) int { return int(g.cell(t) & magnitudeMask) }

// PackCell builds one terrain byte from its component attributes. Exposed
// for terrain-generation tooling (cmd/pathdemo) and tests.
func PackCell(land, ocean, shoreline bool, magnitude int) byte {
	var b byte
	if land {
		b |= bitLand
	}
	if ocean {
		b |= bitOcean
	}
	if shoreline {
		b |= bitShoreline
	}
	b |= byte(magnitude) & magnitudeMask
	return b
}

// Neighbours appends the up to 4 in-bounds 4-connected neighbours of t to
// dst and returns the extended slice. Passing a reused dst[:0] avoids
// allocation in hot loops.
func (g *Grid) Neighbours(t Tile, dst []Tile) []Tile {
	x, y := g.X(t), g.Y(t)
	if y > 0 {
		dst = append(dst, t-Tile(g.w))
	}
	if y < g.h-1 {
		dst = append(dst, t+Tile(g.w))
	}
	if x > 0 {
		dst = append(dst, t-1)
	}
	if x < g.w-1 {
		dst = append(dst, t+1)
	}
	return dst
}

// ManhattanDist returns |x1-x2| + |y1-y2| between two tiles.
func (g *Grid) ManhattanDist(a, b Tile) int {
	dx := g.X(a) - g.X(b)
	if dx < 0 {
		dx = -dx
	}
	dy := g.Y(a) - g.Y(b)
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// EuclideanDistSquared returns the squared Euclidean distance between two
// tiles (avoids a sqrt in hot comparison code).
func (g *Grid) EuclideanDistSquared(a, b Tile) int {
	dx := g.X(a) - g.X(b)
	dy := g.Y(a) - g.Y(b)
	return dx*dx + dy*dy
}

// MiniGrid is a halved-resolution companion grid: each mini-tile covers a
// 2x2 block of the parent grid and is water iff any of the up to 4 covered
// tiles is water (a looser rule that biases mini-searches toward
// reachability, per spec §4.1).
type MiniGrid struct {
	w, h  int
	cells []byte
}

// BuildMiniGrid constructs the MiniGrid companion for g. Size is
// ceil(W/2) x ceil(H/2).
func BuildMiniGrid(g *Grid) *MiniGrid {
	mw := (g.w + 1) / 2
	mh := (g.h + 1) / 2
	mg := &MiniGrid{w: mw, h: mh, cells: make([]byte, mw*mh)}

	for my := 0; my < mh; my++ {
		for mx := 0; mx < mw; mx++ {
			anyWater := false
			sumMag := 0
			n := 0
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := mx*2+dx, my*2+dy
					if !g.inBounds(x, y) {
						continue
					}
					t := g.Ref(x, y)
					n++
					if g.IsWater(t) {
						anyWater = true
						sumMag += g.Magnitude(t)
					}
				}
			}
			mag := 0
			if anyWater && n > 0 {
				mag = sumMag / n
			}
			mg.cells[my*mw+mx] = PackCell(!anyWater, false, false, mag)
		}
	}
	return mg
}

// Width returns the mini-grid width.
func (m *MiniGrid) Width() int { return m.w }

// Height returns the mini-grid height.
func (m *MiniGrid) Height() int { return m.h }

// ToMini maps a full-resolution (x,y) down to mini-grid coordinates
// (floor-half, per spec §4.7).
func ToMini(x, y int) (int, int) { return x / 2, y / 2 }

// ToFull maps mini-grid coordinates up to the full-resolution anchor tile
// of the covered 2x2 block (its top-left corner).
func ToFull(mx, my int) (int, int) { return mx * 2, my * 2 }

// Ref returns the packed mini-tile reference for (x,y) in mini coordinates.
func (m *MiniGrid) Ref(x, y int) Tile {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		panic(fmt.Sprintf("terrain: MiniGrid.Ref(%d,%d) out of bounds for %dx%d grid", x, y, m.w, m.h))
	}
	return Tile(y*m.w + x)
}

// X returns the mini-grid x coordinate of a mini-tile.
func (m *MiniGrid) X(t Tile) int { return int(t) % m.w }

// Y returns the mini-grid y coordinate of a mini-tile.
func (m *MiniGrid) Y(t Tile) int { return int(t) / m.w }

// IsWater reports whether the mini-tile is water.
func (m *MiniGrid) IsWater(t Tile) bool { return m.cells[t]&bitLand == 0 }

// IsLand reports whether the mini-tile is land.
func (m *MiniGrid) IsLand(t Tile) bool { return !m.IsWater(t) }

// Magnitude returns the mini-tile's averaged shore-distance magnitude.
func (m *MiniGrid) Magnitude(t Tile) int { return int(m.cells[t] & magnitudeMask) }

// Neighbours appends the up to 4 in-bounds 4-connected neighbours of t.
func (m *MiniGrid) Neighbours(t Tile, dst []Tile) []Tile {
	x, y := m.X(t), m.Y(t)
	if y > 0 {
		dst = append(dst, t-Tile(m.w))
	}
	if y < m.h-1 {
		dst = append(dst, t+Tile(m.w))
	}
	if x > 0 {
		dst = append(dst, t-1)
	}
	if x < m.w-1 {
		dst = append(dst, t+1)
	}
	return dst
}
