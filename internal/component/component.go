// Package component labels water tiles into connected components with a
// single-pass 4-neighbour flood fill, so cross-component searches can be
// rejected in O(1) instead of running a doomed A* to exhaustion (spec
// §3, §4.3).
//
// Grounded on the teacher's grid-traversal shape (internal/game/geo
// region/block scanning) generalized from 3D geo cells to a 2D water
// grid, with the closed-set-as-map pattern replaced by an explicit
// per-tile label array per spec.md §9's design note against ad-hoc maps
// in hot paths.
package component

import "github.com/tidewake/pathengine/internal/terrain"

// Land is the reserved component ID for land tiles — never assigned to
// water.
const Land uint32 = 0

// Components holds one component ID per tile. Built once per Grid and
// read many times thereafter.
type Components struct {
	ids   []uint32
	count uint32 // number of water components found (IDs 1..count)
}

// Build runs the flood fill over g and returns the completed label set.
func Build(g *terrain.Grid) *Components {
	n := g.Width() * g.Height()
	c := &Components{ids: make([]uint32, n)}

	stack := make([]terrain.Tile, 0, 256)
	var nbrs [4]terrain.Tile

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			start := g.Ref(x, y)
			if g.IsLand(start) || c.ids[start] != Land {
				continue
			}
			c.count++
			id := c.count
			c.ids[start] = id
			stack = append(stack, start)

			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				ns := g.Neighbours(cur, nbrs[:0])
				for _, nb := range ns {
					if g.IsLand(nb) || c.ids[nb] != Land {
						continue
					}
					c.ids[nb] = id
					stack = append(stack, nb)
				}
			}
		}
	}
	return c
}

// ComponentID returns the water component ID for t, or Land (0) if t is
// land.
func (c *Components) ComponentID(t terrain.Tile) uint32 { return c.ids[t] }

// SameComponent reports whether a and b are water tiles in the same
// connected component.
func (c *Components) SameComponent(a, b terrain.Tile) bool {
	ia, ib := c.ids[a], c.ids[b]
	return ia != Land && ia == ib
}

// Count returns the number of distinct water components found.
func (c *Components) Count() uint32 { return c.count }
