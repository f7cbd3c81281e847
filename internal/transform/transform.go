// Package transform implements the pathfinder pipeline transformers:
// mini-map downsampling, line-of-sight smoothing, and stepper caching
// (spec §4.7). Each transformer implements the same small PathFinder
// capability (spec §9's replacement for the source's inheritance/duck
// typing), so transformers compose by wrapping one another.
package transform

import "github.com/tidewake/pathengine/internal/terrain"

// PathFinder is the capability every transformer both consumes and
// exposes: find a dense tile path from any of sources to target.
type PathFinder interface {
	FindPath(sources []terrain.Tile, target terrain.Tile) ([]terrain.Tile, bool)
}

// SegmentPlan is a sparse keypoint polyline plus per-segment step
// counts, a compact alternative to the dense path for animation and
// serialisation (spec §4.7).
type SegmentPlan struct {
	Keypoints []terrain.Tile
	Steps     []int
}

// SegmentPlanner is implemented by transformers that can additionally
// produce a SegmentPlan alongside the dense path.
type SegmentPlanner interface {
	PathFinder
	PlanSegments(sources []terrain.Tile, target terrain.Tile) (SegmentPlan, bool)
}

// planFromDense collapses consecutive colinear dense-path runs into a
// sparse keypoint + step-count plan.
func planFromDense(path []terrain.Tile, grid *terrain.Grid) SegmentPlan {
	if len(path) == 0 {
		return SegmentPlan{}
	}
	plan := SegmentPlan{Keypoints: []terrain.Tile{path[0]}}
	segStart := 0
	dirX, dirY := 0, 0
	for i := 1; i < len(path); i++ {
		x0, y0 := grid.X(path[i-1]), grid.Y(path[i-1])
		x1, y1 := grid.X(path[i]), grid.Y(path[i])
		dx, dy := sign(x1-x0), sign(y1-y0)
		if i == 1 {
			dirX, dirY = dx, dy
		}
		if dx != dirX || dy != dirY {
			plan.Keypoints = append(plan.Keypoints, path[i-1])
			plan.Steps = append(plan.Steps, i-1-segStart)
			segStart = i - 1
			dirX, dirY = dx, dy
		}
	}
	last := len(path) - 1
	plan.Keypoints = append(plan.Keypoints, path[last])
	plan.Steps = append(plan.Steps, last-segStart)
	return plan
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
