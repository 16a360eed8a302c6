// pkg/mapdata/index.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapdata

import (
	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/util"
)

// Index answers nearest-lane-point queries over one map's lane points.
// Queries are 2D: the editor resolves a pointer position to (x, y) and
// the matched lane point supplies elevation and heading.
type Index struct {
	lanes []LanePoint
	tree  *math.KDNode
}

func NewIndex(md *MapData) *Index {
	pts := util.MapSlice(md.Lanes, func(lp LanePoint) [2]float32 { return lp.Loc.XY() })
	return &Index{lanes: md.Lanes, tree: math.BuildKDTree(pts)}
}

// Snap returns the pose of the lane point nearest to p whose kind is in
// kinds. The second return value is false when the map has no lane point
// of any requested kind. Equidistant candidates resolve to the point that
// was ingested first.
func (idx *Index) Snap(p math.Point3, kinds LaneKind) (math.Transform, bool) {
	i, _ := idx.tree.Nearest(p.XY(), func(i int) bool {
		return idx.lanes[i].Kind&kinds != 0
	})
	if i == -1 {
		return math.Transform{}, false
	}
	lp := idx.lanes[i]
	return math.Transform{Loc: lp.Loc, Yaw: lp.Yaw}, true
}

// NearestKind reports the lane kind of the nearest lane point of any
// kind; used by the editor to classify what's under the cursor.
func (idx *Index) NearestKind(p math.Point3) (LaneKind, bool) {
	i, _ := idx.tree.Nearest(p.XY(), nil)
	if i == -1 {
		return 0, false
	}
	return idx.lanes[i].Kind, true
}
