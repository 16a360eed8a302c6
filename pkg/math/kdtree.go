// pkg/math/kdtree.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"slices"
)

// KDNode is a node in a 2D KD-tree. Each node carries the index of its
// point in the slice the tree was built from, so lookups can recover
// per-point payloads (lane kind, yaw, ...) that the tree itself doesn't
// store.
type KDNode struct {
	P     [2]float32
	Index int
	Left  *KDNode
	Right *KDNode
}

type kdPoint struct {
	p     [2]float32
	index int
}

// BuildKDTree constructs a balanced KD-tree from a slice of points.
// The tree alternates splitting by X and Y at each level.
func BuildKDTree(points [][2]float32) *KDNode {
	if len(points) == 0 {
		return nil
	}
	pts := make([]kdPoint, len(points))
	for i, p := range points {
		pts[i] = kdPoint{p: p, index: i}
	}
	return buildKDTreeRecursive(pts, 0)
}

func buildKDTreeRecursive(points []kdPoint, depth int) *KDNode {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return &KDNode{P: points[0].p, Index: points[0].index}
	}

	// Alternate between X (depth even) and Y (depth odd)
	axis := depth % 2

	// Sort by the splitting axis and find median
	slices.SortFunc(points, func(a, b kdPoint) int {
		if a.p[axis] < b.p[axis] {
			return -1
		} else if a.p[axis] > b.p[axis] {
			return 1
		}
		return a.index - b.index
	})

	median := len(points) / 2

	return &KDNode{
		P:     points[median].p,
		Index: points[median].index,
		Left:  buildKDTreeRecursive(points[:median], depth+1),
		Right: buildKDTreeRecursive(points[median+1:], depth+1),
	}
}

// Nearest returns the index of the point closest to p among those for
// which accept returns true, along with the distance to it. A nil accept
// considers every point. Returns -1 if no point is accepted. Equidistant
// candidates resolve to the lowest index so that queries are stable
// regardless of tree shape.
func (tree *KDNode) Nearest(p [2]float32, accept func(index int) bool) (int, float32) {
	best := -1
	bestDist := float32(1e30)

	var search func(n *KDNode, depth int)
	search = func(n *KDNode, depth int) {
		if n == nil {
			return
		}

		if accept == nil || accept(n.Index) {
			d := Distance2f(p, n.P)
			if d < bestDist || (d == bestDist && n.Index < best) {
				best, bestDist = n.Index, d
			}
		}

		axis := depth % 2
		near, far := n.Left, n.Right
		if p[axis] > n.P[axis] {
			near, far = far, near
		}

		search(near, depth+1)

		// Only descend into the far side if the splitting plane is closer
		// than the best match so far. <= rather than < so that an
		// equidistant lower-index point on the far side is still found.
		if Abs(p[axis]-n.P[axis]) <= bestDist {
			search(far, depth+1)
		}
	}
	search(tree, 0)

	return best, bestDist
}
