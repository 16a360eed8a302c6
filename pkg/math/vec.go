// pkg/math/vec.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import "fmt"

// Point3 represents a position in the simulator's world frame, in meters.
// The axes follow the simulator's convention: x east, y south, z up.
type Point3 [3]float32

func (p Point3) X() float32 { return p[0] }
func (p Point3) Y() float32 { return p[1] }
func (p Point3) Z() float32 { return p[2] }

// XY projects the point onto the ground plane; lane lookups are 2D since
// elevation comes from the matched lane point, not the query.
func (p Point3) XY() [2]float32 {
	return [2]float32{p[0], p[1]}
}

func (p Point3) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", p[0], p[1], p[2])
}

// Rounded returns the point with each coordinate rounded to the given
// number of decimal digits.
func (p Point3) Rounded(digits int) Point3 {
	return Point3{RoundTo(p[0], digits), RoundTo(p[1], digits), RoundTo(p[2], digits)}
}

func Add3f(a, b Point3) Point3 {
	return Point3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Sub3f(a, b Point3) Point3 {
	return Point3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Scale3f(a Point3, s float32) Point3 {
	return Point3{s * a[0], s * a[1], s * a[2]}
}

func Length3f(v Point3) float32 {
	return Sqrt(Sqr(v[0]) + Sqr(v[1]) + Sqr(v[2]))
}

func Distance3f(a, b Point3) float32 {
	return Length3f(Sub3f(a, b))
}

func Add2f(a, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

func Sub2f(a, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

func Length2f(v [2]float32) float32 {
	return Sqrt(Sqr(v[0]) + Sqr(v[1]))
}

func Distance2f(a, b [2]float32) float32 {
	return Length2f(Sub2f(a, b))
}

// Transform is a position plus a heading: the pose of a lane point or a
// scenario trigger. Yaw is in degrees, matching the simulator.
type Transform struct {
	Loc Point3
	Yaw float32
}

// Rounded rounds both the location and the yaw.
func (t Transform) Rounded(digits int) Transform {
	return Transform{Loc: t.Loc.Rounded(digits), Yaw: RoundTo(t.Yaw, digits)}
}
