// pkg/route/route.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package route implements the editor's data model: routes made of
// sparse user-placed waypoints with a dense planner-interpolated path
// derived from them, scenarios anchored to trigger points along the
// path, and whole-collection XML persistence.
package route

import (
	"fmt"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/mapdata"
	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/util"
)

// MapService is what a Route needs from the outside world: snapping
// arbitrary points to lane centerlines and tracing dense drivable paths.
// The live implementation combines ingested map data with the planner
// bridge; tests substitute fakes.
type MapService interface {
	SnapToLane(p math.Point3, kinds mapdata.LaneKind) (math.Transform, error)
	TraceDensePath(from, to math.Point3) ([]math.Point3, error)
}

// SimService extends MapService with the manager-level operations that
// need the simulator itself.
type SimService interface {
	MapService
	LoadMap(name string) error
	CurrentWeather() (WeatherParams, error)
}

// Waypoints and scenario triggers closer than this to a click are
// removed rather than a new one being added (strictly closer; at exactly
// this distance a new point is added).
const MaxRemovalDistance = 10

// Route owns one route's sparse control points, the dense path derived
// from them, and its embedded scenarios.
//
// A Route is not safe for concurrent use: the caller serializes
// mutations, and in particular must not issue another mutating operation
// while a planner call made on behalf of an earlier one is still
// outstanding.
type Route struct {
	ID      int
	MapName string
	Weather []WeatherKeyframe

	// Sparse control points in traversal order. No two consecutive
	// points coincide after snapping.
	Waypoints []math.Point3

	// Derived by UpdateDenseRoute; never edited directly. Empty iff
	// Waypoints is empty, and starts at Waypoints[0] otherwise.
	DenseWaypoints []math.Point3

	// Sum of consecutive distances along DenseWaypoints, in meters; 0
	// whenever there are fewer than two dense points.
	Length float32

	Scenarios []*Scenario

	svc MapService
	lg  *log.Logger
}

// NewRoute builds a route from persisted or empty state and computes its
// dense path. The error is the planner's, if tracing the initial
// waypoints fails.
func NewRoute(svc MapService, id int, mapName string, weather []WeatherKeyframe,
	waypoints []math.Point3, scenarios []*Scenario, lg *log.Logger) (*Route, error) {
	r := &Route{
		ID:        id,
		MapName:   mapName,
		Weather:   weather,
		Waypoints: waypoints,
		Scenarios: scenarios,
		svc:       svc,
		lg:        lg,
	}
	if err := r.UpdateDenseRoute(); err != nil {
		return nil, err
	}
	return r, nil
}

// AddOrRemoveWaypoint toggles a control point near p: if an existing
// waypoint lies strictly within MaxRemovalDistance of the snapped
// location, the nearest such waypoint is removed; otherwise the snapped
// location is appended. The dense path is recomputed either way.
//
// Only the first waypoint may snap to a parking lane, so that a route
// can start from a parking spot (ParkingExit); all later waypoints snap
// to driving lanes.
func (r *Route) AddOrRemoveWaypoint(p math.Point3) error {
	kinds := mapdata.LaneKind(mapdata.LaneDriving)
	if len(r.Waypoints) == 0 {
		kinds |= mapdata.LaneParking
	}

	tf, err := r.svc.SnapToLane(p, kinds)
	if err != nil {
		return err
	}

	if idx, dist := r.nearestWaypoint(tf.Loc); idx != -1 && dist < MaxRemovalDistance {
		r.lg.Debugf("route %d: removing waypoint %d at %v", r.ID, idx, r.Waypoints[idx])
		r.Waypoints = util.DeleteSliceElement(r.Waypoints, idx)
	} else {
		wp := tf.Loc.Rounded(1)
		r.lg.Debugf("route %d: adding waypoint at %v", r.ID, wp)
		r.Waypoints = append(r.Waypoints, wp)
	}

	return r.UpdateDenseRoute()
}

// nearestWaypoint returns the index of the waypoint closest to loc and
// its distance, or (-1, 0) when there are no waypoints. Equidistant
// waypoints resolve to the lowest index.
func (r *Route) nearestWaypoint(loc math.Point3) (int, float32) {
	idx, best := -1, float32(0)
	for i, wp := range r.Waypoints {
		if d := math.Distance3f(wp, loc); idx == -1 || d < best {
			idx, best = i, d
		}
	}
	return idx, best
}

// UpdateDenseRoute rebuilds DenseWaypoints by tracing each consecutive
// pair of control points through the planner, and recomputes Length.
func (r *Route) UpdateDenseRoute() error {
	r.DenseWaypoints = r.DenseWaypoints[:0]
	r.Length = 0

	if len(r.Waypoints) > 0 {
		r.DenseWaypoints = append(r.DenseWaypoints, r.Waypoints[0])
	}

	for i := 0; i+1 < len(r.Waypoints); i++ {
		trace, err := r.svc.TraceDensePath(r.Waypoints[i], r.Waypoints[i+1])
		if err != nil {
			return fmt.Errorf("route %d: waypoints %d-%d: %w", r.ID, i, i+1, err)
		}
		r.DenseWaypoints = append(r.DenseWaypoints, trace...)
	}

	for i := 0; i+1 < len(r.DenseWaypoints); i++ {
		r.Length += math.Distance3f(r.DenseWaypoints[i], r.DenseWaypoints[i+1])
	}
	return nil
}

// InterpolateFromLastWaypoint returns the dense path from the last
// control point to the given location without changing the route; the
// editor uses it to preview where a click would extend the route.
// Returns nil when the route has no waypoints yet.
func (r *Route) InterpolateFromLastWaypoint(to math.Point3) ([]math.Point3, error) {
	if len(r.Waypoints) == 0 {
		return nil, nil
	}
	return r.svc.TraceDensePath(r.Waypoints[len(r.Waypoints)-1], to)
}

// AddScenario appends a scenario of the given type triggered near p.
// The trigger point is the clicked position snapped to a driving or
// parking lane and rounded, yaw included. The scenario's name is
// "{type}_{n}" where n counts the same-type scenarios already present;
// names are never renumbered, even after removals.
//
// Callers decide between adding and removing via ShouldRemoveScenario;
// this operation always appends.
func (r *Route) AddScenario(p math.Point3, scenarioType string, attrs []Attribute) error {
	tf, err := r.svc.SnapToLane(p, mapdata.LaneDriving|mapdata.LaneParking)
	if err != nil {
		return err
	}

	n := 0
	for _, s := range r.Scenarios {
		if s.Type == scenarioType {
			n++
		}
	}

	s := &Scenario{
		Type:       scenarioType,
		Name:       fmt.Sprintf("%s_%d", scenarioType, n),
		Trigger:    tf.Rounded(1),
		Attributes: attrs,
	}
	r.lg.Debugf("route %d: adding scenario %s at %v", r.ID, s.Name, s.Trigger.Loc)
	r.Scenarios = append(r.Scenarios, s)
	return nil
}

// RemoveScenario removes the scenario whose trigger point is nearest to
// p after snapping; equidistant triggers resolve to the lowest index.
func (r *Route) RemoveScenario(p math.Point3) error {
	tf, err := r.svc.SnapToLane(p, mapdata.LaneDriving|mapdata.LaneParking)
	if err != nil {
		return err
	}

	idx, _ := r.nearestScenario(tf.Loc)
	if idx == -1 {
		return nil
	}
	r.lg.Debugf("route %d: removing scenario %s", r.ID, r.Scenarios[idx].Name)
	r.Scenarios = util.DeleteSliceElement(r.Scenarios, idx)
	return nil
}

func (r *Route) nearestScenario(loc math.Point3) (int, float32) {
	idx, best := -1, float32(0)
	for i, s := range r.Scenarios {
		if d := math.Distance3f(s.Trigger.Loc, loc); idx == -1 || d < best {
			idx, best = i, d
		}
	}
	return idx, best
}

// ShouldRemoveScenario reports whether a click at p lands close enough
// to an existing trigger point that the editor should remove that
// scenario instead of adding a new one.
func (r *Route) ShouldRemoveScenario(p math.Point3) (bool, error) {
	if len(r.Scenarios) == 0 {
		return false, nil
	}
	tf, err := r.svc.SnapToLane(p, mapdata.LaneDriving|mapdata.LaneParking)
	if err != nil {
		return false, err
	}
	_, dist := r.nearestScenario(tf.Loc)
	return dist < MaxRemovalDistance, nil
}

// CanAddScenario reports whether p is close enough to the route's dense
// path for a scenario to be placed there. Always false while the route
// has no dense path.
func (r *Route) CanAddScenario(p math.Point3) (bool, error) {
	if len(r.DenseWaypoints) == 0 {
		return false, nil
	}
	tf, err := r.svc.SnapToLane(p, mapdata.LaneDriving|mapdata.LaneParking)
	if err != nil {
		return false, err
	}

	best := float32(-1)
	for _, wp := range r.DenseWaypoints {
		if d := math.Distance3f(wp, tf.Loc); best < 0 || d < best {
			best = d
		}
	}
	return best < MaxRemovalDistance, nil
}

// AttachLocationAttributes appends map-placed attributes to the most
// recently added scenario. Only location and transform values may be
// attached this way; anything else is a programming error and panics.
func (r *Route) AttachLocationAttributes(attrs []Attribute) {
	if len(r.Scenarios) == 0 {
		panic("AttachLocationAttributes: no scenarios")
	}
	for _, a := range attrs {
		if !isPlacement(a.Value) {
			panic(fmt.Sprintf("%s: unsupported attribute kind %s attached to scenario",
				a.Name, KindName(a.Value)))
		}
	}
	last := r.Scenarios[len(r.Scenarios)-1]
	last.Attributes = append(last.Attributes, attrs...)
}
