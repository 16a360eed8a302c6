// pkg/mapdata/mapdata.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mapdata holds preprocessed per-map simulator data: the lane
// points that route waypoints and scenario triggers snap to, plus stop
// sign and traffic light locations for display. The data is extracted
// once per map by cmd/mapingest so that the editor doesn't have to query
// the simulator for it at runtime.
package mapdata

import (
	"strings"

	"github.com/drivebench/routeforge/pkg/math"
)

// LaneKind classifies the drivable surface a lane point belongs to. It is
// a bitmask so that snap queries can accept several kinds at once, e.g.
// driving|parking for a route's first waypoint.
type LaneKind int

const (
	LaneDriving LaneKind = 1 << iota
	LaneParking
	LaneSidewalk
	LaneBiking
)

func (k LaneKind) String() string {
	var kinds []string
	if k&LaneDriving != 0 {
		kinds = append(kinds, "driving")
	}
	if k&LaneParking != 0 {
		kinds = append(kinds, "parking")
	}
	if k&LaneSidewalk != 0 {
		kinds = append(kinds, "sidewalk")
	}
	if k&LaneBiking != 0 {
		kinds = append(kinds, "biking")
	}
	if len(kinds) == 0 {
		return "none"
	}
	return strings.Join(kinds, "|")
}

// LanePoint is a single sampled point on a lane's centerline; maps are
// sampled at 1 meter resolution by the ingest tool.
type LanePoint struct {
	Loc  math.Point3
	Yaw  float32 // degrees
	Kind LaneKind
}

// MapData is everything the editor needs to know about one map.
type MapData struct {
	Name          string
	Lanes         []LanePoint
	StopSigns     []math.Point3
	TrafficLights []math.Point3
}

// Extent returns the ground-plane bounding box of all lane points.
func (m *MapData) Extent() math.Extent2D {
	e := math.EmptyExtent2D()
	for _, lp := range m.Lanes {
		e = math.Union(e, lp.Loc.XY())
	}
	return e
}

// Size returns the integer width and height of the map in meters.
func (m *MapData) Size() (int, int) {
	e := m.Extent()
	return int(e.Width()), int(e.Height())
}
