// pkg/planner/bridge.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package planner talks to the planner bridge, a small RPC service
// colocated with the CARLA server. The bridge wraps the simulator's
// world/map handles and its global route planner; everything that needs
// live map topology (dense route tracing, world loading, weather) goes
// through it, while pure point lookups are served locally from ingested
// map data.
package planner

import (
	"github.com/drivebench/routeforge/pkg/mapdata"
	"github.com/drivebench/routeforge/pkg/math"
)

// Version history:
// 1: initial bridge protocol
// 2: TraceRoute returns bare points instead of (waypoint, road option) pairs
// 3: MapGeometry gained stop sign and traffic light centers
const BridgeRPCVersion = 3

const DefaultBridgePort = 2100

// The planner bridge re-initializes its route planner at this sampling
// resolution whenever a world is loaded; dense waypoints come back spaced
// roughly this far apart (meters).
const TraceResolution = 1.0

// RPC argument/reply types. The bridge registers a service named
// "Bridge"; all methods are synchronous on the simulator side.

type VersionReply struct {
	Version int
}

type AvailableMapsReply struct {
	// Bare map names; the bridge strips the content path prefix
	// ("/Game/Carla/Maps/Town12" -> "Town12").
	Maps []string
}

type LoadMapArgs struct {
	Name string
}

type LoadMapReply struct{}

type WeatherReply struct {
	Weather Weather
}

type TraceRouteArgs struct {
	From, To math.Point3
}

type TraceRouteReply struct {
	// Dense path from From to To, possibly empty if the planner found no
	// drivable connection.
	Points []math.Point3
}

type MapGeometryReply struct {
	Lanes         []mapdata.LanePoint
	StopSigns     []math.Point3
	TrafficLights []math.Point3
}

// Weather mirrors the simulator's weather parameter set.
type Weather struct {
	Cloudiness            float32
	Precipitation         float32
	PrecipitationDeposits float32
	Wetness               float32
	WindIntensity         float32
	SunAzimuthAngle       float32
	SunAltitudeAngle      float32
	FogDensity            float32
	FogDistance           float32
	FogFalloff            float32
	ScatteringIntensity   float32
	MieScatteringScale    float32
}
