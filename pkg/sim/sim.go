// pkg/sim/sim.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim combines locally ingested map data with the planner bridge
// into the single service the route data model consumes. Lane snapping
// runs against the local kd-tree so it costs no round trip; map loading,
// weather, and path tracing go to the bridge.
package sim

import (
	"errors"
	"fmt"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/mapdata"
	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/planner"
	"github.com/drivebench/routeforge/pkg/route"
)

var ErrNoMapLoaded = errors.New("No map loaded")

// ErrNoLaneNearby reports a snap against a map with no lane of the
// requested kinds at all.
var ErrNoLaneNearby = errors.New("No matching lane on the current map")

type Client struct {
	bridge *planner.Client
	store  *mapdata.Store

	// Current map; idx is nil until the first LoadMap.
	mapName string
	idx     *mapdata.Index

	lg *log.Logger
}

// NewClient connects to the planner bridge at the given address and
// opens the ingested map data directory. The two failure modes stay
// distinguishable for the caller: planner.ErrSimulatorUnreachable means
// the simulator side is down, mapdata.ErrMapDataMissing means the ingest
// tool hasn't been run.
func NewClient(address, dataDir string, lg *log.Logger) (*Client, error) {
	store, err := mapdata.NewStore(dataDir, lg)
	if err != nil {
		return nil, err
	}

	bridge, err := planner.Dial(address, lg)
	if err != nil {
		return nil, err
	}

	return &Client{bridge: bridge, store: store, lg: lg}, nil
}

func (c *Client) Close() error {
	return c.bridge.Close()
}

// AvailableMaps returns the maps that have been ingested locally; only
// these can be edited, regardless of what the simulator itself could
// load.
func (c *Client) AvailableMaps() ([]string, error) {
	return c.store.Available()
}

// LoadMap switches both sides to the named map: the simulator via the
// bridge, and the local lane index from the ingested data.
func (c *Client) LoadMap(name string) error {
	md, err := c.store.Load(name)
	if err != nil {
		return err
	}
	if err := c.bridge.LoadMap(name); err != nil {
		return err
	}

	c.mapName = name
	c.idx = mapdata.NewIndex(md)
	return nil
}

// SnapToLane snaps p to the nearest lane point of the requested kinds on
// the current map.
func (c *Client) SnapToLane(p math.Point3, kinds mapdata.LaneKind) (math.Transform, error) {
	if c.idx == nil {
		return math.Transform{}, ErrNoMapLoaded
	}
	tf, ok := c.idx.Snap(p, kinds)
	if !ok {
		return math.Transform{}, fmt.Errorf("%s: %v: %w", c.mapName, kinds, ErrNoLaneNearby)
	}
	return tf, nil
}

// TraceDensePath snaps both endpoints to driving lanes and asks the
// bridge's planner for the dense path between them.
func (c *Client) TraceDensePath(from, to math.Point3) ([]math.Point3, error) {
	fromTF, err := c.SnapToLane(from, mapdata.LaneDriving)
	if err != nil {
		return nil, err
	}
	toTF, err := c.SnapToLane(to, mapdata.LaneDriving)
	if err != nil {
		return nil, err
	}
	return c.bridge.TraceRoute(fromTF.Loc, toTF.Loc)
}

// CurrentWeather fetches the simulator's live weather.
func (c *Client) CurrentWeather() (route.WeatherParams, error) {
	w, err := c.bridge.CurrentWeather()
	if err != nil {
		return route.WeatherParams{}, err
	}
	return route.WeatherParams{
		Cloudiness:            w.Cloudiness,
		Precipitation:         w.Precipitation,
		PrecipitationDeposits: w.PrecipitationDeposits,
		Wetness:               w.Wetness,
		WindIntensity:         w.WindIntensity,
		SunAzimuthAngle:       w.SunAzimuthAngle,
		SunAltitudeAngle:      w.SunAltitudeAngle,
		FogDensity:            w.FogDensity,
		FogDistance:           w.FogDistance,
		FogFalloff:            w.FogFalloff,
		ScatteringIntensity:   w.ScatteringIntensity,
		MieScatteringScale:    w.MieScatteringScale,
	}, nil
}

// Interface check; the route package defines what it consumes.
var _ route.SimService = (*Client)(nil)
