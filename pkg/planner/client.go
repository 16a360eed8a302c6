// pkg/planner/client.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"time"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/util"
)

// ErrSimulatorUnreachable reports that the planner bridge (and so,
// presumably, the simulator) can't be talked to. This is deliberately a
// different error than mapdata.ErrMapDataMissing: both are fatal at
// startup but the user fixes them differently.
var ErrSimulatorUnreachable = errors.New(
	"Failed to connect to the simulator. Make sure the simulator and planner bridge are running and the address is correct.")

const dialTimeout = 5 * time.Second

// Loading a big town server-side takes a while; trace calls are fast but
// share the same deadline for simplicity, matching the original tool's
// single long post-handshake timeout.
const callTimeout = 120 * time.Second

type Client struct {
	rpc     *rpc.Client
	address string
	lg      *log.Logger
}

// Dial connects to the planner bridge, verifies that it speaks our
// protocol version, and returns a ready-to-use client.
func Dial(address string, lg *log.Logger) (*Client, error) {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		lg.Warnf("%s: %v", address, err)
		return nil, fmt.Errorf("%s: %w", address, ErrSimulatorUnreachable)
	}

	// Trace replies for a long route run to tens of thousands of points;
	// the stream is compressed on both sides.
	cc, err := util.MakeCompressedConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	codec := util.MakeGOBClientCodec(cc)
	if lg != nil && lg.Enabled(nil, slog.LevelDebug) {
		codec = util.MakeLoggingClientCodec(address, codec, lg)
	}

	c := &Client{
		rpc:     rpc.NewClientWithCodec(codec),
		address: address,
		lg:      lg,
	}

	// Handshake with a short deadline; the regular callTimeout is far too
	// generous for detecting that nothing is listening.
	var version VersionReply
	if err := c.callTimeout("Bridge.ServerVersion", struct{}{}, &version, dialTimeout); err != nil {
		c.rpc.Close()
		return nil, fmt.Errorf("%s: %w", address, ErrSimulatorUnreachable)
	}
	if version.Version != BridgeRPCVersion {
		c.rpc.Close()
		return nil, fmt.Errorf("%s: bridge RPC version %d, expected %d: %w",
			address, version.Version, BridgeRPCVersion, ErrSimulatorUnreachable)
	}

	lg.Infof("%s: connected to planner bridge, version %d", address, version.Version)
	return c, nil
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) call(method string, args, reply any) error {
	return c.callTimeout(method, args, reply, callTimeout)
}

func (c *Client) callTimeout(method string, args, reply any, timeout time.Duration) error {
	call := c.rpc.Go(method, args, reply, nil)
	select {
	case <-call.Done:
		if util.IsRPCServerError(call.Error) {
			c.lg.Errorf("%s: server-side error: %v", method, call.Error)
		}
		return call.Error
	case <-time.After(timeout):
		c.lg.Errorf("%s: no reply after %s", method, timeout)
		return util.ErrRPCTimeout
	}
}

// AvailableMaps returns the names of the maps the simulator can load.
func (c *Client) AvailableMaps() ([]string, error) {
	var reply AvailableMapsReply
	if err := c.call("Bridge.AvailableMaps", struct{}{}, &reply); err != nil {
		return nil, err
	}
	return reply.Maps, nil
}

// LoadMap makes the simulator switch to the named map (a no-op
// server-side when it is already loaded) and re-initializes the bridge's
// route planner for it.
func (c *Client) LoadMap(name string) error {
	start := time.Now()
	var reply LoadMapReply
	if err := c.call("Bridge.LoadMap", LoadMapArgs{Name: name}, &reply); err != nil {
		return err
	}
	c.lg.Infof("%s: map loaded in %s", name, time.Since(start))
	return nil
}

// CurrentWeather returns the simulator's live weather parameters.
func (c *Client) CurrentWeather() (Weather, error) {
	var reply WeatherReply
	err := c.call("Bridge.CurrentWeather", struct{}{}, &reply)
	return reply.Weather, err
}

// TraceRoute asks the bridge's route planner for a dense drivable path
// between two lane locations.
func (c *Client) TraceRoute(from, to math.Point3) ([]math.Point3, error) {
	var reply TraceRouteReply
	if err := c.call("Bridge.TraceRoute", TraceRouteArgs{From: from, To: to}, &reply); err != nil {
		return nil, err
	}
	return reply.Points, nil
}

// MapGeometry fetches the currently loaded map's lane points and signage;
// only the ingest tool calls this.
func (c *Client) MapGeometry() (*MapGeometryReply, error) {
	var reply MapGeometryReply
	if err := c.call("Bridge.MapGeometry", struct{}{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
