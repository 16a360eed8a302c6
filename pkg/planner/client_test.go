// pkg/planner/client_test.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"errors"
	"net"
	"net/rpc"
	"testing"

	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/util"
)

// testBridge is an in-process stand-in for the planner bridge.
type testBridge struct {
	version int
	maps    []string
	loaded  string
	weather Weather
}

func (b *testBridge) ServerVersion(args struct{}, reply *VersionReply) error {
	reply.Version = b.version
	return nil
}

func (b *testBridge) AvailableMaps(args struct{}, reply *AvailableMapsReply) error {
	reply.Maps = b.maps
	return nil
}

func (b *testBridge) LoadMap(args LoadMapArgs, reply *LoadMapReply) error {
	b.loaded = args.Name
	return nil
}

func (b *testBridge) CurrentWeather(args struct{}, reply *WeatherReply) error {
	reply.Weather = b.weather
	return nil
}

func (b *testBridge) TraceRoute(args TraceRouteArgs, reply *TraceRouteReply) error {
	// Straight line with a midpoint; enough to verify the points survive
	// the codec unchanged.
	mid := math.Scale3f(math.Add3f(args.From, args.To), 0.5)
	reply.Points = []math.Point3{args.From, mid, args.To}
	return nil
}

func serveBridge(t *testing.T, b *testBridge) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	srv := rpc.NewServer()
	if err := srv.RegisterName("Bridge", b); err != nil {
		t.Fatal(err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			cc, err := util.MakeCompressedConn(conn)
			if err != nil {
				conn.Close()
				continue
			}
			go srv.ServeCodec(util.MakeGOBServerCodec(cc, nil))
		}
	}()

	return ln.Addr().String()
}

func TestDialAndCalls(t *testing.T) {
	bridge := &testBridge{
		version: BridgeRPCVersion,
		maps:    []string{"Town01", "Town12"},
		weather: Weather{Cloudiness: 20, FogFalloff: 0.035, MieScatteringScale: 0.031},
	}
	addr := serveBridge(t, bridge)

	c, err := Dial(addr, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	maps, err := c.AvailableMaps()
	if err != nil || len(maps) != 2 || maps[0] != "Town01" {
		t.Errorf("AvailableMaps() = %v, %v", maps, err)
	}

	if err := c.LoadMap("Town12"); err != nil {
		t.Errorf("LoadMap: %v", err)
	}

	wx, err := c.CurrentWeather()
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if wx != bridge.weather {
		t.Errorf("weather round trip: got %+v, expected %+v", wx, bridge.weather)
	}

	from, to := math.Point3{0, 0, 0}, math.Point3{100, 0, 0}
	pts, err := c.TraceRoute(from, to)
	if err != nil {
		t.Fatalf("TraceRoute: %v", err)
	}
	if len(pts) != 3 || pts[0] != from || pts[2] != to {
		t.Errorf("unexpected trace: %v", pts)
	}
	if pts[1] != (math.Point3{50, 0, 0}) {
		t.Errorf("unexpected midpoint: %v", pts[1])
	}
}

func TestDialVersionMismatch(t *testing.T) {
	addr := serveBridge(t, &testBridge{version: BridgeRPCVersion + 1})

	if _, err := Dial(addr, nil); !errors.Is(err, ErrSimulatorUnreachable) {
		t.Errorf("expected ErrSimulatorUnreachable for version mismatch, got %v", err)
	}
}

func TestDialUnreachable(t *testing.T) {
	// Claim a port, then close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(addr, nil); !errors.Is(err, ErrSimulatorUnreachable) {
		t.Errorf("expected ErrSimulatorUnreachable, got %v", err)
	}
}
