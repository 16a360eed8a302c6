// cmd/mapingest/main.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// mapingest extracts lane geometry and signage from the simulator via
// the planner bridge and writes the map-data files the editor snaps
// against. Run it once per simulator version; editing only needs the
// files it produces plus a running bridge for path tracing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/mapdata"
	"github.com/drivebench/routeforge/pkg/planner"
)

var (
	simAddr = flag.String("sim", fmt.Sprintf("localhost:%d", planner.DefaultBridgePort),
		"address of the planner bridge")
	outDir   = flag.String("outdir", "", "directory to write map-data files into (required)")
	mapsFlag = flag.String("maps", "", "comma-separated subset of maps to ingest (default: all)")
	logLevel = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory (default: user config dir)")
)

func main() {
	flag.Parse()
	lg := log.New(true, *logLevel, *logDir)

	if *outDir == "" {
		fmt.Fprintf(os.Stderr, "usage: mapingest -outdir <dir> [flags]\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(lg, "%s: %v", *outDir, err)
	}

	c, err := planner.Dial(*simAddr, lg)
	if err != nil {
		fatal(lg, "%v", err)
	}
	defer c.Close()

	maps, err := c.AvailableMaps()
	if err != nil {
		fatal(lg, "%v", err)
	}
	if *mapsFlag != "" {
		requested := strings.Split(*mapsFlag, ",")
		for _, name := range requested {
			found := false
			for _, m := range maps {
				found = found || m == name
			}
			if !found {
				fatal(lg, "%s: not among the simulator's maps %v", name, maps)
			}
		}
		maps = requested
	}

	// Loading a map tears down the previous one, so extraction stays
	// serialized on the single bridge connection; encoding and
	// compression of the extracted data run concurrently.
	var eg errgroup.Group
	eg.SetLimit(4)

	for _, name := range maps {
		name := name
		start := time.Now()
		md, err := extract(c, name)
		if err != nil {
			fatal(lg, "%s: %v", name, err)
		}

		eg.Go(func() error {
			if err := mapdata.WriteFile(*outDir, md); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			w, h := md.Size()
			lg.Infof("%s: %d lane points, %dx%dm, ingested in %s", name,
				len(md.Lanes), w, h, time.Since(start))
			fmt.Printf("%s: %d lane points, %d stop signs, %d traffic lights\n",
				name, len(md.Lanes), len(md.StopSigns), len(md.TrafficLights))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		fatal(lg, "%v", err)
	}
}

func extract(c *planner.Client, name string) (*mapdata.MapData, error) {
	if err := c.LoadMap(name); err != nil {
		return nil, err
	}
	geo, err := c.MapGeometry()
	if err != nil {
		return nil, err
	}
	return &mapdata.MapData{
		Name:          name,
		Lanes:         geo.Lanes,
		StopSigns:     geo.StopSigns,
		TrafficLights: geo.TrafficLights,
	}, nil
}

func fatal(lg *log.Logger, msg string, args ...any) {
	lg.Errorf(msg, args...)
	fmt.Fprintf(os.Stderr, "mapingest: "+msg+"\n", args...)
	os.Exit(1)
}
