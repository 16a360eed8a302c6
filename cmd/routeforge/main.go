// cmd/routeforge/main.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// routeforge is the headless companion to the route editor: it validates
// route files, splits multi-route files into per-route ones, summarizes
// them, and queries a running planner bridge.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/planner"
	"github.com/drivebench/routeforge/pkg/route"
	"github.com/drivebench/routeforge/pkg/util"
)

var (
	lintFile  = flag.String("lint", "", "validate the given route file and report every problem found")
	splitFile = flag.String("split", "", "split the given route file into one file per route")
	infoFile  = flag.String("info", "", "print a per-route summary of the given route file")
	listMaps  = flag.Bool("listmaps", false, "list the maps the planner bridge can load")
	outDir    = flag.String("outdir", ".", "output directory for -split")
	simAddr   = flag.String("sim", fmt.Sprintf("localhost:%d", planner.DefaultBridgePort),
		"address of the planner bridge for -listmaps")
	logLevel = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory (default: user config dir)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: routeforge [flags]\nwhere [flags] may be:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()
	lg := log.New(true, *logLevel, *logDir)

	var err error
	switch {
	case *lintFile != "":
		err = lint(*lintFile, lg)
	case *splitFile != "":
		err = split(*splitFile, *outDir)
	case *infoFile != "":
		err = info(*infoFile)
	case *listMaps:
		err = printMaps(*simAddr, lg)
	default:
		usage()
	}

	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "routeforge: %v\n", err)
		os.Exit(1)
	}
}

func lint(path string, lg *log.Logger) error {
	recs, err := route.ReadFile(path)
	if err != nil {
		return err
	}

	var e util.ErrorLogger
	route.CheckRecords(recs, &e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		fmt.Fprint(os.Stderr, e.String())
		os.Exit(1)
	}

	fmt.Printf("%s: %d %s, no problems found\n", path, len(recs),
		util.Select(len(recs) == 1, "route", "routes"))
	return nil
}

func split(path, outDir string) error {
	recs, err := route.ReadFile(path)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), ".xml")
	for i, rec := range recs {
		out := filepath.Join(outDir, fmt.Sprintf("%s_%02d.xml", base, i))
		if err := route.WriteFile(out, []route.Record{rec}); err != nil {
			return err
		}
		fmt.Printf("%s: route %d\n", out, rec.ID)
	}
	return nil
}

func info(path string) error {
	recs, err := route.ReadFile(path)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		fmt.Printf("route %d: town %s, %d waypoints, %d scenarios, %d weather keyframes\n",
			rec.ID, rec.MapName, len(rec.Waypoints), len(rec.Scenarios), len(rec.Weather))
		for _, s := range rec.Scenarios {
			fmt.Printf("  %s at (%.1f, %.1f, %.1f)\n", s.Name,
				s.Trigger.Loc[0], s.Trigger.Loc[1], s.Trigger.Loc[2])
		}
	}
	return nil
}

func printMaps(addr string, lg *log.Logger) error {
	c, err := planner.Dial(addr, lg)
	if err != nil {
		return err
	}
	defer c.Close()

	maps, err := c.AvailableMaps()
	if err != nil {
		return err
	}
	for _, m := range maps {
		fmt.Println(m)
	}
	return nil
}
