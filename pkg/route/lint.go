// pkg/route/lint.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"fmt"

	"github.com/drivebench/routeforge/pkg/util"
)

// CheckRecords validates a parsed route file, accumulating everything
// wrong with it rather than stopping at the first problem: empty files,
// missing map names, id collisions, mixed maps, routes without
// waypoints, scenario types the catalog doesn't know, attributes a
// scenario's type doesn't declare, and attribute values whose shape
// doesn't match the declaration.
func CheckRecords(recs []Record, e *util.ErrorLogger) {
	if len(recs) == 0 {
		e.ErrorString("no routes in file")
		return
	}

	seen := make(map[int]interface{})
	mapName := recs[0].MapName

	for _, rec := range recs {
		e.Push(fmt.Sprintf("route %d", rec.ID))

		if rec.MapName == "" {
			e.ErrorString("no town set")
		} else if rec.MapName != mapName {
			e.ErrorString("town %q differs from %q; route files are single-town", rec.MapName, mapName)
		}
		if _, ok := seen[rec.ID]; ok {
			e.ErrorString("duplicate route id")
		}
		seen[rec.ID] = nil

		if len(rec.Waypoints) == 0 {
			e.ErrorString("no waypoints")
		}
		if n := len(rec.Weather); n != 0 && n != 2 {
			e.ErrorString("%d weather keyframes; expected 2 (or none)", n)
		}

		for _, s := range rec.Scenarios {
			e.Push("scenario " + s.Name)
			checkScenario(s, e)
			e.Pop()
		}

		e.Pop()
	}
}

func checkScenario(s *Scenario, e *util.ErrorLogger) {
	specs, known := AttrSpecs(s.Type)
	if !known {
		e.ErrorString("unknown scenario type %q", s.Type)
		return
	}

	declared := make(map[string]AttrSpec)
	for _, spec := range specs {
		declared[spec.Name] = spec
	}

	for _, a := range s.Attributes {
		spec, ok := declared[a.Name]
		if !ok {
			e.ErrorString("attribute %q not declared for %s", a.Name, s.Type)
			continue
		}

		want := map[AttrKind]string{
			KindNumeric:   "value",
			KindBoolean:   "bool",
			KindInterval:  "interval",
			KindChoice:    "choice",
			KindLocation:  "location",
			KindTransform: "transform",
		}[spec.Kind]
		got := KindName(a.Value)

		// Numeric-declared attributes legitimately hold strings (prop
		// model names) and booleans in existing files.
		if spec.Kind == KindNumeric {
			continue
		}
		if got != want {
			e.ErrorString("attribute %q is a %s; %s declares a %s", a.Name, got, s.Type, want)
			continue
		}
		if spec.Kind == KindChoice {
			c := string(a.Value.(Choice))
			valid := false
			for _, opt := range spec.Options {
				valid = valid || c == opt
			}
			if !valid {
				e.ErrorString("attribute %q: %q is not one of %v", a.Name, c, spec.Options)
			}
		}
	}
}
