// pkg/route/lint_test.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"strings"
	"testing"

	"github.com/drivebench/routeforge/pkg/math"
	"github.com/drivebench/routeforge/pkg/util"
)

func validRecord(id int) Record {
	return Record{
		ID:      id,
		MapName: "Town12",
		Weather: DefaultWeatherKeyframes(WeatherParams{}),
		Waypoints: []math.Point3{
			{0, 0, 0}, {100, 0, 0},
		},
		Scenarios: []*Scenario{{
			Type:    "Accident",
			Name:    "Accident_0",
			Trigger: math.Transform{Loc: math.Point3{50, 0, 0}},
			Attributes: []Attribute{
				{Name: "distance", Value: Numeric(120)},
				{Name: "direction", Value: Choice("left")},
			},
		}},
	}
}

func TestCheckRecordsClean(t *testing.T) {
	var e util.ErrorLogger
	CheckRecords([]Record{validRecord(0), validRecord(1)}, &e)
	if e.HaveErrors() {
		t.Errorf("expected no findings, got:\n%s", e.String())
	}
}

func TestCheckRecordsFindings(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Record)
		expect string
	}{
		{"no town", func(r *Record) { r.MapName = "" }, "no town"},
		{"no waypoints", func(r *Record) { r.Waypoints = nil }, "no waypoints"},
		{"bad keyframe count", func(r *Record) { r.Weather = r.Weather[:1] }, "weather keyframes"},
		{"unknown type", func(r *Record) { r.Scenarios[0].Type = "Meteorite" }, "unknown scenario type"},
		{"undeclared attribute", func(r *Record) {
			r.Scenarios[0].Attributes = append(r.Scenarios[0].Attributes,
				Attribute{Name: "wingspan", Value: Numeric(3)})
		}, "not declared"},
		{"wrong kind", func(r *Record) {
			r.Scenarios[0].Attributes[1].Value = Interval{From: 1, To: 2}
		}, "declares a choice"},
		{"invalid choice", func(r *Record) {
			r.Scenarios[0].Attributes[1].Value = Choice("sideways")
		}, "is not one of"},
	} {
		rec := validRecord(0)
		tc.mutate(&rec)

		var e util.ErrorLogger
		CheckRecords([]Record{rec}, &e)
		if !e.HaveErrors() {
			t.Errorf("%s: expected a finding", tc.name)
		} else if s := e.String(); !strings.Contains(s, tc.expect) {
			t.Errorf("%s: expected %q in findings:\n%s", tc.name, tc.expect, s)
		}
	}
}

func TestCheckRecordsCollectionFindings(t *testing.T) {
	var e util.ErrorLogger
	CheckRecords(nil, &e)
	if !e.HaveErrors() {
		t.Error("expected empty files to be rejected")
	}

	e = util.ErrorLogger{}
	dup := []Record{validRecord(0), validRecord(0)}
	CheckRecords(dup, &e)
	if !strings.Contains(e.String(), "duplicate route id") {
		t.Errorf("expected duplicate id finding, got:\n%s", e.String())
	}

	e = util.ErrorLogger{}
	mixed := []Record{validRecord(0), validRecord(1)}
	mixed[1].MapName = "Town13"
	CheckRecords(mixed, &e)
	if !strings.Contains(e.String(), "single-town") {
		t.Errorf("expected mixed-town finding, got:\n%s", e.String())
	}

	// Numeric-declared attributes may hold strings; that's how prop
	// models are stored.
	e = util.ErrorLogger{}
	rec := validRecord(0)
	rec.Scenarios[0].Attributes[0].Value = Choice("static.prop.vendingmachine")
	CheckRecords([]Record{rec}, &e)
	if e.HaveErrors() {
		t.Errorf("string under a value attribute should lint clean, got:\n%s", e.String())
	}
}
