// pkg/route/catalog_test.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"reflect"
	"testing"
)

func TestCatalogOrder(t *testing.T) {
	types := ScenarioTypes()
	if len(types) != 36 {
		t.Fatalf("expected 36 scenario types, got %d", len(types))
	}
	if types[0] != "SignalizedJunctionLeftTurn" {
		t.Errorf("expected SignalizedJunctionLeftTurn first, got %s", types[0])
	}
	if types[len(types)-1] != "PriorityAtJunction" {
		t.Errorf("expected PriorityAtJunction last, got %s", types[len(types)-1])
	}

	// ControlLoss immediately precedes HardBreakRoute in the catalog.
	for i, ty := range types {
		if ty == "ControlLoss" {
			if types[i+1] != "HardBreakRoute" {
				t.Errorf("expected HardBreakRoute after ControlLoss, got %s", types[i+1])
			}
			break
		}
	}
}

func TestAttrSpecs(t *testing.T) {
	specs, ok := AttrSpecs("Accident")
	if !ok {
		t.Fatal("Accident should be a known scenario type")
	}
	var names []string
	for _, s := range specs {
		names = append(names, s.Name)
	}
	if want := []string{"distance", "direction", "speed"}; !reflect.DeepEqual(names, want) {
		t.Errorf("expected attributes %v, got %v", want, names)
	}
	if specs[0].Kind != KindNumeric || specs[0].Default != "120" {
		t.Errorf("expected numeric distance with default 120, got %+v", specs[0])
	}
	if specs[1].Kind != KindChoice || !reflect.DeepEqual(specs[1].Options, []string{"left", "right"}) {
		t.Errorf("expected left/right choice for direction, got %+v", specs[1])
	}

	if specs, ok := AttrSpecs("ControlLoss"); !ok || len(specs) != 0 {
		t.Errorf("ControlLoss should be known with no attributes, got %v/%v", specs, ok)
	}
	if _, ok := AttrSpecs("NoSuchScenario"); ok {
		t.Error("unknown scenario types should not resolve")
	}
}

func TestPlacementSpecs(t *testing.T) {
	placed := PlacementSpecs("EnterActorFlow")
	if len(placed) != 2 {
		t.Fatalf("expected 2 placement attributes, got %v", placed)
	}
	if placed[0].Name != "start_actor_flow" || placed[1].Name != "end_actor_flow" {
		t.Errorf("unexpected placement attributes %v", placed)
	}

	if placed := PlacementSpecs("Accident"); len(placed) != 0 {
		t.Errorf("Accident has no placement attributes, got %v", placed)
	}
}

func TestParseAttributeInputs(t *testing.T) {
	attrs := ParseAttributeInputs("Accident", map[string]AttrInput{
		"distance":  {Value: "150"},
		"direction": {Value: "right"},
		"speed":     {Value: "not a number"}, // dropped
	})
	want := []Attribute{
		{Name: "distance", Value: Numeric(150)},
		{Name: "direction", Value: Choice("right")},
	}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("expected %+v, got %+v", want, attrs)
	}

	// A choice outside the declared options is dropped too.
	attrs = ParseAttributeInputs("Accident", map[string]AttrInput{
		"direction": {Value: "sideways"},
	})
	if len(attrs) != 0 {
		t.Errorf("expected invalid choice to be dropped, got %+v", attrs)
	}

	// Intervals need both bounds.
	attrs = ParseAttributeInputs("SignalizedJunctionLeftTurn", map[string]AttrInput{
		"source_dist_interval": {From: "25", To: "50"},
	})
	if !reflect.DeepEqual(attrs, []Attribute{
		{Name: "source_dist_interval", Value: Interval{From: 25, To: 50}},
	}) {
		t.Errorf("unexpected interval parse result %+v", attrs)
	}
	attrs = ParseAttributeInputs("SignalizedJunctionLeftTurn", map[string]AttrInput{
		"source_dist_interval": {From: "25"},
	})
	if len(attrs) != 0 {
		t.Errorf("expected half-open interval input to be dropped, got %+v", attrs)
	}

	// Placement attributes are resolved on the map, never from text
	// input.
	attrs = ParseAttributeInputs("EnterActorFlow", map[string]AttrInput{
		"start_actor_flow": {Value: "10"},
		"flow_speed":       {Value: "10"},
	})
	if !reflect.DeepEqual(attrs, []Attribute{
		{Name: "flow_speed", Value: Numeric(10)},
	}) {
		t.Errorf("expected placement input to be skipped, got %+v", attrs)
	}

	if attrs := ParseAttributeInputs("NoSuchScenario", nil); attrs != nil {
		t.Errorf("unknown type: expected nil, got %+v", attrs)
	}

	// Boolean inputs parse strconv-style.
	attrs = ParseAttributeInputs("BackgroundActivityParametrizer", map[string]AttrInput{
		"opposite_active": {Value: "true"},
	})
	if !reflect.DeepEqual(attrs, []Attribute{
		{Name: "opposite_active", Value: Boolean(true)},
	}) {
		t.Errorf("unexpected boolean parse result %+v", attrs)
	}
}

func TestKindName(t *testing.T) {
	for _, tc := range []struct {
		v    AttrValue
		want string
	}{
		{Numeric(1), "value"},
		{Boolean(true), "bool"},
		{Interval{}, "interval"},
		{Choice("left"), "choice"},
		{Location{}, "location"},
		{Transform{}, "transform"},
	} {
		if got := KindName(tc.v); got != tc.want {
			t.Errorf("KindName(%T) = %s, expected %s", tc.v, got, tc.want)
		}
	}
}
