// pkg/route/catalog.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"strconv"

	"github.com/iancoleman/orderedmap"

	"github.com/drivebench/routeforge/pkg/mapdata"
	"github.com/drivebench/routeforge/pkg/util"
)

// AttrKind enumerates the attribute kinds the catalog can declare.
type AttrKind int

const (
	KindNumeric AttrKind = iota
	KindBoolean
	KindInterval
	KindChoice
	KindLocation
	KindTransform
)

// AttrSpec declares one attribute of a scenario type: its name, kind,
// and editor defaults. Defaults are kept as display strings since they
// are only ever shown as placeholders; a scenario without defaults (e.g.
// BackgroundActivityParametrizer) leaves them empty.
type AttrSpec struct {
	Name    string
	Kind    AttrKind
	Lane    mapdata.LaneKind // location kinds: lane the picked point must snap to
	Default string
	DefaultFrom, DefaultTo string // interval kinds
	Options []string              // choice kinds
}

func value(name, def string) AttrSpec {
	return AttrSpec{Name: name, Kind: KindNumeric, Default: def}
}

func boolean(name string) AttrSpec {
	return AttrSpec{Name: name, Kind: KindBoolean}
}

func interval(name, from, to string) AttrSpec {
	return AttrSpec{Name: name, Kind: KindInterval, DefaultFrom: from, DefaultTo: to}
}

func choice(name string) AttrSpec {
	return AttrSpec{Name: name, Kind: KindChoice, Options: []string{"left", "right"}}
}

func location(name string, lane mapdata.LaneKind) AttrSpec {
	return AttrSpec{Name: name, Kind: KindLocation, Lane: lane}
}

// The scenario catalog. The entries and their order are fixed by the
// route format's consumers and must not be edited casually; pickers
// present the types in exactly this order.
var catalog = func() *orderedmap.OrderedMap {
	o := orderedmap.New()

	add := func(name string, specs ...AttrSpec) {
		o.Set(name, specs)
	}

	// Junction scenarios
	add("SignalizedJunctionLeftTurn",
		value("flow_speed", "20"),
		interval("source_dist_interval", "25", "50"))
	add("SignalizedJunctionRightTurn",
		value("flow_speed", "20"),
		interval("source_dist_interval", "25", "50"))
	add("OppositeVehicleRunningRedLight",
		choice("direction"))
	add("NonSignalizedJunctionLeftTurn",
		value("flow_speed", "20"),
		interval("source_dist_interval", "25", "50"))
	add("NonSignalizedJunctionRightTurn",
		value("flow_speed", "20"),
		interval("source_dist_interval", "25", "50"))
	add("OppositeVehicleTakingPriority",
		choice("direction"))

	// Crossing actors
	add("DynamicObjectCrossing",
		value("distance", "12"),
		// the scenario implementation only accepts right or false here,
		// so this is a choice rather than a free value
		choice("direction"),
		value("blocker_model", "static.prop.vendingmachine"),
		value("crossing_angle", "0"))
	add("ParkingCrossingPedestrian",
		value("distance", "12"),
		choice("direction"),
		value("crossing_angle", "0"))
	add("PedestrianCrossing")
	add("VehicleTurningRoute")
	add("VehicleTurningRoutePedestrian")
	add("BlockedIntersection")

	// Actor flows
	add("EnterActorFlow",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("EnterActorFlowV2",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("InterurbanActorFlow",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("InterurbanAdvancedActorFlow",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("HighwayExit",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("MergerIntoSlowTraffic",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("MergerIntoSlowTrafficV2",
		location("start_actor_flow", mapdata.LaneDriving),
		location("end_actor_flow", mapdata.LaneDriving),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))
	add("CrossingBicycleFlow",
		location("start_actor_flow", mapdata.LaneBiking),
		value("flow_speed", "10"),
		interval("source_dist_interval", "20", "50"))

	// Route obstacles
	add("ConstructionObstacle",
		value("distance", "100"),
		choice("direction"),
		value("speed", "60"))
	add("ConstructionObstacleTwoWays",
		value("distance", "100"),
		interval("frequency", "20", "100"))
	add("Accident",
		value("distance", "120"),
		choice("direction"),
		value("speed", "60"))
	add("AccidentTwoWays",
		value("distance", "120"),
		interval("frequency", "20", "100"))
	add("ParkedObstacle",
		value("distance", "120"),
		choice("direction"),
		value("speed", "60"))
	add("ParkedObstacleTwoWays",
		value("distance", "120"),
		interval("frequency", "20", "100"))
	add("VehicleOpensDoorTwoWays",
		value("distance", "50"),
		interval("frequency", "20", "100"))
	add("HazardAtSideLane",
		value("distance", "100"),
		value("speed", "60"),
		value("bicycle_drive_distance", "50"),
		value("bicycle_speed", "10"))
	add("HazardAtSideLaneTwoWays",
		value("distance", "100"),
		value("frequency", "100"),
		value("bicycle_drive_distance", "50"),
		value("bicycle_speed", "10"))
	add("InvadingTurn",
		value("distance", "100"),
		value("offset", "0.25"))

	// Cut ins
	add("HighwayCutIn",
		location("other_actor_location", mapdata.LaneDriving))
	add("ParkingCutIn",
		choice("direction"))
	add("StaticCutIn",
		value("distance", "100"),
		choice("direction"))

	// Others
	add("ControlLoss")
	add("HardBreakRoute")
	add("ParkingExit",
		choice("direction"),
		value("front_vehicle_distance", "20"),
		value("behind_vehicle_distance", "10"))
	add("YieldToEmergencyVehicle",
		value("distance", "140"))

	// Special ones; there are no default parameters for these
	add("BackgroundActivityParametrizer",
		value("num_front_vehicles", ""),
		value("num_back_vehicles", ""),
		value("road_spawn_dist", ""),
		value("opposite_source_dist", ""),
		value("opposite_max_actors", ""),
		value("opposite_spawn_dist", ""),
		boolean("opposite_active"),
		value("junction_source_dist", ""),
		value("junction_max_actors", ""),
		value("junction_spawn_dist", ""),
		value("junction_source_perc", ""))
	add("PriorityAtJunction")

	return o
}()

// ScenarioTypes returns every known scenario type in catalog order.
func ScenarioTypes() []string {
	return catalog.Keys()
}

// AttrSpecs returns the attribute declarations for the given scenario
// type, or false if the type is unknown.
func AttrSpecs(scenarioType string) ([]AttrSpec, bool) {
	v, ok := catalog.Get(scenarioType)
	if !ok {
		return nil, false
	}
	return v.([]AttrSpec), true
}

// PlacementSpecs returns the subset of the type's attributes that are
// picked on the map (locations/transforms) rather than typed in.
func PlacementSpecs(scenarioType string) []AttrSpec {
	specs, ok := AttrSpecs(scenarioType)
	if !ok {
		return nil
	}
	return util.FilterSlice(specs, func(s AttrSpec) bool {
		return s.Kind == KindLocation || s.Kind == KindTransform
	})
}

// AttrInput is what the attribute editor collected for one attribute.
// Interval attributes use From/To; everything else uses Value.
type AttrInput struct {
	Value    string
	From, To string
}

// ParseAttributeInputs converts raw editor input into typed attributes
// for the non-placement attributes of the given scenario type. An
// attribute whose input doesn't parse is dropped from the result rather
// than failing the whole set; placement attributes are skipped entirely
// since they are resolved against the map.
func ParseAttributeInputs(scenarioType string, inputs map[string]AttrInput) []Attribute {
	specs, ok := AttrSpecs(scenarioType)
	if !ok {
		return nil
	}

	var attrs []Attribute
	for _, spec := range specs {
		in, ok := inputs[spec.Name]
		if !ok {
			continue
		}

		switch spec.Kind {
		case KindNumeric:
			if v, err := strconv.ParseFloat(in.Value, 64); err == nil {
				attrs = append(attrs, Attribute{Name: spec.Name, Value: Numeric(v)})
			}

		case KindBoolean:
			if v, err := strconv.ParseBool(in.Value); err == nil {
				attrs = append(attrs, Attribute{Name: spec.Name, Value: Boolean(v)})
			}

		case KindInterval:
			from, errFrom := strconv.ParseFloat(in.From, 64)
			to, errTo := strconv.ParseFloat(in.To, 64)
			if errFrom == nil && errTo == nil {
				attrs = append(attrs, Attribute{Name: spec.Name, Value: Interval{From: from, To: to}})
			}

		case KindChoice:
			for _, opt := range spec.Options {
				if in.Value == opt {
					attrs = append(attrs, Attribute{Name: spec.Name, Value: Choice(in.Value)})
					break
				}
			}

		case KindLocation, KindTransform:
			// Placed on the map; see PlacementSpecs.
		}
	}
	return attrs
}
