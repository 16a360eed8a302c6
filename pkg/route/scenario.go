// pkg/route/scenario.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"fmt"

	"github.com/drivebench/routeforge/pkg/math"
)

// Scenario is a parametrized event (an obstacle, a crossing pedestrian,
// ...) anchored to a trigger point along a route. Name is assigned when
// the scenario is added and never renumbered afterward, so removing
// "Accident_0" leaves "Accident_1" with its original name.
type Scenario struct {
	Type       string
	Name       string
	Trigger    math.Transform
	Attributes []Attribute
}

// Attribute is a single named, typed scenario parameter.
type Attribute struct {
	Name  string
	Value AttrValue
}

// AttrValue is a closed variant over the attribute kinds the scenario
// catalog defines. Code switching over it handles every concrete type
// below and panics on anything else; an unknown kind reaching
// serialization is a programming error, not user error.
type AttrValue interface {
	attrValue()
}

type Numeric float64

type Boolean bool

type Interval struct {
	From, To float64
}

type Choice string

type Location struct {
	Loc math.Point3
	// Probability is an optional weight some consumers attach to
	// alternative locations; nil when absent.
	Probability *float64
}

type Transform math.Transform

func (Numeric) attrValue()   {}
func (Boolean) attrValue()   {}
func (Interval) attrValue()  {}
func (Choice) attrValue()    {}
func (Location) attrValue()  {}
func (Transform) attrValue() {}

// KindName returns the catalog's name for the value's kind.
func KindName(v AttrValue) string {
	switch v.(type) {
	case Numeric:
		return "value"
	case Boolean:
		return "bool"
	case Interval:
		return "interval"
	case Choice:
		return "choice"
	case Location:
		return "location"
	case Transform:
		return "transform"
	default:
		panic(fmt.Sprintf("%T: unsupported attribute kind", v))
	}
}

// isPlacement reports whether the value is placed by clicking on the map
// rather than typed into the attribute editor.
func isPlacement(v AttrValue) bool {
	switch v.(type) {
	case Location, Transform:
		return true
	default:
		return false
	}
}
