// pkg/route/xml.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drivebench/routeforge/pkg/math"
)

// Route collections persist as XML; the layout is fixed by the scenario
// runner that consumes these files:
//
//	<routes>
//	  <route id="0" town="Town12">
//	    <weathers>
//	      <weather route_percentage="0" cloudiness="5" .../>
//	    </weathers>
//	    <waypoints>
//	      <position x="382.1" y="-342.8" z="0.1"/>
//	    </waypoints>
//	    <scenarios>
//	      <scenario name="Accident_0" type="Accident">
//	        <trigger_point x="..." y="..." z="..." yaw="..."/>
//	        <distance value="120"/>
//	      </scenario>
//	    </scenarios>
//	  </route>
//	</routes>

const routeFileExtension = ".xml"

type xmlRouteFile struct {
	XMLName xml.Name   `xml:"routes"`
	Routes  []xmlRoute `xml:"route"`
}

type xmlRoute struct {
	ID        int          `xml:"id,attr"`
	Town      string       `xml:"town,attr"`
	Weathers  xmlWeathers  `xml:"weathers"`
	Waypoints xmlWaypoints `xml:"waypoints"`
	Scenarios xmlScenarios `xml:"scenarios"`
}

type xmlWeathers struct {
	Weathers []xmlWeather `xml:"weather"`
}

type xmlWeather struct {
	RoutePercentage       float32 `xml:"route_percentage,attr"`
	Cloudiness            float32 `xml:"cloudiness,attr"`
	Precipitation         float32 `xml:"precipitation,attr"`
	PrecipitationDeposits float32 `xml:"precipitation_deposits,attr"`
	Wetness               float32 `xml:"wetness,attr"`
	WindIntensity         float32 `xml:"wind_intensity,attr"`
	SunAzimuthAngle       float32 `xml:"sun_azimuth_angle,attr"`
	SunAltitudeAngle      float32 `xml:"sun_altitude_angle,attr"`
	FogDensity            float32 `xml:"fog_density,attr"`
	FogDistance           float32 `xml:"fog_distance,attr"`
	FogFalloff            float32 `xml:"fog_falloff,attr"`
	ScatteringIntensity   float32 `xml:"scattering_intensity,attr"`
	MieScatteringScale    float32 `xml:"mie_scattering_scale,attr"`
}

type xmlWaypoints struct {
	Positions []xmlPosition `xml:"position"`
}

type xmlPosition struct {
	X float32 `xml:"x,attr"`
	Y float32 `xml:"y,attr"`
	Z float32 `xml:"z,attr"`
}

type xmlScenarios struct {
	Scenarios []xmlScenario `xml:"scenario"`
}

type xmlScenario struct {
	Name  string    `xml:"name,attr"`
	Type  string    `xml:"type,attr"`
	Attrs []xmlAttr `xml:",any"`
}

// xmlAttr covers every attribute element shape: scalars carry value=,
// intervals from=/to=, locations x/y/z and optionally p, transforms
// x/y/z/yaw. Pointer fields distinguish absent attributes.
type xmlAttr struct {
	XMLName xml.Name
	Value   *string  `xml:"value,attr"`
	From    *string  `xml:"from,attr"`
	To      *string  `xml:"to,attr"`
	X       *float32 `xml:"x,attr"`
	Y       *float32 `xml:"y,attr"`
	Z       *float32 `xml:"z,attr"`
	Yaw     *float32 `xml:"yaw,attr"`
	P       *float64 `xml:"p,attr"`
}

// Record is the file-level form of one <route> element: plain data,
// not wired to a planner. The manager builds live Routes from Records
// after loading; the headless tool works on Records directly.
type Record struct {
	ID        int
	MapName   string
	Weather   []WeatherKeyframe
	Waypoints []math.Point3
	Scenarios []*Scenario
}

///////////////////////////////////////////////////////////////////////////
// Writing

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func attrToXML(a Attribute) xmlAttr {
	e := xmlAttr{XMLName: xml.Name{Local: a.Name}}

	switch v := a.Value.(type) {
	case Numeric:
		s := formatNum(float64(v))
		e.Value = &s
	case Boolean:
		s := strconv.FormatBool(bool(v))
		e.Value = &s
	case Interval:
		from, to := formatNum(v.From), formatNum(v.To)
		e.From, e.To = &from, &to
	case Choice:
		s := string(v)
		e.Value = &s
	case Location:
		x, y, z := v.Loc[0], v.Loc[1], v.Loc[2]
		e.X, e.Y, e.Z = &x, &y, &z
		e.P = v.Probability
	case Transform:
		x, y, z, yaw := v.Loc[0], v.Loc[1], v.Loc[2], v.Yaw
		e.X, e.Y, e.Z, e.Yaw = &x, &y, &z, &yaw
	default:
		panic(fmt.Sprintf("%s: unsupported attribute kind %T", a.Name, a.Value))
	}
	return e
}

func scenarioToXML(s *Scenario) xmlScenario {
	x, y, z, yaw := s.Trigger.Loc[0], s.Trigger.Loc[1], s.Trigger.Loc[2], s.Trigger.Yaw
	attrs := []xmlAttr{{
		XMLName: xml.Name{Local: "trigger_point"},
		X:       &x, Y: &y, Z: &z, Yaw: &yaw,
	}}
	for _, a := range s.Attributes {
		attrs = append(attrs, attrToXML(a))
	}
	return xmlScenario{Name: s.Name, Type: s.Type, Attrs: attrs}
}

func weatherToXML(k WeatherKeyframe) xmlWeather {
	return xmlWeather{
		RoutePercentage:       k.RoutePercentage,
		Cloudiness:            k.Cloudiness,
		Precipitation:         k.Precipitation,
		PrecipitationDeposits: k.PrecipitationDeposits,
		Wetness:               k.Wetness,
		WindIntensity:         k.WindIntensity,
		SunAzimuthAngle:       k.SunAzimuthAngle,
		SunAltitudeAngle:      k.SunAltitudeAngle,
		FogDensity:            k.FogDensity,
		FogDistance:           k.FogDistance,
		FogFalloff:            k.FogFalloff,
		ScatteringIntensity:   k.ScatteringIntensity,
		MieScatteringScale:    k.MieScatteringScale,
	}
}

// WriteFile serializes the records in the given order, appending the
// route-file extension if the path doesn't carry it. The file is written
// through a temporary file and renamed into place so a failed write
// never truncates an existing one.
func WriteFile(path string, recs []Record) error {
	if !strings.HasSuffix(path, routeFileExtension) {
		path += routeFileExtension
	}

	var file xmlRouteFile
	for _, rec := range recs {
		xr := xmlRoute{ID: rec.ID, Town: rec.MapName}
		for _, k := range rec.Weather {
			xr.Weathers.Weathers = append(xr.Weathers.Weathers, weatherToXML(k))
		}
		for _, wp := range rec.Waypoints {
			xr.Waypoints.Positions = append(xr.Waypoints.Positions,
				xmlPosition{X: wp[0], Y: wp[1], Z: wp[2]})
		}
		for _, s := range rec.Scenarios {
			xr.Scenarios.Scenarios = append(xr.Scenarios.Scenarios, scenarioToXML(s))
		}
		file.Routes = append(file.Routes, xr)
	}

	enc, err := xml.MarshalIndent(&file, "", "  ")
	if err != nil {
		return err
	}

	// Write through a temp file in the target directory so a failure
	// partway through never truncates an existing route file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".routes-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write([]byte(xml.Header)); err == nil {
		_, err = tmp.Write(append(enc, '\n'))
	}
	if errClose := tmp.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

///////////////////////////////////////////////////////////////////////////
// Reading

func parseNum(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// attrFromXML types an attribute element: catalog kind when the
// scenario type declares the attribute, element shape otherwise, so that
// hand-edited files with extra attributes still load.
func attrFromXML(scenarioType string, e xmlAttr) (Attribute, error) {
	name := e.XMLName.Local

	switch {
	case e.From != nil && e.To != nil:
		from, errFrom := parseNum(*e.From)
		to, errTo := parseNum(*e.To)
		if errFrom != nil || errTo != nil {
			return Attribute{}, fmt.Errorf("%s: malformed interval [%s, %s]", name, *e.From, *e.To)
		}
		return Attribute{Name: name, Value: Interval{From: from, To: to}}, nil

	case e.Yaw != nil:
		if e.X == nil || e.Y == nil || e.Z == nil {
			return Attribute{}, fmt.Errorf("%s: transform missing coordinates", name)
		}
		return Attribute{Name: name,
			Value: Transform{Loc: math.Point3{*e.X, *e.Y, *e.Z}, Yaw: *e.Yaw}}, nil

	case e.X != nil:
		if e.Y == nil || e.Z == nil {
			return Attribute{}, fmt.Errorf("%s: location missing coordinates", name)
		}
		return Attribute{Name: name,
			Value: Location{Loc: math.Point3{*e.X, *e.Y, *e.Z}, Probability: e.P}}, nil

	case e.Value != nil:
		return Attribute{Name: name, Value: scalarValue(scenarioType, name, *e.Value)}, nil
	}

	return Attribute{}, fmt.Errorf("%s: attribute has no recognizable shape", name)
}

func scalarValue(scenarioType, name, raw string) AttrValue {
	var kind AttrKind = -1
	if specs, ok := AttrSpecs(scenarioType); ok {
		for _, spec := range specs {
			if spec.Name == name {
				kind = spec.Kind
				break
			}
		}
	}

	switch kind {
	case KindBoolean:
		if v, err := strconv.ParseBool(raw); err == nil {
			return Boolean(v)
		}
	case KindChoice:
		return Choice(raw)
	}

	// Numeric or undeclared: numbers parse as numbers, booleans as
	// booleans, anything else (e.g. a prop model name stored under a
	// value attribute) stays a string.
	if v, err := parseNum(raw); err == nil {
		return Numeric(v)
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return Boolean(v)
	}
	return Choice(raw)
}

func scenarioFromXML(e xmlScenario) (*Scenario, error) {
	s := &Scenario{Type: e.Type, Name: e.Name}

	haveTrigger := false
	for _, a := range e.Attrs {
		if a.XMLName.Local == "trigger_point" {
			if a.X == nil || a.Y == nil || a.Z == nil {
				return nil, fmt.Errorf("%s: malformed trigger_point", e.Name)
			}
			s.Trigger = math.Transform{Loc: math.Point3{*a.X, *a.Y, *a.Z}}
			if a.Yaw != nil {
				s.Trigger.Yaw = *a.Yaw
			}
			haveTrigger = true
			continue
		}

		attr, err := attrFromXML(e.Type, a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		s.Attributes = append(s.Attributes, attr)
	}

	if !haveTrigger {
		return nil, fmt.Errorf("%s: scenario has no trigger_point", e.Name)
	}
	return s, nil
}

func weatherFromXML(w xmlWeather) WeatherKeyframe {
	return WeatherKeyframe{
		RoutePercentage: w.RoutePercentage,
		WeatherParams: WeatherParams{
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
		},
	}
}

// ReadFile parses a route file into records without touching any
// Manager state.
func ReadFile(path string) ([]Record, error) {
	if !strings.HasSuffix(path, routeFileExtension) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownRouteFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file xmlRouteFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var recs []Record
	for _, xr := range file.Routes {
		rec := Record{ID: xr.ID, MapName: xr.Town}
		for _, w := range xr.Weathers.Weathers {
			rec.Weather = append(rec.Weather, weatherFromXML(w))
		}
		for _, p := range xr.Waypoints.Positions {
			rec.Waypoints = append(rec.Waypoints, math.Point3{p.X, p.Y, p.Z})
		}
		for _, xs := range xr.Scenarios.Scenarios {
			s, err := scenarioFromXML(xs)
			if err != nil {
				return nil, fmt.Errorf("%s: route %d: %w", path, xr.ID, err)
			}
			rec.Scenarios = append(rec.Scenarios, s)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
