// pkg/route/manager_test.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/drivebench/routeforge/pkg/math"
)

type fakeSim struct {
	fakeMapService
	loadedMap string
	loadErr   error
	weather   WeatherParams
}

func (f *fakeSim) LoadMap(name string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loadedMap = name
	return nil
}

func (f *fakeSim) CurrentWeather() (WeatherParams, error) {
	return f.weather, nil
}

func testWeather() WeatherParams {
	return WeatherParams{
		Cloudiness:          5,
		Precipitation:       0,
		Wetness:             0,
		WindIntensity:       10,
		SunAzimuthAngle:     -1,
		SunAltitudeAngle:    45,
		FogDensity:          2,
		FogDistance:         0.75,
		FogFalloff:          0.034999,
		ScatteringIntensity: 1,
		MieScatteringScale:  0.0331,
	}
}

func makeManager(t *testing.T) (*Manager, *fakeSim) {
	t.Helper()
	svc := &fakeSim{weather: testWeather()}
	m := NewManager(svc, nil)
	if err := m.ResetToEmptyRoute("Town12"); err != nil {
		t.Fatalf("ResetToEmptyRoute: %v", err)
	}
	return m, svc
}

func TestResetToEmptyRoute(t *testing.T) {
	m, svc := makeManager(t)

	if svc.loadedMap != "Town12" {
		t.Errorf("expected Town12 to be loaded, got %q", svc.loadedMap)
	}
	if len(m.Routes) != 1 || m.SelectedID != 0 {
		t.Fatalf("expected a single selected route with id 0, got %v selected %d",
			m.SortedIDs(), m.SelectedID)
	}

	r := m.Selected()
	if r == nil || r.MapName != "Town12" || len(r.Waypoints) != 0 {
		t.Fatalf("expected an empty Town12 route, got %+v", r)
	}

	kf := r.Weather
	if len(kf) != 2 || kf[0].RoutePercentage != 0 || kf[1].RoutePercentage != 100 {
		t.Fatalf("expected keyframes at 0%% and 100%%, got %+v", kf)
	}
	if kf[0].FogFalloff != 0.03 || kf[0].MieScatteringScale != 0.03 {
		t.Errorf("expected noisy coefficients rounded to 2 decimals, got %v, %v",
			kf[0].FogFalloff, kf[0].MieScatteringScale)
	}
	if kf[0].Cloudiness != 5 {
		t.Errorf("expected other parameters passed through, got %v", kf[0].Cloudiness)
	}
}

func TestRouteIDAssignment(t *testing.T) {
	m, _ := makeManager(t)

	for want := 1; want <= 2; want++ {
		r, err := m.AddEmptyRoute()
		if err != nil {
			t.Fatal(err)
		}
		if r.ID != want || m.SelectedID != want {
			t.Fatalf("expected new route id %d selected, got %d/%d", want, r.ID, m.SelectedID)
		}
	}

	// Remove the middle route; the lowest remaining id is selected and
	// the freed id is reused by the next add.
	m.SelectedID = 1
	m.RemoveSelectedRoute()
	if m.SelectedID != 0 {
		t.Errorf("expected selection to fall back to id 0, got %d", m.SelectedID)
	}

	r, err := m.AddEmptyRoute()
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != 1 {
		t.Errorf("expected freed id 1 to be reused, got %d", r.ID)
	}
	if got := m.SortedIDs(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("expected ids [0 1 2], got %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, _ := makeManager(t)

	r := m.Selected()
	for _, x := range []float32{0, 60, 100} {
		if err := r.AddOrRemoveWaypoint(math.Point3{x, 0, 0}); err != nil {
			t.Fatal(err)
		}
	}

	// One scenario of each attribute shape.
	if err := r.AddScenario(math.Point3{20, 0, 0}, "Accident", []Attribute{
		{Name: "distance", Value: Numeric(120)},
		{Name: "direction", Value: Choice("left")},
		{Name: "speed", Value: Numeric(57.5)},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.AddScenario(math.Point3{40, 0, 0}, "EnterActorFlow", []Attribute{
		{Name: "flow_speed", Value: Numeric(10)},
		{Name: "source_dist_interval", Value: Interval{From: 20, To: 50}},
	}); err != nil {
		t.Fatal(err)
	}
	p := 0.8
	r.AttachLocationAttributes([]Attribute{
		{Name: "start_actor_flow", Value: Location{Loc: math.Point3{30.5, 2, 0}}},
		{Name: "end_actor_flow", Value: Location{Loc: math.Point3{50.5, 2, 0}, Probability: &p}},
	})
	if err := r.AddScenario(math.Point3{60, 0, 0}, "BackgroundActivityParametrizer", []Attribute{
		{Name: "num_front_vehicles", Value: Numeric(8)},
		{Name: "opposite_active", Value: Boolean(false)},
	}); err != nil {
		t.Fatal(err)
	}
	// A prop model stored under a value attribute stays a string.
	if err := r.AddScenario(math.Point3{80, 0, 0}, "DynamicObjectCrossing", []Attribute{
		{Name: "blocker_model", Value: Choice("static.prop.vendingmachine")},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := m.AddEmptyRoute(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "routes") // extension added on save
	if err := m.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".xml"); err != nil {
		t.Fatalf("expected %s.xml to exist: %v", path, err)
	}

	m2 := NewManager(&fakeSim{weather: testWeather()}, nil)
	if err := m2.LoadFromFile(path + ".xml"); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if !reflect.DeepEqual(m2.SortedIDs(), m.SortedIDs()) {
		t.Fatalf("expected ids %v, got %v", m.SortedIDs(), m2.SortedIDs())
	}
	if m2.SelectedID != 0 || m2.MapName != "Town12" {
		t.Errorf("expected first route selected and Town12 active, got %d/%q",
			m2.SelectedID, m2.MapName)
	}

	for _, id := range m.SortedIDs() {
		orig, loaded := m.Routes[id], m2.Routes[id]
		if !reflect.DeepEqual(loaded.Waypoints, orig.Waypoints) {
			t.Errorf("route %d: waypoints %v != %v", id, loaded.Waypoints, orig.Waypoints)
		}
		if !reflect.DeepEqual(loaded.Scenarios, orig.Scenarios) {
			t.Errorf("route %d: scenarios differ:\n%+v\n%+v", id, loaded.Scenarios, orig.Scenarios)
		}
		if !reflect.DeepEqual(loaded.Weather, orig.Weather) {
			t.Errorf("route %d: weather differs", id)
		}
		if loaded.Length != orig.Length {
			t.Errorf("route %d: length %v != %v", id, loaded.Length, orig.Length)
		}
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	m, _ := makeManager(t)

	err := m.LoadFromFile(filepath.Join(t.TempDir(), "routes.json"))
	if !errors.Is(err, ErrUnknownRouteFile) {
		t.Fatalf("expected ErrUnknownRouteFile, got %v", err)
	}
	if len(m.Routes) != 1 || m.SelectedID != 0 {
		t.Errorf("failed load must leave the manager unchanged")
	}
}

func TestLoadRejectsMixedMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.xml")
	data := `<?xml version="1.0" encoding="UTF-8"?>
<routes>
  <route id="0" town="Town12"><weathers/><waypoints/><scenarios/></route>
  <route id="1" town="Town13"><weathers/><waypoints/><scenarios/></route>
</routes>
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := makeManager(t)
	if err := m.LoadFromFile(path); !errors.Is(err, ErrMixedMaps) {
		t.Fatalf("expected ErrMixedMaps, got %v", err)
	}
	if m.MapName != "Town12" || len(m.Routes) != 1 {
		t.Errorf("failed load must leave the manager unchanged")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.xml")
	data := `<routes>
  <route id="3" town="Town12"><weathers/><waypoints/><scenarios/></route>
  <route id="3" town="Town12"><weathers/><waypoints/><scenarios/></route>
</routes>
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := makeManager(t)
	if err := m.LoadFromFile(path); err == nil {
		t.Fatal("expected duplicate route ids to be rejected")
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xml")
	if err := os.WriteFile(path, []byte("<routes></routes>\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := makeManager(t)
	if err := m.LoadFromFile(path); err == nil {
		t.Fatal("expected a file without routes to be rejected")
	}
}

func TestLoadScenarioWithoutTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notrigger.xml")
	data := `<routes>
  <route id="0" town="Town12">
    <weathers/>
    <waypoints/>
    <scenarios>
      <scenario name="Accident_0" type="Accident">
        <distance value="120"/>
      </scenario>
    </scenarios>
  </route>
</routes>
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := makeManager(t)
	if err := m.LoadFromFile(path); err == nil {
		t.Fatal("expected a scenario without a trigger_point to be rejected")
	}
}
