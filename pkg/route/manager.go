// pkg/route/manager.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"errors"
	"fmt"

	"github.com/drivebench/routeforge/pkg/log"
	"github.com/drivebench/routeforge/pkg/util"
)

// ErrUnknownRouteFile reports a load path without the route-collection
// extension; the manager's state is untouched when it is returned.
var ErrUnknownRouteFile = errors.New("Not a route file (expected .xml)")

// ErrMixedMaps reports a route file whose records name more than one
// map. Files are assumed single-map; a mixed file is rejected outright
// rather than silently taking the first map and rendering the rest of
// the routes unusable.
var ErrMixedMaps = errors.New("Route file references multiple maps")

// Manager owns the route collection, the selection, and whole-file
// persistence. All routes managed together belong to the same map.
type Manager struct {
	// Routes maps each route's id to it. Iteration for display is over
	// sorted ids; see SortedIDs.
	Routes map[int]*Route

	// SelectedID is the id of the active route, or -1 when there are no
	// routes.
	SelectedID int

	// MapName is the map every current route belongs to.
	MapName string

	// Weather is the simulator snapshot captured on the last map load,
	// used as the default for routes added afterward.
	Weather WeatherParams

	svc SimService
	lg  *log.Logger
}

func NewManager(svc SimService, lg *log.Logger) *Manager {
	return &Manager{
		Routes:     make(map[int]*Route),
		SelectedID: -1,
		svc:        svc,
		lg:         lg,
	}
}

// Selected returns the active route, or nil when there is none.
func (m *Manager) Selected() *Route {
	return m.Routes[m.SelectedID]
}

// SortedIDs returns the current route ids from low to high; display
// code iterates in this order.
func (m *Manager) SortedIDs() []int {
	return util.SortedMapKeys(m.Routes)
}

// ResetToEmptyRoute discards all routes, switches the simulator to the
// named map, captures its weather as the default, and starts over with
// a single empty route.
func (m *Manager) ResetToEmptyRoute(mapName string) error {
	if err := m.svc.LoadMap(mapName); err != nil {
		return err
	}
	wx, err := m.svc.CurrentWeather()
	if err != nil {
		return err
	}

	m.MapName = mapName
	m.Weather = wx
	m.Routes = make(map[int]*Route)
	m.SelectedID = -1

	_, err = m.AddEmptyRoute()
	return err
}

// AddEmptyRoute creates an empty route under the smallest unused
// non-negative id, gives it freshly generated default weather, and
// selects it.
func (m *Manager) AddEmptyRoute() (*Route, error) {
	id := 0
	for _, ok := m.Routes[id]; ok; _, ok = m.Routes[id] {
		id++
	}

	r, err := NewRoute(m.svc, id, m.MapName, DefaultWeatherKeyframes(m.Weather), nil, nil, m.lg)
	if err != nil {
		return nil, err
	}

	m.Routes[id] = r
	m.SelectedID = id
	m.lg.Infof("route %d: added", id)
	return r, nil
}

// RemoveSelectedRoute deletes the active route and selects the lowest
// remaining id. The caller is responsible for not removing the last
// route; the editor disables removal when only one remains.
func (m *Manager) RemoveSelectedRoute() {
	delete(m.Routes, m.SelectedID)
	m.lg.Infof("route %d: removed", m.SelectedID)

	m.SelectedID = -1
	if ids := m.SortedIDs(); len(ids) > 0 {
		m.SelectedID = ids[0]
	}
}

// LoadFromFile replaces the whole route collection with the contents of
// the given file. The map context comes from the file's records, which
// must all name the same map; the first parsed route becomes the
// selection. Any failure — extension mismatch, parse error, planner
// error while rebuilding dense paths — leaves the manager unchanged.
func (m *Manager) LoadFromFile(path string) error {
	recs, err := ReadFile(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%s: no routes in file", path)
	}

	mapName := recs[0].MapName
	for _, rec := range recs[1:] {
		if rec.MapName != mapName {
			return fmt.Errorf("%s vs %s: %w", mapName, rec.MapName, ErrMixedMaps)
		}
	}

	if err := m.svc.LoadMap(mapName); err != nil {
		return err
	}
	wx, err := m.svc.CurrentWeather()
	if err != nil {
		return err
	}

	// Build the new collection off to the side so a failure partway
	// through doesn't leave a half-loaded manager.
	routes := make(map[int]*Route, len(recs))
	for _, rec := range recs {
		if _, ok := routes[rec.ID]; ok {
			return fmt.Errorf("%s: duplicate route id %d", path, rec.ID)
		}
		r, err := NewRoute(m.svc, rec.ID, rec.MapName, rec.Weather, rec.Waypoints,
			rec.Scenarios, m.lg)
		if err != nil {
			return err
		}
		routes[rec.ID] = r
	}

	m.MapName = mapName
	m.Weather = wx
	m.Routes = routes
	m.SelectedID = recs[0].ID
	m.lg.Infof("%s: loaded %d routes for %s", path, len(recs), mapName)
	return nil
}

// SaveToFile serializes every route into the given file, appending the
// route-file extension if the path doesn't carry it. The file is written
// through a temporary file and renamed into place so a failed save never
// truncates an existing one.
func (m *Manager) SaveToFile(path string) error {
	var recs []Record
	for _, id := range m.SortedIDs() {
		r := m.Routes[id]
		recs = append(recs, Record{
			ID:        r.ID,
			MapName:   r.MapName,
			Weather:   r.Weather,
			Waypoints: r.Waypoints,
			Scenarios: r.Scenarios,
		})
	}
	if err := WriteFile(path, recs); err != nil {
		return err
	}
	m.lg.Infof("%s: saved %d routes", path, len(m.Routes))
	return nil
}
