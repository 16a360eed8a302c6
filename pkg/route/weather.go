// pkg/route/weather.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"github.com/drivebench/routeforge/pkg/math"
)

// WeatherParams mirrors the simulator's weather parameter set; a route
// file stores two keyframes of these, at the start and end of the route,
// and the scenario runner interpolates between them.
type WeatherParams struct {
	Cloudiness            float32
	Precipitation         float32
	PrecipitationDeposits float32
	Wetness               float32
	WindIntensity         float32
	SunAzimuthAngle       float32
	SunAltitudeAngle      float32
	FogDensity            float32
	FogDistance           float32
	FogFalloff            float32
	ScatteringIntensity   float32
	MieScatteringScale    float32
}

// WeatherKeyframe is WeatherParams pinned to a fraction of route
// progress, 0 to 100.
type WeatherKeyframe struct {
	RoutePercentage float32
	WeatherParams
}

// DefaultWeatherKeyframes builds the two keyframes a new route starts
// with from the simulator's current weather. Fog falloff and mie
// scattering scale come back from the simulator with excessive precision
// and are the only coefficients whose raw values are noisy, so they are
// rounded to two decimals.
func DefaultWeatherKeyframes(w WeatherParams) []WeatherKeyframe {
	w.FogFalloff = math.RoundTo(w.FogFalloff, 2)
	w.MieScatteringScale = math.RoundTo(w.MieScatteringScale, 2)

	return []WeatherKeyframe{
		{RoutePercentage: 0, WeatherParams: w},
		{RoutePercentage: 100, WeatherParams: w},
	}
}
