//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package model

import (
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
)

// ShipmentFeatureNames names the columns produced by ShipmentFeatures.
var ShipmentFeatureNames = []string{
	"distance_km", "weight_kg", "volume_m3", "planned_duration_minutes",
	"is_weekend", "is_urgent", "is_high_priority",
	"route_stops", "route_complexity", "route_traffic_density", "route_weather_risk",
}

// ShipmentFeatures turns shipments into an on-time delivery training set.
// The label is 1 for shipments delivered on time. Only attributes known
// when the shipment is booked are used: delays and actual durations are
// recorded after delivery and would leak the outcome.
func ShipmentFeatures(shipments []logistics.Shipment, routes []logistics.Route) (X [][]float64, y []float64) {
	byID := make(map[int]*logistics.Route, len(routes))
	for i := range routes {
		byID[routes[i].ID] = &routes[i]
	}

	X = make([][]float64, 0, len(shipments))
	y = make([]float64, 0, len(shipments))
	for _, s := range shipments {
		var stops, complexity, traffic, weather float64
		if r, ok := byID[s.RouteID]; ok {
			stops = float64(r.NumberOfStops)
			complexity = r.ComplexityScore
			traffic = level(r.TrafficDensity)
			weather = level(r.WeatherRisk)
		}

		wd := s.ShipmentDate.Weekday()
		X = append(X, []float64{
			s.DistanceKm,
			s.WeightKg,
			s.VolumeM3,
			s.PlannedDurationMinutes,
			flag(wd == time.Saturday || wd == time.Sunday),
			flag(s.PriorityLevel == "Urgent"),
			flag(s.PriorityLevel == "High"),
			stops,
			complexity,
			traffic,
			weather,
		})
		y = append(y, flag(s.IsOnTime))
	}
	return X, y
}

// level encodes a Low/Medium/High rating as 0, 1 or 2.
func level(s string) float64 {
	switch s {
	case "Medium":
		return 1
	case "High":
		return 2
	default:
		return 0
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
