//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logistics

import (
	"context"
	"errors"
	"testing"
	"time"
)

// buildComprehensive generates a comprehensive dataset over a month so the
// trailing windows cut into the range.
func buildComprehensive(t *testing.T) *Dataset {
	t.Helper()
	p := testParams()
	p.EndDate = day(2023, 1, 31)
	p.Customers = 40
	p.Vehicles = 12
	p.Windows.Telemetry = 5
	p.Windows.Utilization = 20
	p.Windows.RouteConditions = 10
	p.Windows.RawTelematics = 2
	p.Windows.RawFeeds = 3

	ds, err := Generate(context.Background(), p, DefaultReference().WithCities(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return ds
}

func TestShipmentReferentialClosure(t *testing.T) {
	ds := buildComprehensive(t)
	if len(ds.Shipments) == 0 {
		t.Fatal("Expected shipments")
	}

	customers := make(map[int]bool)
	for _, c := range ds.Customers {
		customers[c.ID] = true
	}
	vehicles := make(map[string]Vehicle)
	for _, v := range ds.Vehicles {
		vehicles[v.ID] = v
	}
	routes := make(map[int]Route)
	for _, r := range ds.Routes {
		routes[r.ID] = r
	}
	locations := make(map[int]bool)
	for _, l := range ds.Locations {
		locations[l.ID] = true
	}
	dateKeys := make(map[int]bool)
	for _, d := range ds.Dates {
		dateKeys[d.DateKey] = true
	}

	for _, s := range ds.Shipments {
		if !customers[s.CustomerID] {
			t.Fatalf("Shipment %d: unknown customer %d", s.ID, s.CustomerID)
		}
		v, ok := vehicles[s.VehicleID]
		if !ok || !v.IsActive {
			t.Fatalf("Shipment %d: vehicle %s missing or inactive", s.ID, s.VehicleID)
		}
		r, ok := routes[s.RouteID]
		if !ok || !r.IsActive {
			t.Fatalf("Shipment %d: route %d missing or inactive", s.ID, s.RouteID)
		}
		if s.OriginLocationID != r.OriginLocationID || !locations[s.OriginLocationID] {
			t.Errorf("Shipment %d: origin %d does not match route", s.ID, s.OriginLocationID)
		}
		onRoute := false
		for _, stop := range r.Stops {
			if stop == s.DestinationLocationID {
				onRoute = true
			}
		}
		if !onRoute {
			t.Errorf("Shipment %d: destination %d is not a stop of route %d", s.ID, s.DestinationLocationID, r.ID)
		}
		if !dateKeys[s.DateKey] {
			t.Errorf("Shipment %d: date key %d not in dim_date", s.ID, s.DateKey)
		}
		if s.WeightKg < 10 || s.WeightKg > float64(v.CapacityKg)*0.8 {
			t.Errorf("Shipment %d: weight %v outside vehicle bounds", s.ID, s.WeightKg)
		}
	}
}

func TestShipmentDerivedFields(t *testing.T) {
	ds := buildComprehensive(t)

	for _, s := range ds.Shipments {
		if s.RouteEfficiencyScore < 0 || s.RouteEfficiencyScore > 100 {
			t.Errorf("Shipment %d: efficiency %v outside [0,100]", s.ID, s.RouteEfficiencyScore)
		}
		if s.PlannedDeliveryDate.Before(s.ShipmentDate) {
			t.Errorf("Shipment %d: planned delivery before shipment", s.ID)
		}
		if s.IsOnTime {
			if s.ActualDeliveryDate == nil || s.ActualDurationMinutes == nil {
				t.Errorf("Shipment %d: on-time shipment without actuals", s.ID)
			}
			if s.DeliveryStatus != "Delivered" {
				t.Errorf("Shipment %d: on-time shipment has status %s", s.ID, s.DeliveryStatus)
			}
			if s.WeatherDelayMinutes != 0 || s.TrafficDelayMinutes != 0 {
				t.Errorf("Shipment %d: on-time shipment has delays", s.ID)
			}
		} else {
			if s.ActualDeliveryDate != nil {
				t.Errorf("Shipment %d: late shipment has an actual delivery date", s.ID)
			}
			switch s.DeliveryStatus {
			case "In Transit", "Delayed", "Failed":
			default:
				t.Errorf("Shipment %d: unexpected status %s", s.ID, s.DeliveryStatus)
			}
		}
		if diff := s.TotalCost - (s.FuelCost + s.DeliveryCost); diff > 0.01 || diff < -0.01 {
			t.Errorf("Shipment %d: total cost %v != fuel %v + delivery %v", s.ID, s.TotalCost, s.FuelCost, s.DeliveryCost)
		}
	}
}

func TestShipmentDailyVolume(t *testing.T) {
	ds := buildComprehensive(t)

	perDay := make(map[time.Time]int)
	for _, s := range ds.Shipments {
		perDay[s.ShipmentDate]++
	}
	for _, d := range ds.Dates {
		n := perDay[d.Date]
		lo, hi := 50, 200
		if d.IsWeekend {
			lo, hi = 20, 80
		}
		if n < lo || n > hi {
			t.Errorf("%v: %d shipments, want %d-%d", d.Date, n, lo, hi)
		}
	}
}

func TestBuildShipmentFactsErrors(t *testing.T) {
	g := newTestGenerator(t, testParams(), 2)
	ctx := context.Background()
	days := g.trailing(1)
	customers := []Customer{{ID: 1}}
	vehicles := []Vehicle{{ID: "VH0001", IsActive: true, CapacityKg: 1000, FuelEfficiency: 10}}
	routes := []Route{{ID: 1, IsActive: true, Stops: []int{5}, EstimatedDurationMinutes: 60}}

	tests := []struct {
		name      string
		customers []Customer
		vehicles  []Vehicle
		routes    []Route
	}{
		{"no customers", nil, vehicles, routes},
		{"no active vehicles", customers, []Vehicle{{ID: "VH0001"}}, routes},
		{"no active routes", customers, vehicles, []Route{{ID: 1, Stops: []int{5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.BuildShipmentFacts(ctx, days, tt.customers, tt.vehicles, tt.routes)
			if !errors.Is(err, ErrReferential) {
				t.Errorf("Expected ErrReferential, got %v", err)
			}
		})
	}

	out, err := g.BuildShipmentFacts(ctx, days, customers, vehicles, routes)
	if err != nil {
		t.Fatalf("BuildShipmentFacts failed: %v", err)
	}
	for _, s := range out {
		if s.DestinationLocationID != 5 || s.VehicleID != "VH0001" {
			t.Errorf("Unexpected references in shipment %d", s.ID)
		}
	}
}

func TestBuildShipmentFactsCancelled(t *testing.T) {
	g := newTestGenerator(t, testParams(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.BuildShipmentFacts(ctx, g.trailing(0), []Customer{{ID: 1}},
		[]Vehicle{{ID: "VH0001", IsActive: true, CapacityKg: 1000}},
		[]Route{{ID: 1, IsActive: true, Stops: []int{5}}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestTelemetryFacts(t *testing.T) {
	ds := buildComprehensive(t)

	vehicles := make(map[string]Vehicle)
	for _, v := range ds.Vehicles {
		vehicles[v.ID] = v
	}

	windowStart := day(2023, 1, 27)
	last := make(map[string]int)
	for _, r := range ds.Telemetry {
		v, ok := vehicles[r.VehicleID]
		if !ok || !v.TelematicsEnabled {
			t.Fatalf("Telemetry %d: vehicle %s missing or not telematics enabled", r.ID, r.VehicleID)
		}
		if r.Timestamp.Before(windowStart) || r.Timestamp.After(ds.AsOf) {
			t.Errorf("Telemetry %d: timestamp %v outside window", r.ID, r.Timestamp)
		}
		prev, seen := last[r.VehicleID]
		if !seen {
			prev = v.OdometerKm
		}
		if r.OdometerKm < prev {
			t.Errorf("Telemetry %d: odometer decreased from %d to %d", r.ID, prev, r.OdometerKm)
		}
		last[r.VehicleID] = r.OdometerKm
		if r.Lat < -45 || r.Lat > -10 || r.Lng < 110 || r.Lng > 160 {
			t.Errorf("Telemetry %d: position outside bounds", r.ID)
		}
	}
}

func TestRouteConditionFacts(t *testing.T) {
	ds := buildComprehensive(t)
	if len(ds.RouteConditions) == 0 {
		t.Fatal("Expected route conditions")
	}

	routes := make(map[int]Route)
	for _, r := range ds.Routes {
		routes[r.ID] = r
	}

	for _, c := range ds.RouteConditions {
		r, ok := routes[c.RouteID]
		if !ok || !r.IsActive {
			t.Fatalf("Condition %d: route %d missing or inactive", c.ID, c.RouteID)
		}
		for name, v := range map[string]float64{
			"performance": c.RoutePerformanceScore,
			"safety":      c.SafetyRiskScore,
			"fuel":        c.FuelEfficiencyImpactPct,
			"delay":       c.DeliveryDelayRiskPct,
		} {
			if v < 0 || v > 100 {
				t.Errorf("Condition %d: %s score %v outside [0,100]", c.ID, name, v)
			}
		}
		if c.Date.Before(day(2023, 1, 22)) {
			t.Errorf("Condition %d: date %v outside window", c.ID, c.Date)
		}
	}

	active := 0
	for _, r := range ds.Routes {
		if r.IsActive {
			active++
		}
	}
	if want := active * 10; len(ds.RouteConditions) != want {
		t.Errorf("Expected %d route conditions, got %d", want, len(ds.RouteConditions))
	}
}

func TestRouteConditionsSkipMissingCity(t *testing.T) {
	g := newTestGenerator(t, testParams(), 2)
	d := day(2023, 1, 10)
	routes := []Route{
		{ID: 1, OriginCity: "Sydney", IsActive: true},
		{ID: 2, OriginCity: "Atlantis", IsActive: true},
		{ID: 3, OriginCity: "Sydney", IsActive: false},
	}
	weather := []Weather{{ID: 1, Date: d, City: "Sydney", WeatherSeverityScore: 10}}
	traffic := []Traffic{
		{ID: 2, Date: d, HourOfDay: 5, City: "Sydney", CongestionDelayMinutes: 30},
		{ID: 1, Date: d, HourOfDay: 0, City: "Sydney", CongestionDelayMinutes: 60},
	}

	out, err := g.BuildRouteConditionFacts([]time.Time{d}, routes, weather, traffic)
	if err != nil {
		t.Fatalf("BuildRouteConditionFacts failed: %v", err)
	}
	if len(out) != 1 || out[0].RouteID != 1 {
		t.Fatalf("Expected a single condition for route 1, got %+v", out)
	}
	c := out[0]
	// Severity 10 and 60 minutes delay: w = 1, t = 1.
	if c.CongestionDelayMinutes != 60 {
		t.Errorf("Expected earliest-hour traffic to be joined, got delay %v", c.CongestionDelayMinutes)
	}
	if c.RoutePerformanceScore != 50 || c.SafetyRiskScore != 70 ||
		c.FuelEfficiencyImpactPct != 30 || c.DeliveryDelayRiskPct != 50 {
		t.Errorf("Unexpected scores: %+v", c)
	}
}

func TestVehicleUtilizationFacts(t *testing.T) {
	ds := buildComprehensive(t)

	vehicles := make(map[string]Vehicle)
	for _, v := range ds.Vehicles {
		vehicles[v.ID] = v
	}

	windowStart := day(2023, 1, 12)
	expected := 0
	for _, s := range ds.Shipments {
		if !s.ShipmentDate.Before(windowStart) {
			expected++
		}
	}

	total := 0
	for _, u := range ds.Utilization {
		v, ok := vehicles[u.VehicleID]
		if !ok || !v.IsActive {
			t.Fatalf("Utilization %d: vehicle %s missing or inactive", u.ID, u.VehicleID)
		}
		if u.TotalShipments == 0 {
			t.Errorf("Utilization %d: empty day emitted", u.ID)
		}
		total += u.TotalShipments
		for name, pct := range map[string]float64{
			"capacity": u.CapacityUtilizationPct,
			"volume":   u.VolumeUtilizationPct,
			"score":    u.UtilizationScore,
		} {
			if pct < 0 || pct > 100 {
				t.Errorf("Utilization %d: %s %v outside [0,100]", u.ID, name, pct)
			}
		}
		if u.IsOverCapacity && u.CapacityUtilizationPct != 100 {
			t.Errorf("Utilization %d: over capacity but utilization %v", u.ID, u.CapacityUtilizationPct)
		}
	}

	if total != expected {
		t.Errorf("Utilization covers %d shipments, expected %d", total, expected)
	}
}

func TestShipmentWindow(t *testing.T) {
	tests := []struct {
		name   string
		window int
		first  time.Time
	}{
		{"whole range by default", 0, day(2023, 1, 1)},
		{"trailing days", 4, day(2023, 1, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.Comprehensive = false
			p.Windows.Shipment = tt.window

			ds, err := Generate(context.Background(), p, DefaultReference().WithCities(2))
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if len(ds.Shipments) == 0 {
				t.Fatal("Expected shipments")
			}

			earliest := ds.Shipments[0].ShipmentDate
			for _, s := range ds.Shipments {
				if s.ShipmentDate.Before(earliest) {
					earliest = s.ShipmentDate
				}
			}
			if !earliest.Equal(tt.first) {
				t.Errorf("Expected first shipment on %v, got %v", tt.first, earliest)
			}
		})
	}
}
