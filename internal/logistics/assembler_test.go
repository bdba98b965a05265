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
	"slices"
	"testing"
)

func TestEndToEndScenario(t *testing.T) {
	p := testParams()
	p.Seed = 42
	p.Comprehensive = false

	ds, err := Generate(context.Background(), p, DefaultReference().WithCities(2))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if n := len(ds.Dates); n != 10 {
		t.Errorf("Expected 10 date rows, got %d", n)
	}
	depots := 0
	for _, l := range ds.Locations {
		if l.Type == LocationDepot {
			depots++
		}
	}
	if depots != 2 {
		t.Errorf("Expected 2 depots, got %d", depots)
	}
	if n := ds.Table("dim_customer").Len(); n != 5 {
		t.Errorf("Expected 5 customers, got %d", n)
	}
	if n := ds.Table("dim_vehicle").Len(); n != 5 {
		t.Errorf("Expected 5 vehicles, got %d", n)
	}

	vehicleIDs := make(map[string]bool)
	vt := ds.Table("dim_vehicle")
	for i := range vt.Rows {
		vehicleIDs[vt.Value(i, "vehicle_id").(string)] = true
	}
	routeIDs := make(map[int]bool)
	rt := ds.Table("dim_route")
	for i := range rt.Rows {
		routeIDs[rt.Value(i, "route_id").(int)] = true
	}

	st := ds.Table("fact_shipments")
	if st.Len() == 0 {
		t.Fatal("Expected shipments")
	}
	for i := range st.Rows {
		if !vehicleIDs[st.Value(i, "vehicle_id").(string)] {
			t.Errorf("Shipment row %d references unknown vehicle", i)
		}
		if !routeIDs[st.Value(i, "route_id").(int)] {
			t.Errorf("Shipment row %d references unknown route", i)
		}
	}

	if !slices.Equal(ds.Names(), BasicTables) {
		t.Errorf("Expected basic tables %v, got %v", BasicTables, ds.Names())
	}
}

func TestComprehensiveTableSet(t *testing.T) {
	ds := buildComprehensive(t)
	if !slices.Equal(ds.Names(), ComprehensiveTables) {
		t.Errorf("Expected tables %v, got %v", ComprehensiveTables, ds.Names())
	}
	if !slices.Equal(TablesFor(true), ComprehensiveTables) || !slices.Equal(TablesFor(false), BasicTables) {
		t.Error("TablesFor returned the wrong table set")
	}
	if got := ds.Table("real_time_kpis").Len(); got != 100 {
		t.Errorf("Expected 100 kpi rows, got %d", got)
	}
	if got := ds.Table("real_time_vehicle_alerts").Len(); got != 50 {
		t.Errorf("Expected 50 alert rows, got %d", got)
	}
	if ds.Table("missing") != nil {
		t.Error("Expected nil for unknown table")
	}
}

func TestDeterminism(t *testing.T) {
	p := testParams()
	p.EndDate = day(2023, 1, 20)
	p.Windows.RawFeeds = 2
	ref := DefaultReference().WithCities(2)

	a, err := Generate(context.Background(), p, ref)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(context.Background(), p, ref)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !slices.Equal(a.Names(), b.Names()) {
		t.Fatalf("Table lists differ: %v vs %v", a.Names(), b.Names())
	}
	for _, ta := range a.Tables {
		tb := b.Table(ta.Name)
		if ta.Len() != tb.Len() {
			t.Errorf("%s: row counts differ %d vs %d", ta.Name, ta.Len(), tb.Len())
			continue
		}
		for i := range ta.Rows {
			if !slices.Equal(ta.Record(i), tb.Record(i)) {
				t.Errorf("%s: row %d differs", ta.Name, i)
				break
			}
		}
	}

	p.Seed = 7
	c, err := Generate(context.Background(), p, ref)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	same := a.Table("fact_shipments").Len() == c.Table("fact_shipments").Len()
	if same {
		for i := range a.Table("fact_shipments").Rows {
			if !slices.Equal(a.Table("fact_shipments").Record(i), c.Table("fact_shipments").Record(i)) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("Different seeds produced identical shipments")
	}
}

func TestRawProjectionKeys(t *testing.T) {
	ds := buildComprehensive(t)

	check := func(raw, src, key string) {
		rt := ds.Table(raw)
		st := ds.Table(src)
		if rt.Len() != st.Len() {
			t.Errorf("%s: %d rows, source %s has %d", raw, rt.Len(), src, st.Len())
			return
		}
		for i := range rt.Rows {
			if rt.Value(i, key) != st.Value(i, key) {
				t.Errorf("%s row %d: key %v != source key %v", raw, i, rt.Value(i, key), st.Value(i, key))
				return
			}
		}
	}
	check("raw_azure_customers", "dim_customer", "customer_id")
	check("raw_azure_vehicles", "dim_vehicle", "vehicle_id")
	check("raw_azure_shipments", "fact_shipments", "shipment_id")
	check("raw_azure_maintenance", "dim_vehicle_maintenance", "maintenance_id")

	rs := ds.Table("raw_azure_shipments")
	for i := range rs.Rows {
		if code, _ := rs.Value(i, "shipment_status").(string); code == "" {
			t.Fatalf("raw_azure_shipments row %d has no status code", i)
		}
	}
	rc := ds.Table("raw_azure_customers")
	for i := range rc.Rows {
		if code, _ := rc.Value(i, "industry_code").(string); code == "" {
			t.Fatalf("raw_azure_customers row %d has no industry code", i)
		}
	}
	rm := ds.Table("raw_azure_maintenance")
	for i := range rm.Rows {
		parts := rm.Value(i, "parts_cost").(float64)
		labor := rm.Value(i, "labor_cost").(float64)
		total := rm.Value(i, "total_cost").(float64)
		if d := parts + labor - total; d > 0.011 || d < -0.011 {
			t.Errorf("raw_azure_maintenance row %d: parts %v + labor %v != total %v", i, parts, labor, total)
		}
	}
}

func TestRawFeedsResolveToDepots(t *testing.T) {
	ds := buildComprehensive(t)

	depots := make(map[int]bool)
	for _, l := range ds.Locations {
		if l.Type == LocationDepot {
			depots[l.ID] = true
		}
	}
	for _, name := range []string{"raw_traffic_data", "raw_weather_data"} {
		tbl := ds.Table(name)
		// 3 days of hourly readings for 3 cities
		if tbl.Len() != 3*24*3 {
			t.Errorf("%s: expected 216 rows, got %d", name, tbl.Len())
		}
		for i := range tbl.Rows {
			if id := tbl.Value(i, "location_id").(int); !depots[id] {
				t.Fatalf("%s row %d: location %d is not a depot", name, i, id)
			}
		}
	}

	vehicles := make(map[string]bool)
	for _, v := range ds.Vehicles {
		vehicles[v.ID] = true
	}
	alerts := ds.Table("real_time_vehicle_alerts")
	for i := range alerts.Rows {
		if id := alerts.Value(i, "vehicle_id").(string); !vehicles[id] {
			t.Errorf("Alert %d references unknown vehicle %s", i, id)
		}
		if resolved := alerts.Value(i, "resolved").(bool); !resolved && alerts.Value(i, "resolved_timestamp") != nil {
			t.Errorf("Alert %d unresolved but has a resolution time", i)
		}
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	p := testParams()
	p.Customers = 0
	if _, err := Generate(context.Background(), p, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerateNoDeliveryPoints(t *testing.T) {
	p := testParams()
	p.DeliveryPoints = 0
	_, err := Generate(context.Background(), p, DefaultReference().WithCities(2))
	if !errors.Is(err, ErrReferential) {
		t.Errorf("Expected ErrReferential, got %v", err)
	}
}

func BenchmarkGenerateBasic(b *testing.B) {
	p := testParams()
	p.Comprehensive = false
	ref := DefaultReference().WithCities(2)
	for i := 0; i < b.N; i++ {
		if _, err := Generate(context.Background(), p, ref); err != nil {
			b.Fatal(err)
		}
	}
}
