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
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// Table groups, in output order.
var (
	BasicTables = []string{
		"dim_date", "dim_location", "dim_customer", "dim_vehicle", "dim_route",
		"dim_route_stops", "dim_weather", "fact_shipments", "fact_vehicle_telemetry",
	}
	ComprehensiveTables = []string{
		"dim_date", "dim_location", "dim_customer", "dim_vehicle", "dim_route",
		"dim_route_stops", "dim_weather", "dim_traffic_conditions", "dim_vehicle_maintenance",
		"fact_shipments", "fact_vehicle_telemetry", "fact_route_conditions",
		"fact_vehicle_utilization", "raw_azure_customers", "raw_azure_vehicles",
		"raw_azure_shipments", "raw_azure_maintenance", "raw_telematics_data",
		"raw_traffic_data", "raw_weather_data", "real_time_kpis", "real_time_vehicle_alerts",
	}
)

// Dataset is the output of one generation run. Tables are kept in output
// order; the typed slices give downstream consumers structured access.
type Dataset struct {
	Params Params
	AsOf   time.Time
	Tables []*datagen.Table

	Dates           []DateEntry
	Locations       []Location
	Customers       []Customer
	Vehicles        []Vehicle
	Routes          []Route
	Weather         []Weather
	Traffic         []Traffic
	Maintenance     []Maintenance
	Shipments       []Shipment
	Telemetry       []Telemetry
	RouteConditions []RouteCondition
	Utilization     []Utilization
}

// Table returns the named table or nil.
func (d *Dataset) Table(name string) *datagen.Table {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Names returns the table names in output order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		names[i] = t.Name
	}
	return names
}

// TotalRows returns the row count across every table.
func (d *Dataset) TotalRows() int {
	n := 0
	for _, t := range d.Tables {
		n += t.Len()
	}
	return n
}

// Generate builds a dataset for the given parameters and reference data.
func Generate(ctx context.Context, p Params, ref *Reference) (*Dataset, error) {
	g, err := NewGenerator(p, ref)
	if err != nil {
		return nil, err
	}
	return g.Build(ctx)
}

// Build runs every builder in dependency order: dimensions, facts, raw
// projections, then real-time tables. The order fixes the sequence of
// random draws and must not change between runs.
func (g *Generator) Build(ctx context.Context) (*Dataset, error) {
	p := g.params
	w := p.Windows
	ds := &Dataset{Params: p, AsOf: g.asOf}
	var tables []*datagen.Table
	var err error

	started := time.Now()
	logging.Info().
		Uint64("seed", p.Seed).
		Bool("comprehensive", p.Comprehensive).
		Int("days", len(g.days)).
		Msg("Generating logistics dataset")

	// Dimensions
	if ds.Dates, err = g.BuildDateDimension(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	if ds.Locations, err = g.BuildLocationDimension(); err != nil {
		return nil, err
	}
	if ds.Customers, err = g.BuildCustomerDimension(p.Customers); err != nil {
		return nil, err
	}
	if ds.Vehicles, err = g.BuildVehicleDimension(p.Vehicles); err != nil {
		return nil, err
	}
	if ds.Routes, err = g.BuildRouteDimension(ds.Locations); err != nil {
		return nil, err
	}
	if ds.Weather, err = g.BuildWeatherDimension(g.trailing(w.Weather)); err != nil {
		return nil, err
	}
	if p.Comprehensive {
		if ds.Traffic, err = g.BuildTrafficDimension(g.trailing(w.Traffic)); err != nil {
			return nil, err
		}
		if ds.Maintenance, err = g.BuildVehicleMaintenanceDimension(ds.Vehicles); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables = append(tables,
		toTable("dim_date", dateColumns, ds.Dates),
		toTable("dim_location", locationColumns, ds.Locations),
		toTable("dim_customer", customerColumns, ds.Customers),
		toTable("dim_vehicle", vehicleColumns, ds.Vehicles),
		toTable("dim_route", routeColumns, ds.Routes),
		routeStopsTable(ds.Routes),
		toTable("dim_weather", weatherColumns, ds.Weather),
	)
	if p.Comprehensive {
		tables = append(tables,
			toTable("dim_traffic_conditions", trafficColumns, ds.Traffic),
			toTable("dim_vehicle_maintenance", maintenanceColumns, ds.Maintenance),
		)
	}

	// Facts
	if ds.Shipments, err = g.BuildShipmentFacts(ctx, g.trailing(w.Shipment),
		ds.Customers, ds.Vehicles, ds.Routes); err != nil {
		return nil, err
	}
	if ds.Telemetry, err = g.BuildVehicleTelemetryFacts(ctx, g.trailing(w.Telemetry), ds.Vehicles); err != nil {
		return nil, err
	}
	tables = append(tables,
		toTable("fact_shipments", shipmentColumns, ds.Shipments),
		toTable("fact_vehicle_telemetry", telemetryColumns, ds.Telemetry),
	)

	if p.Comprehensive {
		if ds.RouteConditions, err = g.BuildRouteConditionFacts(g.trailing(w.RouteConditions),
			ds.Routes, ds.Weather, ds.Traffic); err != nil {
			return nil, err
		}
		if ds.Utilization, err = g.BuildVehicleUtilizationFacts(g.trailing(w.Utilization),
			ds.Vehicles, ds.Shipments); err != nil {
			return nil, err
		}
		tables = append(tables,
			toTable("fact_route_conditions", routeConditionColumns, ds.RouteConditions),
			toTable("fact_vehicle_utilization", utilizationColumns, ds.Utilization),
		)

		raw, err := g.buildRaw(ctx, ds)
		if err != nil {
			return nil, err
		}
		tables = append(tables, raw...)

		kpis, err := g.BuildRealTimeKPIs()
		if err != nil {
			return nil, err
		}
		alerts, err := g.BuildRealTimeVehicleAlerts(ds.Vehicles)
		if err != nil {
			return nil, err
		}
		tables = append(tables, kpis, alerts)
	}

	ds.Tables = tables

	logging.Info().
		Int("tables", len(ds.Tables)).
		Int("rows", ds.TotalRows()).
		Dur("elapsed", time.Since(started)).
		Msg("Dataset generated")

	return ds, nil
}

func (g *Generator) buildRaw(ctx context.Context, ds *Dataset) ([]*datagen.Table, error) {
	w := g.params.Windows
	depots := depotsByCity(ds.Locations)
	for _, c := range g.ref.Cities {
		if _, ok := depots[c.Name]; !ok {
			return nil, referentialErr("raw_traffic_data", "no depot for city %q", c.Name)
		}
	}

	customers := g.ProjectRawCustomers(ds.Customers)
	vehicles := g.ProjectRawVehicles(ds.Vehicles)
	shipments, err := g.ProjectRawShipments(ctx, ds.Shipments)
	if err != nil {
		return nil, err
	}
	maintenance := g.ProjectRawMaintenance(ds.Maintenance)

	telematics := g.ProjectRawTelematics(g.trailing(w.RawTelematics), ds.Vehicles)
	traffic := g.ProjectRawTraffic(g.trailing(w.RawFeeds), depots)
	weather, err := g.ProjectRawWeather(g.trailing(w.RawFeeds), depots)
	if err != nil {
		return nil, err
	}

	out := []*datagen.Table{customers, vehicles, shipments, maintenance, telematics, traffic, weather}
	for _, t := range out {
		logging.TableGenerated(t.Name, t.Len())
	}
	return out, nil
}

// TablesFor returns the table names produced for the given mode.
func TablesFor(comprehensive bool) []string {
	if comprehensive {
		return ComprehensiveTables
	}
	return BasicTables
}

// String summarizes the dataset.
func (d *Dataset) String() string {
	return fmt.Sprintf("%d tables, %d rows (seed %d)", len(d.Tables), d.TotalRows(), d.Params.Seed)
}
