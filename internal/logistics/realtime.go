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
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
)

// Row counts of the real-time tables.
const (
	realTimeKPIRows   = 100
	realTimeAlertRows = 50
)

var kpiColumns = []datagen.Column{
	datagen.Int("metric_id"), datagen.Text("metric_name"), datagen.Float("metric_value"),
	datagen.Text("dimensions"), datagen.Timestamp("timestamp"), datagen.Float("alert_threshold"),
	datagen.Bool("alert_triggered"),
}

var kpiMetrics = []string{
	"on_time_delivery_rate", "avg_delivery_time_hours",
	"revenue_per_hour", "avg_profit_margin", "avg_route_efficiency",
}

// BuildRealTimeKPIs returns a snapshot of streaming KPI readings from the
// last hour.
func (g *Generator) BuildRealTimeKPIs() (*datagen.Table, error) {
	f := g.faker
	t := datagen.NewTable("real_time_kpis", kpiColumns)
	hourAgo := g.asOf.Add(-time.Hour)

	for i := 0; i < realTimeKPIRows; i++ {
		name := datagen.Choose(f, kpiMetrics)
		value := datagen.Round(f.Float64(0, 100), 2)
		dims, err := json.Marshal(map[string]string{
			"timeframe": datagen.Choose(f, []string{"last_hour", "current_hour", "last_24h"}),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode kpi dimensions: %w", err)
		}
		ts := f.TimeBetween(hourAgo, g.asOf)
		threshold := datagen.Round(f.Float64(50, 90), 2)
		t.Append(i+1, name, value, string(dims), ts, threshold, f.Bool())
	}
	return t, nil
}

var alertColumns = []datagen.Column{
	datagen.Int("alert_id"), datagen.Text("vehicle_id"), datagen.Text("alert_type"),
	datagen.Text("severity"), datagen.Text("message"), datagen.Timestamp("timestamp"),
	datagen.Bool("resolved"), datagen.Timestamp("resolved_timestamp"),
}

var alertTypes = []string{
	"ENGINE_OVERHEATING", "LOW_FUEL", "SPEEDING",
	"HARSH_BRAKING", "MAINTENANCE_DUE", "GPS_SIGNAL_LOST",
}

// BuildRealTimeVehicleAlerts returns recent alerts raised by fleet
// vehicles. Resolved alerts carry a resolution time after the alert.
func (g *Generator) BuildRealTimeVehicleAlerts(vehicles []Vehicle) (*datagen.Table, error) {
	if len(vehicles) == 0 {
		return nil, referentialErr("real_time_vehicle_alerts", "no vehicles")
	}

	f := g.faker
	t := datagen.NewTable("real_time_vehicle_alerts", alertColumns)
	hourAgo := g.asOf.Add(-time.Hour)

	for i := 0; i < realTimeAlertRows; i++ {
		v := datagen.Choose(f, vehicles)
		alertType := datagen.Choose(f, alertTypes)
		severity := datagen.Choose(f, []string{"INFO", "WARNING", "CRITICAL"})
		message := f.Sentence(8)
		ts := f.TimeBetween(hourAgo, g.asOf)
		resolved := f.Bool()
		var resolvedAt any
		if resolved {
			resolvedAt = f.TimeBetween(ts, g.asOf)
		}
		t.Append(i+1, v.ID, alertType, severity, message, ts, resolved, resolvedAt)
	}
	return t, nil
}
