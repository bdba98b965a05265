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
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// Weather is one daily observation for a city.
type Weather struct {
	ID                   int
	Date                 time.Time
	City                 string
	Condition            string
	TemperatureC         float64
	HumidityPercent      int
	WindSpeedKmh         float64
	PrecipitationMm      float64
	VisibilityKm         float64
	WeatherSeverityScore float64
	DrivingImpactScore   float64
}

var weatherColumns = []datagen.Column{
	datagen.Int("weather_id"), datagen.Date("date"), datagen.Text("city"),
	datagen.Text("condition"), datagen.Float("temperature_c"), datagen.Int("humidity_percent"),
	datagen.Float("wind_speed_kmh"), datagen.Float("precipitation_mm"), datagen.Float("visibility_km"),
	datagen.Float("weather_severity_score"), datagen.Float("driving_impact_score"),
}

func (w Weather) row() []any {
	return []any{
		w.ID, w.Date, w.City, w.Condition, w.TemperatureC, w.HumidityPercent,
		w.WindSpeedKmh, w.PrecipitationMm, w.VisibilityKm, w.WeatherSeverityScore,
		w.DrivingImpactScore,
	}
}

// Traffic is one hourly observation for a city.
type Traffic struct {
	ID                     int
	Date                   time.Time
	HourOfDay              int
	City                   string
	TrafficLevel           string
	CongestionDelayMinutes float64
	AverageSpeedKmh        float64
	IncidentCount          int
	RoadClosureCount       int
	WeatherImpact          string
	IsPeakHours            bool
}

var trafficColumns = []datagen.Column{
	datagen.Int("traffic_id"), datagen.Date("date"), datagen.Int("hour_of_day"),
	datagen.Text("city"), datagen.Text("traffic_level"), datagen.Float("congestion_delay_minutes"),
	datagen.Float("average_speed_kmh"), datagen.Int("incident_count"), datagen.Int("road_closure_count"),
	datagen.Text("weather_impact"), datagen.Bool("is_peak_hours"),
}

func (t Traffic) row() []any {
	return []any{
		t.ID, t.Date, t.HourOfDay, t.City, t.TrafficLevel, t.CongestionDelayMinutes,
		t.AverageSpeedKmh, t.IncidentCount, t.RoadClosureCount, t.WeatherImpact, t.IsPeakHours,
	}
}

// Maintenance is one historical service record for a vehicle.
type Maintenance struct {
	ID                        int
	VehicleID                 string
	Type                      string
	Date                      time.Time
	Mileage                   int
	CostUSD                   float64
	DurationHours             float64
	NextMaintenanceDueDate    time.Time
	NextMaintenanceDueMileage int
	Status                    string
	RiskScore                 int
	PartsReplaced             string
	ServiceProvider           string
	WarrantyCovered           bool
}

var maintenanceColumns = []datagen.Column{
	datagen.Int("maintenance_id"), datagen.Text("vehicle_id"), datagen.Text("maintenance_type"),
	datagen.Date("maintenance_date"), datagen.Int("maintenance_mileage"), datagen.Float("maintenance_cost_usd"),
	datagen.Float("maintenance_duration_hours"), datagen.Date("next_maintenance_due_date"),
	datagen.Int("next_maintenance_due_mileage"), datagen.Text("maintenance_status"),
	datagen.Int("risk_score"), datagen.Text("parts_replaced"), datagen.Text("service_provider"),
	datagen.Bool("warranty_covered"),
}

func (m Maintenance) row() []any {
	return []any{
		m.ID, m.VehicleID, m.Type, m.Date, m.Mileage, m.CostUSD, m.DurationHours,
		m.NextMaintenanceDueDate, m.NextMaintenanceDueMileage, m.Status, m.RiskScore,
		m.PartsReplaced, m.ServiceProvider, m.WarrantyCovered,
	}
}

// BuildWeatherDimension returns one row per (day, city) over the given days.
func (g *Generator) BuildWeatherDimension(days []time.Time) ([]Weather, error) {
	f := g.faker
	r := g.ref
	out := make([]Weather, 0, len(days)*len(r.Cities))
	id := 1

	for _, d := range days {
		season := r.Season(d)
		temp, ok := r.SeasonTemperature[season]
		if !ok {
			return nil, referentialErr("dim_weather", "no temperature range for season %q", season)
		}
		for _, c := range r.Cities {
			w := Weather{
				ID:           id,
				Date:         d,
				City:         c.Name,
				TemperatureC: datagen.Round(f.Float64(temp.Min, temp.Max), 1),
			}
			w.Condition = datagen.Choose(f, r.WeatherConditions)
			w.HumidityPercent = f.Int(30, 95)
			w.WindSpeedKmh = datagen.Round(f.Float64(0, 50), 1)
			if f.Chance(0.3) {
				w.PrecipitationMm = datagen.Round(f.Float64(0, 50), 1)
			}
			w.VisibilityKm = datagen.Round(f.Float64(5, 50), 1)
			w.WeatherSeverityScore = datagen.Round(f.Float64(1, 10), 1)
			w.DrivingImpactScore = datagen.Round(f.Float64(1, 10), 1)
			out = append(out, w)
			id++
		}
	}

	logging.TableGenerated("dim_weather", len(out))
	return out, nil
}

// BuildTrafficDimension returns one row per (hour, city) over the given days.
// Traffic level and congestion delay come from the configured pattern's band.
func (g *Generator) BuildTrafficDimension(days []time.Time) ([]Traffic, error) {
	f := g.faker
	r := g.ref
	ts := hours(days)
	out := make([]Traffic, 0, len(ts)*len(r.Cities))
	progress := datagen.NewProgressReporter("dim_traffic_conditions", "Generating data",
		int64(cap(out)), datagen.DefaultBatchConfig().ProgressInterval)
	id := 1

	for _, t := range ts {
		band := g.pattern.BandAt(t)
		for _, c := range r.Cities {
			tr := Traffic{
				ID:           id,
				Date:         datagen.Day(t),
				HourOfDay:    t.Hour(),
				City:         c.Name,
				TrafficLevel: datagen.ChooseWeighted(f, band.Levels, band.Weights),
				IsPeakHours:  band.Peak,
			}
			tr.CongestionDelayMinutes = datagen.Round(f.Float64(band.DelayMin, band.DelayMax), 1)
			tr.AverageSpeedKmh = datagen.Round(f.Float64(20, 80), 1)
			tr.IncidentCount = f.Int(0, 3)
			tr.RoadClosureCount = f.Int(0, 1)
			tr.WeatherImpact = datagen.Choose(f, []string{"None", "Light", "Moderate", "Heavy"})
			out = append(out, tr)
			id++
		}
		progress.Update(int64(len(r.Cities)))
	}

	logging.TableGenerated("dim_traffic_conditions", len(out))
	return out, nil
}

// BuildVehicleMaintenanceDimension returns 5-20 service records per vehicle,
// with cost bracketed by maintenance type.
func (g *Generator) BuildVehicleMaintenanceDimension(vehicles []Vehicle) ([]Maintenance, error) {
	if len(vehicles) == 0 {
		return nil, referentialErr("dim_vehicle_maintenance", "no vehicles")
	}

	f := g.faker
	r := g.ref
	var out []Maintenance
	id := 1

	for _, v := range vehicles {
		n := f.Int(5, 20)
		for i := 0; i < n; i++ {
			date := f.DateBetween(v.PurchaseDate, g.asOf)
			mtype := datagen.Choose(f, r.MaintenanceTypes)
			cost, ok := r.MaintenanceCost[mtype]
			if !ok {
				cost = Range{Min: 100, Max: 1000}
			}

			m := Maintenance{
				ID:        id,
				VehicleID: v.ID,
				Type:      mtype,
				Date:      date,
				CostUSD:   datagen.Round(f.Float64(cost.Min, cost.Max), 2),
			}
			m.Mileage = f.Int(50000, 500000)
			m.DurationHours = datagen.Round(f.Float64(1, 8), 1)
			m.NextMaintenanceDueDate = date.AddDate(0, 0, f.Int(30, 180))
			m.NextMaintenanceDueMileage = f.Int(50000, 500000)
			m.Status = datagen.Choose(f, []string{"Completed", "In Progress", "Scheduled"})
			m.RiskScore = f.Int(1, 10)

			parts := make([]string, f.Int(0, 3))
			for j := range parts {
				parts[j] = f.Word()
			}
			b, err := json.Marshal(parts)
			if err != nil {
				return nil, fmt.Errorf("failed to encode parts for maintenance %d: %w", id, err)
			}
			m.PartsReplaced = string(b)
			m.ServiceProvider = f.Company()
			m.WarrantyCovered = f.Bool()

			out = append(out, m)
			id++
		}
	}

	logging.TableGenerated("dim_vehicle_maintenance", len(out))
	return out, nil
}
