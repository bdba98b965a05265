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
	"strings"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
)

// Unit conversion factors for the imperial raw-source feeds.
const (
	kgToLb          = 2.20462
	m3ToFt3         = 35.3147
	kgToFt3Estimate = 0.0353147
	lPer100kmToMPG  = 235.214
	kmhToMph        = 0.621371
)

func celsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// audit draws the created/updated/loaded timestamps that every raw-source
// row carries, in that order.
func (g *Generator) audit(createdYears, createdDays int) (created, updated, loaded time.Time) {
	f := g.faker
	created = f.TimeBetween(g.since(createdYears, 0, createdDays), g.asOf)
	updated = f.TimeBetween(g.since(1, 0, 0), g.asOf)
	loaded = f.TimeBetween(g.since(0, 0, 1), g.asOf)
	return
}

var rawCustomerColumns = []datagen.Column{
	datagen.Int("customer_id"), datagen.Text("customer_name"), datagen.Text("customer_type"),
	datagen.Text("industry_code"), datagen.Float("credit_limit"), datagen.Text("payment_terms"),
	datagen.Date("customer_since"), datagen.Text("status"), datagen.Text("billing_address"),
	datagen.Text("shipping_address"), datagen.Text("contact_email"), datagen.Text("contact_phone"),
	datagen.Text("account_manager"), datagen.Timestamp("created_at"), datagen.Timestamp("updated_at"),
	datagen.Timestamp("_loaded_at"),
}

// ProjectRawCustomers reshapes customers into the source-system layout.
func (g *Generator) ProjectRawCustomers(customers []Customer) *datagen.Table {
	f := g.faker
	t := datagen.NewTable("raw_azure_customers", rawCustomerColumns)
	for _, c := range customers {
		city := datagen.Choose(f, g.ref.Cities)
		credit := datagen.Round(c.TotalLifetimeValue*f.Float64(0.5, 2.0), 2)
		billing := f.Address(city.Name, city.State)
		shipping := f.Address(city.Name, city.State)
		email := f.Email()
		phone := f.Phone()
		manager := f.Name()
		created, updated, loaded := g.audit(3, 0)
		t.Append(
			c.ID, c.Name, c.Type, g.ref.IndustryCodes[c.Industry], credit, c.PaymentTerms,
			c.SignupDate, "ACTIVE", billing, shipping, email, phone, manager,
			created, updated, loaded,
		)
	}
	return t
}

var rawVehicleColumns = []datagen.Column{
	datagen.Text("vehicle_id"), datagen.Text("vehicle_number"), datagen.Text("vehicle_type"),
	datagen.Text("make"), datagen.Text("model"), datagen.Int("model_year"), datagen.Float("capacity_lbs"),
	datagen.Float("capacity_cubic_feet"), datagen.Text("fuel_type"), datagen.Float("fuel_efficiency_mpg"),
	datagen.Int("maintenance_interval_miles"), datagen.Float("current_mileage"),
	datagen.Date("last_maintenance_date"), datagen.Date("next_maintenance_date"),
	datagen.Text("vehicle_status"), datagen.Text("assigned_driver_id"), datagen.Date("insurance_expiry"),
	datagen.Date("registration_expiry"), datagen.Date("purchase_date"), datagen.Float("purchase_price"),
	datagen.Float("current_value"), datagen.Timestamp("created_at"), datagen.Timestamp("updated_at"),
	datagen.Timestamp("_loaded_at"),
}

// ProjectRawVehicles reshapes vehicles into imperial units.
func (g *Generator) ProjectRawVehicles(vehicles []Vehicle) *datagen.Table {
	f := g.faker
	t := datagen.NewTable("raw_azure_vehicles", rawVehicleColumns)
	nextYear := g.today().AddDate(1, 0, 0)
	for _, v := range vehicles {
		interval := f.Int(10000, 50000)
		driver := f.Name()
		insurance := f.DateBetween(g.today(), nextYear)
		registration := f.DateBetween(g.today(), nextYear)
		price := datagen.Round(f.Float64(20000, 150000), 2)
		value := datagen.Round(f.Float64(10000, 100000), 2)
		created, updated, loaded := g.audit(5, 0)
		t.Append(
			v.ID, v.ID, v.Type, v.Make, v.Model, v.Year,
			datagen.Round(float64(v.CapacityKg)*kgToLb, 2),
			datagen.Round(float64(v.CapacityKg)*kgToFt3Estimate, 2),
			v.FuelType,
			datagen.Round(lPer100kmToMPG/v.FuelEfficiency, 2),
			interval,
			datagen.Round(float64(v.OdometerKm)*kmToMiles, 1),
			v.LastServiceDate, v.NextServiceDue, g.ref.VehicleStatusCodes[v.IsActive],
			driver, insurance, registration, v.PurchaseDate, price, value,
			created, updated, loaded,
		)
	}
	return t
}

var rawShipmentColumns = []datagen.Column{
	datagen.Int("shipment_id"), datagen.Int("customer_id"), datagen.Text("vehicle_id"),
	datagen.Text("driver_id"), datagen.Int("origin_location_id"), datagen.Int("destination_location_id"),
	datagen.Date("pickup_date"), datagen.Date("delivery_date"), datagen.Date("requested_delivery_date"),
	datagen.Date("actual_delivery_date"), datagen.Text("shipment_status"), datagen.Float("weight_lbs"),
	datagen.Float("volume_cubic_feet"), datagen.Float("shipment_value"), datagen.Float("fuel_cost"),
	datagen.Float("driver_cost"), datagen.Float("total_cost"), datagen.Float("revenue"),
	datagen.Float("distance_miles"), datagen.Float("delivery_time_hours"), datagen.Bool("on_time_delivery"),
	datagen.Text("weather_conditions"), datagen.Text("traffic_conditions"),
	datagen.Text("special_instructions"), datagen.Timestamp("created_at"), datagen.Timestamp("updated_at"),
	datagen.Timestamp("_loaded_at"),
}

// ProjectRawShipments reshapes shipments into imperial units and upper-case
// status codes.
func (g *Generator) ProjectRawShipments(ctx context.Context, shipments []Shipment) (*datagen.Table, error) {
	f := g.faker
	t := datagen.NewTable("raw_azure_shipments", rawShipmentColumns)
	t.Rows = make([][]any, 0, len(shipments))
	for i, s := range shipments {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		driver := f.Name()
		weather := datagen.Choose(f, []string{"Clear", "Rain", "Snow", "Fog"})
		traffic := datagen.Choose(f, []string{"Light", "Moderate", "Heavy"})
		var instructions any
		if f.Chance(0.3) {
			instructions = f.Sentence(8)
		}
		created, updated, loaded := g.audit(2, 0)

		var hrs any
		if s.ActualDurationMinutes != nil {
			hrs = datagen.Round(*s.ActualDurationMinutes/60, 2)
		}
		t.Append(
			s.ID, s.CustomerID, s.VehicleID, driver, s.OriginLocationID, s.DestinationLocationID,
			s.ShipmentDate, nullTime(s.ActualDeliveryDate), s.PlannedDeliveryDate,
			nullTime(s.ActualDeliveryDate), g.ref.ShipmentStatusCodes[s.DeliveryStatus],
			datagen.Round(s.WeightKg*kgToLb, 2), datagen.Round(s.VolumeM3*m3ToFt3, 2),
			s.Revenue, s.FuelCost, s.DeliveryCost, s.TotalCost, s.Revenue,
			datagen.Round(s.DistanceKm*kmToMiles, 2), hrs, s.IsOnTime,
			weather, traffic, instructions, created, updated, loaded,
		)
	}
	return t, nil
}

var rawMaintenanceColumns = []datagen.Column{
	datagen.Int("maintenance_id"), datagen.Text("vehicle_id"), datagen.Text("maintenance_type"),
	datagen.Date("maintenance_date"), datagen.Int("odometer_reading"), datagen.Text("description"),
	datagen.Float("parts_cost"), datagen.Float("labor_cost"), datagen.Float("total_cost"),
	datagen.Text("maintenance_provider"), datagen.Date("next_maintenance_due_date"),
	datagen.Int("next_maintenance_due_mileage"), datagen.Text("maintenance_status"),
	datagen.Timestamp("created_at"), datagen.Timestamp("updated_at"), datagen.Timestamp("_loaded_at"),
}

// ProjectRawMaintenance reshapes maintenance records. Parts and labor
// always sum to the total cost.
func (g *Generator) ProjectRawMaintenance(records []Maintenance) *datagen.Table {
	f := g.faker
	t := datagen.NewTable("raw_azure_maintenance", rawMaintenanceColumns)
	for _, m := range records {
		description := f.Sentence(6)
		parts := datagen.Round(m.CostUSD*f.Float64(0.3, 0.7), 2)
		labor := datagen.Round(m.CostUSD-parts, 2)
		created, updated, loaded := g.audit(2, 0)
		t.Append(
			m.ID, m.VehicleID, m.Type, m.Date, m.Mileage, description, parts, labor, m.CostUSD,
			m.ServiceProvider, m.NextMaintenanceDueDate, m.NextMaintenanceDueMileage, "COMPLETED",
			created, updated, loaded,
		)
	}
	return t
}

var rawTelematicsColumns = []datagen.Column{
	datagen.Int("telemetry_id"), datagen.Text("vehicle_id"), datagen.Timestamp("timestamp"),
	datagen.Float("latitude"), datagen.Float("longitude"), datagen.Float("speed_mph"),
	datagen.Int("heading_degrees"), datagen.Int("engine_rpm"), datagen.Int("fuel_level_pct"),
	datagen.Float("engine_temperature_f"), datagen.Float("battery_voltage"), datagen.Float("odometer_miles"),
	datagen.Float("acceleration_g"), datagen.Float("brake_force"), datagen.Float("steering_angle"),
	datagen.Int("gps_accuracy_meters"), datagen.Int("signal_strength"), datagen.Timestamp("created_at"),
	datagen.Timestamp("_loaded_at"),
}

// ProjectRawTelematics emits the device feed for telematics-enabled
// vehicles over the given days, in imperial units.
func (g *Generator) ProjectRawTelematics(days []time.Time, vehicles []Vehicle) *datagen.Table {
	f := g.faker
	b := g.ref.TelemetryBounds
	ts := hours(days)
	t := datagen.NewTable("raw_telematics_data", rawTelematicsColumns)
	feedStart := days[0]
	id := 1

	for _, v := range vehicles {
		if !v.TelematicsEnabled {
			continue
		}
		stride := f.Int(1, 4)
		for i := 0; i < len(ts); i += stride {
			lat := datagen.Round(f.Float64(b.LatMin, b.LatMax), 6)
			lng := datagen.Round(f.Float64(b.LngMin, b.LngMax), 6)
			speed := datagen.Round(f.Float64(0, 110)*kmhToMph, 1)
			heading := f.Int(0, 360)
			rpm := f.Int(800, 4000)
			fuel := f.Int(10, 100)
			temp := datagen.Round(celsiusToFahrenheit(f.Float64(82, 104)), 1)
			battery := datagen.Round(f.Float64(12.0, 14.5), 1)
			accel := datagen.Round(f.Float64(-0.5, 0.5), 2)
			brake := datagen.Round(f.Float64(0, 100), 1)
			steering := datagen.Round(f.Float64(-180, 180), 1)
			accuracy := f.Int(1, 10)
			signal := f.Int(1, 5)
			created := f.TimeBetween(feedStart, g.asOf)
			loaded := f.TimeBetween(g.since(0, 0, 1), g.asOf)
			t.Append(
				id, v.ID, ts[i], lat, lng, speed, heading, rpm, fuel, temp, battery,
				datagen.Round(float64(v.OdometerKm)*kmToMiles, 1),
				accel, brake, steering, accuracy, signal, created, loaded,
			)
			id++
		}
	}
	return t
}

var rawTrafficColumns = []datagen.Column{
	datagen.Int("traffic_id"), datagen.Int("location_id"), datagen.Date("date"), datagen.Int("hour"),
	datagen.Text("traffic_level"), datagen.Float("congestion_delay_minutes"),
	datagen.Float("average_speed_mph"), datagen.Float("free_flow_speed_mph"),
	datagen.Float("travel_time_minutes"), datagen.Float("free_flow_travel_time_minutes"),
	datagen.Float("confidence_score"), datagen.Text("road_type"), datagen.Int("incident_count"),
	datagen.Text("weather_impact"), datagen.Timestamp("created_at"), datagen.Timestamp("_loaded_at"),
}

// ProjectRawTraffic emits the hourly third-party traffic feed per city,
// keyed by the city's depot.
func (g *Generator) ProjectRawTraffic(days []time.Time, depots map[string]int) *datagen.Table {
	f := g.faker
	t := datagen.NewTable("raw_traffic_data", rawTrafficColumns)
	feedStart := days[0]
	id := 1

	for _, ts := range hours(days) {
		band := g.pattern.BandAt(ts)
		for _, c := range g.ref.Cities {
			level := upperSnake(datagen.ChooseWeighted(f, band.Levels, band.Weights))
			delay := datagen.Round(f.Float64(band.DelayMin, band.DelayMax), 1)
			speed := datagen.Round(f.Float64(20, 80), 1)
			freeFlow := datagen.Round(f.Float64(50, 70), 1)
			travel := datagen.Round(f.Float64(10, 60), 1)
			freeTravel := datagen.Round(f.Float64(5, 20), 1)
			confidence := datagen.Round(f.Float64(0.7, 1.0), 2)
			road := datagen.Choose(f, []string{"HIGHWAY", "ARTERIAL", "LOCAL"})
			incidents := f.Int(0, 3)
			impact := datagen.Choose(f, []string{"NONE", "LIGHT", "MODERATE", "HEAVY"})
			created := f.TimeBetween(feedStart, g.asOf)
			loaded := f.TimeBetween(g.since(0, 0, 1), g.asOf)
			t.Append(
				id, depots[c.Name], datagen.Day(ts), ts.Hour(), level, delay, speed, freeFlow,
				travel, freeTravel, confidence, road, incidents, impact, created, loaded,
			)
			id++
		}
	}
	return t
}

var rawWeatherColumns = []datagen.Column{
	datagen.Int("weather_id"), datagen.Int("location_id"), datagen.Date("date"), datagen.Int("hour"),
	datagen.Float("temperature_f"), datagen.Float("temperature_c"), datagen.Int("humidity_pct"),
	datagen.Float("wind_speed_mph"), datagen.Int("wind_direction_degrees"), datagen.Float("precipitation_mm"),
	datagen.Float("visibility_miles"), datagen.Text("weather_condition"), datagen.Text("weather_description"),
	datagen.Float("pressure_inhg"), datagen.Int("uv_index"), datagen.Text("sunrise_time"),
	datagen.Text("sunset_time"), datagen.Timestamp("created_at"), datagen.Timestamp("_loaded_at"),
}

var (
	rawWeatherConditions = []string{
		"CLEAR", "PARTLY_CLOUDY", "CLOUDY", "LIGHT_RAIN", "RAIN", "HEAVY_RAIN", "STORM", "FOG",
	}
	rawWeatherDescriptions = []string{
		"Clear skies", "Partly cloudy", "Overcast", "Light rain", "Heavy rain", "Thunderstorm", "Foggy",
	}
)

// ProjectRawWeather emits the hourly third-party weather feed per city,
// keyed by the city's depot.
func (g *Generator) ProjectRawWeather(days []time.Time, depots map[string]int) (*datagen.Table, error) {
	f := g.faker
	t := datagen.NewTable("raw_weather_data", rawWeatherColumns)
	feedStart := days[0]
	id := 1

	for _, ts := range hours(days) {
		season := g.ref.Season(ts)
		temp, ok := g.ref.SeasonTemperature[season]
		if !ok {
			return nil, referentialErr("raw_weather_data", "no temperature range for season %q", season)
		}
		for _, c := range g.ref.Cities {
			celsius := f.Float64(temp.Min, temp.Max)
			humidity := f.Int(30, 95)
			wind := datagen.Round(f.Float64(0, 30), 1)
			direction := f.Int(0, 360)
			var precipitation float64
			if f.Chance(0.3) {
				precipitation = datagen.Round(f.Float64(0, 50), 1)
			}
			visibility := datagen.Round(f.Float64(5, 50), 1)
			condition := datagen.Choose(f, rawWeatherConditions)
			description := datagen.Choose(f, rawWeatherDescriptions)
			pressure := datagen.Round(f.Float64(29.5, 30.5), 2)
			uv := f.Int(0, 11)
			created := f.TimeBetween(feedStart, g.asOf)
			loaded := f.TimeBetween(g.since(0, 0, 1), g.asOf)
			t.Append(
				id, depots[c.Name], datagen.Day(ts), ts.Hour(),
				datagen.Round(celsiusToFahrenheit(celsius), 1), datagen.Round(celsius, 1),
				humidity, wind, direction, precipitation, visibility, condition, description,
				pressure, uv, "06:00:00", "18:00:00", created, loaded,
			)
			id++
		}
	}
	return t, nil
}

// depotsByCity maps each city name to its depot location id.
func depotsByCity(locations []Location) map[string]int {
	out := make(map[string]int)
	for _, l := range locations {
		if l.Type == LocationDepot {
			out[l.City] = l.ID
		}
	}
	return out
}

func upperSnake(s string) string {
	return strings.ReplaceAll(strings.ToUpper(s), " ", "_")
}
