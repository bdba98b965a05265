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
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// Location type names.
const (
	LocationDepot         = "Depot"
	LocationBranch        = "Branch"
	LocationDeliveryPoint = "Delivery Point"
)

// DateEntry is one calendar day.
type DateEntry struct {
	DateKey          int
	Date             time.Time
	Year             int
	Quarter          string
	Month            int
	MonthName        string
	WeekOfYear       int
	DayOfYear        int
	DayOfMonth       int
	DayOfWeek        int
	DayName          string
	IsWeekend        bool
	IsBusinessDay    bool
	IsHoliday        bool
	Season           string
	LogisticsDayType string
}

var dateColumns = []datagen.Column{
	datagen.Int("date_key"), datagen.Date("date"), datagen.Int("year"),
	datagen.Text("quarter"), datagen.Int("month"), datagen.Text("month_name"),
	datagen.Int("week_of_year"), datagen.Int("day_of_year"), datagen.Int("day_of_month"),
	datagen.Int("day_of_week"), datagen.Text("day_name"), datagen.Bool("is_weekend"),
	datagen.Bool("is_business_day"), datagen.Bool("is_holiday"), datagen.Text("season"),
	datagen.Text("logistics_day_type"),
}

func (d DateEntry) row() []any {
	return []any{
		d.DateKey, d.Date, d.Year, d.Quarter, d.Month, d.MonthName,
		d.WeekOfYear, d.DayOfYear, d.DayOfMonth, d.DayOfWeek, d.DayName,
		d.IsWeekend, d.IsBusinessDay, d.IsHoliday, d.Season, d.LogisticsDayType,
	}
}

// Location is a depot, branch or delivery point.
type Location struct {
	ID             int
	Name           string
	Type           string
	City           string
	State          string
	Postcode       string
	Lat            float64
	Lng            float64
	CapacityRating string
	OperatingHours string
	CreatedDate    time.Time
}

var locationColumns = []datagen.Column{
	datagen.Int("location_id"), datagen.Text("location_name"), datagen.Text("location_type"),
	datagen.Text("city"), datagen.Text("state"), datagen.Text("postcode"),
	datagen.Float("latitude"), datagen.Float("longitude"), datagen.Text("capacity_rating"),
	datagen.Text("operating_hours"), datagen.Date("created_date"),
}

func (l Location) row() []any {
	return []any{
		l.ID, l.Name, l.Type, l.City, l.State, l.Postcode, l.Lat, l.Lng,
		l.CapacityRating, l.OperatingHours, l.CreatedDate,
	}
}

// Customer is a shipping customer.
type Customer struct {
	ID                       int
	Name                     string
	Type                     string
	VolumeSegment            string
	Industry                 string
	PreferredDeliveryWindow  string
	ServiceLevel             string
	CreditRating             string
	PaymentTerms             string
	SignupDate               time.Time
	LastOrderDate            time.Time
	TotalLifetimeValue       float64
	AverageOrderValue        float64
	DeliveryFlexibilityScore float64
	SatisfactionScore        float64
}

var customerColumns = []datagen.Column{
	datagen.Int("customer_id"), datagen.Text("customer_name"), datagen.Text("customer_type"),
	datagen.Text("volume_segment"), datagen.Text("industry"), datagen.Text("preferred_delivery_window"),
	datagen.Text("service_level"), datagen.Text("credit_rating"), datagen.Text("payment_terms"),
	datagen.Date("signup_date"), datagen.Date("last_order_date"), datagen.Float("total_lifetime_value"),
	datagen.Float("average_order_value"), datagen.Float("delivery_flexibility_score"),
	datagen.Float("satisfaction_score"),
}

func (c Customer) row() []any {
	return []any{
		c.ID, c.Name, c.Type, c.VolumeSegment, c.Industry, c.PreferredDeliveryWindow,
		c.ServiceLevel, c.CreditRating, c.PaymentTerms, c.SignupDate, c.LastOrderDate,
		c.TotalLifetimeValue, c.AverageOrderValue, c.DeliveryFlexibilityScore, c.SatisfactionScore,
	}
}

// Vehicle is a fleet vehicle.
type Vehicle struct {
	ID                 string
	Type               string
	Make               string
	Model              string
	Year               int
	CapacityKg         int
	FuelType           string
	FuelEfficiency     float64 // L/100km
	PurchaseDate       time.Time
	LastServiceDate    time.Time
	NextServiceDue     time.Time
	OdometerKm         int
	ConditionScore     float64
	MaintenanceCostYTD float64
	IsActive           bool
	GPSEnabled         bool
	TelematicsEnabled  bool
}

var vehicleColumns = []datagen.Column{
	datagen.Text("vehicle_id"), datagen.Text("vehicle_type"), datagen.Text("make"),
	datagen.Text("model"), datagen.Int("year"), datagen.Int("capacity_kg"),
	datagen.Text("fuel_type"), datagen.Float("fuel_efficiency_l_100km"), datagen.Date("purchase_date"),
	datagen.Date("last_service_date"), datagen.Date("next_service_due"), datagen.Int("odometer_km"),
	datagen.Float("condition_score"), datagen.Float("maintenance_cost_ytd"), datagen.Bool("is_active"),
	datagen.Bool("gps_enabled"), datagen.Bool("telematics_enabled"),
}

func (v Vehicle) row() []any {
	return []any{
		v.ID, v.Type, v.Make, v.Model, v.Year, v.CapacityKg, v.FuelType, v.FuelEfficiency,
		v.PurchaseDate, v.LastServiceDate, v.NextServiceDue, v.OdometerKm, v.ConditionScore,
		v.MaintenanceCostYTD, v.IsActive, v.GPSEnabled, v.TelematicsEnabled,
	}
}

// Route is a depot-originated delivery run over a set of delivery points.
type Route struct {
	ID                       int
	Name                     string
	OriginLocationID         int
	OriginCity               string
	Type                     string
	TotalDistanceKm          float64
	EstimatedDurationMinutes float64
	NumberOfStops            int
	ComplexityScore          float64
	TrafficDensity           string
	RoadQuality              string
	WeatherRisk              string
	IsActive                 bool
	CreatedDate              time.Time
	MaxStopRadiusKm          float64

	// Stops holds the delivery point location ids in visiting order.
	Stops []int
}

var routeColumns = []datagen.Column{
	datagen.Int("route_id"), datagen.Text("route_name"), datagen.Int("origin_location_id"),
	datagen.Text("origin_city"), datagen.Text("route_type"), datagen.Float("total_distance_km"),
	datagen.Float("estimated_duration_minutes"), datagen.Int("number_of_stops"),
	datagen.Float("complexity_score"), datagen.Text("traffic_density"), datagen.Text("road_quality"),
	datagen.Text("weather_risk"), datagen.Bool("is_active"), datagen.Date("created_date"),
	datagen.Float("max_stop_radius_km"),
}

func (r Route) row() []any {
	return []any{
		r.ID, r.Name, r.OriginLocationID, r.OriginCity, r.Type, r.TotalDistanceKm,
		r.EstimatedDurationMinutes, r.NumberOfStops, r.ComplexityScore, r.TrafficDensity,
		r.RoadQuality, r.WeatherRisk, r.IsActive, r.CreatedDate, r.MaxStopRadiusKm,
	}
}

var routeStopColumns = []datagen.Column{
	datagen.Int("route_id"), datagen.Int("stop_sequence"), datagen.Int("location_id"),
}

func routeStopsTable(routes []Route) *datagen.Table {
	t := datagen.NewTable("dim_route_stops", routeStopColumns)
	for _, r := range routes {
		for i, loc := range r.Stops {
			t.Append(r.ID, i+1, loc)
		}
	}
	return t
}

// BuildDateDimension returns one entry per calendar day in [start, end].
// It draws nothing from the random source.
func (g *Generator) BuildDateDimension(start, end time.Time) ([]DateEntry, error) {
	start = datagen.Day(start)
	end = datagen.Day(end)
	if end.Before(start) {
		return nil, configErr("date dimension: end %s is before start %s",
			end.Format(datagen.DateLayout), start.Format(datagen.DateLayout))
	}

	var out []DateEntry
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		// Monday = 1 ... Sunday = 7
		dow := int(d.Weekday())
		if dow == 0 {
			dow = 7
		}
		weekend := isWeekend(d)
		out = append(out, DateEntry{
			DateKey:          dateKey(d),
			Date:             d,
			Year:             d.Year(),
			Quarter:          fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1),
			Month:            int(d.Month()),
			MonthName:        d.Month().String(),
			WeekOfYear:       week,
			DayOfYear:        d.YearDay(),
			DayOfMonth:       d.Day(),
			DayOfWeek:        dow,
			DayName:          d.Weekday().String(),
			IsWeekend:        weekend,
			IsBusinessDay:    !weekend,
			IsHoliday:        g.ref.IsHoliday(d),
			Season:           g.ref.Season(d),
			LogisticsDayType: g.ref.LogisticsDayType(d),
		})
	}

	logging.TableGenerated("dim_date", len(out))
	return out, nil
}

// BuildLocationDimension places one depot and 2-4 branches in every city,
// then scatters the configured number of delivery points across cities.
func (g *Generator) BuildLocationDimension() ([]Location, error) {
	if len(g.ref.Cities) == 0 {
		return nil, referentialErr("dim_location", "no cities in reference data")
	}

	f := g.faker
	var out []Location
	id := 1

	for _, c := range g.ref.Cities {
		opHours := "6AM-10PM"
		loc := Location{
			ID:             id,
			Name:           c.Name + " Main Depot",
			Type:           LocationDepot,
			City:           c.Name,
			State:          c.State,
			Postcode:       f.Zip(),
			Lat:            c.Lat,
			Lng:            c.Lng,
			CapacityRating: datagen.Choose(f, []string{"Small", "Medium", "Large"}),
		}
		if f.Chance(0.7) {
			opHours = "24/7"
		}
		loc.OperatingHours = opHours
		loc.CreatedDate = f.DateBetween(g.since(2, 0, 0), g.asOf)
		out = append(out, loc)
		id++

		branches := f.Int(2, 4)
		for i := 0; i < branches; i++ {
			out = append(out, Location{
				ID:             id,
				Name:           fmt.Sprintf("%s Branch %d", c.Name, i+1),
				Type:           LocationBranch,
				City:           c.Name,
				State:          c.State,
				Postcode:       f.Zip(),
				Lat:            datagen.Round(c.Lat+f.Float64(-0.1, 0.1), 6),
				Lng:            datagen.Round(c.Lng+f.Float64(-0.1, 0.1), 6),
				CapacityRating: datagen.Choose(f, []string{"Small", "Medium"}),
				OperatingHours: datagen.Choose(f, []string{"6AM-6PM", "7AM-7PM", "8AM-8PM"}),
				CreatedDate:    f.DateBetween(g.since(2, 0, 0), g.asOf),
			})
			id++
		}
	}

	for i := 0; i < g.params.DeliveryPoints; i++ {
		c := datagen.Choose(f, g.ref.Cities)
		out = append(out, Location{
			ID:             id,
			Name:           fmt.Sprintf("Delivery Point %d", id),
			Type:           LocationDeliveryPoint,
			City:           c.Name,
			State:          c.State,
			Postcode:       f.Zip(),
			Lat:            datagen.Round(c.Lat+f.Float64(-0.5, 0.5), 6),
			Lng:            datagen.Round(c.Lng+f.Float64(-0.5, 0.5), 6),
			CapacityRating: "Small",
			OperatingHours: datagen.Choose(f, []string{"9AM-5PM", "8AM-6PM", "24/7"}),
			CreatedDate:    f.DateBetween(g.since(1, 0, 0), g.asOf),
		})
		id++
	}

	logging.TableGenerated("dim_location", len(out))
	return out, nil
}

// BuildCustomerDimension returns n customers. Financial fields are sampled
// independently and are not reconciled against shipment revenue.
func (g *Generator) BuildCustomerDimension(n int) ([]Customer, error) {
	if n <= 0 {
		return nil, configErr("customer count must be positive, got %d", n)
	}

	f := g.faker
	r := g.ref
	out := make([]Customer, 0, n)

	for i := 0; i < n; i++ {
		signup := f.DateBetween(g.since(3, 0, 0), g.asOf)
		c := Customer{
			ID:            i + 1,
			Name:          f.Company(),
			VolumeSegment: datagen.ChooseWeighted(f, r.VolumeSegments, r.VolumeWeights),
			SignupDate:    signup,
		}
		c.Type = datagen.Choose(f, r.CustomerTypes)
		c.Industry = datagen.Choose(f, r.Industries)
		c.PreferredDeliveryWindow = datagen.Choose(f, r.DeliveryWindows)
		c.ServiceLevel = datagen.Choose(f, r.ServiceLevels)
		c.CreditRating = datagen.Choose(f, r.CreditRatings)
		c.PaymentTerms = datagen.Choose(f, r.PaymentTerms)
		c.LastOrderDate = f.DateBetween(signup, g.asOf)
		c.TotalLifetimeValue = datagen.Round(f.Float64(1000, 500000), 2)
		c.AverageOrderValue = datagen.Round(f.Float64(50, 5000), 2)
		c.DeliveryFlexibilityScore = datagen.Round(f.Float64(1, 10), 1)
		c.SatisfactionScore = datagen.Round(f.Float64(6, 10), 1)
		out = append(out, c)
	}

	logging.TableGenerated("dim_customer", len(out))
	return out, nil
}

// BuildVehicleDimension returns n vehicles with type-bracketed capacities.
func (g *Generator) BuildVehicleDimension(n int) ([]Vehicle, error) {
	if n <= 0 {
		return nil, configErr("vehicle count must be positive, got %d", n)
	}

	f := g.faker
	r := g.ref
	out := make([]Vehicle, 0, n)
	asOfYear := g.asOf.Year()

	for i := 0; i < n; i++ {
		vtype := datagen.Choose(f, r.VehicleTypes)
		year := f.Int(asOfYear-10, asOfYear-1)
		purchase := f.DateBetween(g.since(asOfYear-year, 0, 0), g.asOf)
		capRange, ok := r.VehicleCapacity[vtype]
		if !ok {
			return nil, referentialErr("dim_vehicle", "no capacity range for vehicle type %q", vtype)
		}

		v := Vehicle{
			ID:           fmt.Sprintf("VH%04d", i+1),
			Type:         vtype,
			Year:         year,
			PurchaseDate: purchase,
			CapacityKg:   f.Int(capRange.Min, capRange.Max),
		}
		v.Make = datagen.Choose(f, r.VehicleMakes)
		v.Model = fmt.Sprintf("Model %d", f.Int(100, 999))
		v.FuelType = datagen.Choose(f, r.FuelTypes)
		v.FuelEfficiency = datagen.Round(f.Float64(8, 25), 1)
		v.LastServiceDate = f.DateBetween(g.since(0, 0, 90), g.asOf)
		v.NextServiceDue = f.DateBetween(g.today(), g.today().AddDate(0, 0, 90))
		v.OdometerKm = f.Int(50000, 500000)
		v.ConditionScore = datagen.Round(f.Float64(6, 10), 1)
		v.MaintenanceCostYTD = datagen.Round(f.Float64(2000, 15000), 2)
		v.IsActive = f.Chance(0.95)
		v.GPSEnabled = true
		v.TelematicsEnabled = f.Chance(0.9)
		out = append(out, v)
	}

	logging.TableGenerated("dim_vehicle", len(out))
	return out, nil
}

// BuildRouteDimension creates 10-20 routes per depot over delivery points
// drawn without replacement.
func (g *Generator) BuildRouteDimension(locations []Location) ([]Route, error) {
	var depots, points []Location
	for _, l := range locations {
		switch l.Type {
		case LocationDepot:
			depots = append(depots, l)
		case LocationDeliveryPoint:
			points = append(points, l)
		}
	}
	if len(depots) == 0 {
		return nil, referentialErr("dim_route", "no depots in location dimension")
	}
	if len(points) < 3 {
		return nil, referentialErr("dim_route", "need at least 3 delivery points, have %d", len(points))
	}

	f := g.faker
	var out []Route
	id := 1

	for _, depot := range depots {
		n := f.Int(10, 20)
		for i := 0; i < n; i++ {
			stops := datagen.Sample(f, points, f.Int(3, 8))

			var distance, radius float64
			ids := make([]int, len(stops))
			for j, s := range stops {
				distance += f.Float64(5, 50)
				ids[j] = s.ID
				radius = max(radius, greatCircleKm(depot.Lat, depot.Lng, s.Lat, s.Lng))
			}
			duration := distance * f.Float64(1.2, 2.5)

			rt := Route{
				ID:                       id,
				Name:                     fmt.Sprintf("Route %s-%d", depot.City, id),
				OriginLocationID:         depot.ID,
				OriginCity:               depot.City,
				TotalDistanceKm:          datagen.Round(distance, 1),
				EstimatedDurationMinutes: datagen.Round(duration, 0),
				NumberOfStops:            len(stops),
				MaxStopRadiusKm:          datagen.Round(radius, 2),
				Stops:                    ids,
			}
			rt.Type = datagen.Choose(f, g.ref.RouteTypes)
			rt.ComplexityScore = datagen.Round(f.Float64(1, 10), 1)
			rt.TrafficDensity = datagen.Choose(f, []string{"Low", "Medium", "High"})
			rt.RoadQuality = datagen.Choose(f, []string{"Excellent", "Good", "Fair", "Poor"})
			rt.WeatherRisk = datagen.Choose(f, []string{"Low", "Medium", "High"})
			rt.IsActive = f.Chance(0.9)
			rt.CreatedDate = f.DateBetween(g.since(1, 0, 0), g.asOf)
			out = append(out, rt)
			id++
		}
	}

	logging.TableGenerated("dim_route", len(out))
	return out, nil
}
