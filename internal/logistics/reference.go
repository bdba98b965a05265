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
	"time"
)

// City is a fixed geography entry used to place locations.
type City struct {
	Name  string
	State string
	Lat   float64
	Lng   float64
}

// Range is an inclusive float range.
type Range struct {
	Min float64
	Max float64
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int
	Max int
}

// MonthDay identifies a fixed-date holiday.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// Reference holds the static vocabularies that parameterize generation.
// Slices are ordered because every categorical draw indexes into them;
// maps are only ever used for lookups.
type Reference struct {
	Cities []City

	WeatherConditions []string
	TrafficLevels     []string
	RouteTypes        []string

	VehicleTypes    []string
	VehicleCapacity map[string]IntRange
	VehicleMakes    []string
	FuelTypes       []string

	MaintenanceTypes []string
	MaintenanceCost  map[string]Range

	// SeasonTemperature maps a season name to its temperature range in °C.
	SeasonTemperature map[string]Range
	// MonthSeason is indexed by time.Month-1.
	MonthSeason [12]string
	Holidays    []MonthDay

	CustomerTypes   []string
	VolumeSegments  []string
	VolumeWeights   []int
	Industries      []string
	IndustryCodes   map[string]string
	DeliveryWindows []string
	ServiceLevels   []string
	CreditRatings   []string
	PaymentTerms    []string

	ShipmentStatusCodes map[string]string
	VehicleStatusCodes  map[bool]string

	TelemetryBounds Bounds
}

// DefaultReference returns the Australian reference data set.
func DefaultReference() *Reference {
	return &Reference{
		Cities: []City{
			{Name: "Sydney", State: "NSW", Lat: -33.8688, Lng: 151.2093},
			{Name: "Melbourne", State: "VIC", Lat: -37.8136, Lng: 144.9631},
			{Name: "Brisbane", State: "QLD", Lat: -27.4698, Lng: 153.0251},
			{Name: "Perth", State: "WA", Lat: -31.9505, Lng: 115.8605},
			{Name: "Adelaide", State: "SA", Lat: -34.9285, Lng: 138.6007},
			{Name: "Gold Coast", State: "QLD", Lat: -28.0167, Lng: 153.4000},
			{Name: "Newcastle", State: "NSW", Lat: -32.9283, Lng: 151.7817},
			{Name: "Canberra", State: "ACT", Lat: -35.2809, Lng: 149.1300},
			{Name: "Sunshine Coast", State: "QLD", Lat: -26.6500, Lng: 153.0667},
			{Name: "Wollongong", State: "NSW", Lat: -34.4278, Lng: 150.8931},
		},

		WeatherConditions: []string{"Clear", "Partly Cloudy", "Cloudy", "Light Rain", "Heavy Rain", "Storm", "Fog"},
		TrafficLevels:     []string{"Light", "Moderate", "Heavy", "Severe"},
		RouteTypes:        []string{"Urban", "Suburban", "Highway", "Rural", "Mixed"},

		VehicleTypes: []string{"Van", "Small Truck", "Medium Truck", "Large Truck", "Semi-Trailer"},
		VehicleCapacity: map[string]IntRange{
			"Van":          {1000, 3000},
			"Small Truck":  {3000, 8000},
			"Medium Truck": {8000, 15000},
			"Large Truck":  {15000, 25000},
			"Semi-Trailer": {25000, 40000},
		},
		VehicleMakes: []string{"Isuzu", "Mercedes", "Volvo", "MAN", "Scania", "Ford", "Iveco"},
		FuelTypes:    []string{"Diesel", "Petrol", "Electric", "Hybrid"},

		MaintenanceTypes: []string{
			"Routine Service", "Oil Change", "Brake Service",
			"Tire Replacement", "Engine Repair", "Transmission Service",
			"Electrical Repair", "Body Work", "Preventive Maintenance",
		},
		MaintenanceCost: map[string]Range{
			"Routine Service":        {200, 800},
			"Oil Change":             {50, 150},
			"Brake Service":          {300, 1200},
			"Tire Replacement":       {400, 2000},
			"Engine Repair":          {1000, 8000},
			"Transmission Service":   {1500, 5000},
			"Electrical Repair":      {200, 1500},
			"Body Work":              {500, 3000},
			"Preventive Maintenance": {100, 500},
		},

		SeasonTemperature: map[string]Range{
			"Summer": {20, 40},
			"Autumn": {15, 30},
			"Winter": {5, 20},
			"Spring": {10, 25},
		},
		MonthSeason: [12]string{
			"Summer", "Summer", "Autumn", "Autumn", "Autumn", "Winter",
			"Winter", "Winter", "Spring", "Spring", "Spring", "Summer",
		},
		Holidays: []MonthDay{
			{time.January, 1},   // New Year's Day
			{time.January, 26},  // Australia Day
			{time.April, 25},    // ANZAC Day
			{time.December, 25}, // Christmas Day
			{time.December, 26}, // Boxing Day
		},

		CustomerTypes:  []string{"Enterprise", "SME", "Individual"},
		VolumeSegments: []string{"High Volume", "Medium Volume", "Low Volume"},
		VolumeWeights:  []int{10, 30, 60},
		Industries:     []string{"Retail", "Manufacturing", "Healthcare", "Technology", "Food & Beverage", "Automotive"},
		IndustryCodes: map[string]string{
			"Retail":          "RETAIL",
			"Manufacturing":   "MFG",
			"Healthcare":      "HEALTH",
			"Technology":      "TECH",
			"Food & Beverage": "F&B",
			"Automotive":      "AUTO",
		},
		DeliveryWindows: []string{"Morning", "Afternoon", "Evening", "Any"},
		ServiceLevels:   []string{"Standard", "Express", "Premium"},
		CreditRatings:   []string{"Excellent", "Good", "Fair", "Poor"},
		PaymentTerms:    []string{"Net 30", "Net 15", "COD", "Prepaid"},

		ShipmentStatusCodes: map[string]string{
			"Delivered":  "DELIVERED",
			"In Transit": "IN_TRANSIT",
			"Delayed":    "DELAYED",
			"Failed":     "FAILED",
			"Pending":    "PENDING",
			"Cancelled":  "CANCELLED",
		},
		VehicleStatusCodes: map[bool]string{
			true:  "ACTIVE",
			false: "MAINTENANCE",
		},

		TelemetryBounds: Bounds{LatMin: -45, LatMax: -10, LngMin: 110, LngMax: 160},
	}
}

// WithCities returns a copy of the reference limited to the first n cities.
// n <= 0 or n >= len(Cities) keeps every city.
func (r *Reference) WithCities(n int) *Reference {
	out := *r
	if n > 0 && n < len(r.Cities) {
		out.Cities = append([]City(nil), r.Cities[:n]...)
	}
	return &out
}

// Season returns the season name for the given day.
func (r *Reference) Season(t time.Time) string {
	return r.MonthSeason[t.Month()-1]
}

// IsHoliday reports whether t falls on a fixed holiday.
func (r *Reference) IsHoliday(t time.Time) bool {
	for _, h := range r.Holidays {
		if t.Month() == h.Month && t.Day() == h.Day {
			return true
		}
	}
	return false
}

// LogisticsDayType classifies a day for operations planning.
func (r *Reference) LogisticsDayType(t time.Time) string {
	switch {
	case r.IsHoliday(t):
		return "Holiday"
	case isWeekend(t):
		return "Weekend"
	case t.Weekday() == time.Friday:
		return "Friday"
	case t.Weekday() == time.Monday:
		return "Monday"
	default:
		return "Weekday"
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
