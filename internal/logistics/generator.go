//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package logistics builds a deterministic, referentially valid logistics
// star schema: dimensions, facts, raw-source projections and real-time
// tables, all drawn from a single seeded Faker.
package logistics

import (
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/patterns"
)

// Windows sets the trailing number of days covered by time-series tables.
// A value <= 0 covers the whole date range.
type Windows struct {
	Shipment        int `yaml:"shipment"`
	Weather         int `yaml:"weather"`
	Traffic         int `yaml:"traffic"`
	Telemetry       int `yaml:"telemetry"`
	RouteConditions int `yaml:"route_conditions"`
	Utilization     int `yaml:"utilization"`
	RawTelematics   int `yaml:"raw_telematics"`
	RawFeeds        int `yaml:"raw_feeds"`
}

// DefaultWindows returns the standard window sizes.
func DefaultWindows() Windows {
	return Windows{
		Shipment:        0,
		Weather:         365,
		Traffic:         90,
		Telemetry:       90,
		RouteConditions: 30,
		Utilization:     90,
		RawTelematics:   7,
		RawFeeds:        30,
	}
}

// Params holds the generation parameters.
type Params struct {
	// Seed fixes every generated value. Zero is rejected.
	Seed uint64

	StartDate time.Time
	EndDate   time.Time

	Customers      int
	Vehicles       int
	DeliveryPoints int

	// Comprehensive adds traffic, maintenance, route conditions,
	// utilization, raw-source and real-time tables.
	Comprehensive bool

	// TrafficPattern names the pattern used for traffic bands and daily
	// shipment volumes.
	TrafficPattern string

	Windows Windows
}

// DefaultParams returns the standard parameters.
func DefaultParams() Params {
	return Params{
		Seed:           42,
		StartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC),
		Customers:      1000,
		Vehicles:       200,
		DeliveryPoints: 200,
		Comprehensive:  true,
		TrafficPattern: "metro-commute",
		Windows:        DefaultWindows(),
	}
}

// Validate checks the parameters before any generation happens.
func (p Params) Validate() error {
	if p.Seed == 0 {
		return configErr("seed must be non-zero")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return configErr("start and end dates are required")
	}
	if datagen.Day(p.EndDate).Before(datagen.Day(p.StartDate)) {
		return configErr("end date %s is before start date %s",
			p.EndDate.Format(datagen.DateLayout), p.StartDate.Format(datagen.DateLayout))
	}
	if p.Customers <= 0 {
		return configErr("customers must be positive, got %d", p.Customers)
	}
	if p.Vehicles <= 0 {
		return configErr("vehicles must be positive, got %d", p.Vehicles)
	}
	if p.DeliveryPoints < 0 {
		return configErr("delivery points must not be negative, got %d", p.DeliveryPoints)
	}
	if p.TrafficPattern == "" {
		return configErr("traffic pattern is required")
	}
	return nil
}

// Generator builds a dataset from a single seeded source. A Generator is
// not safe for concurrent use and should build exactly one dataset.
type Generator struct {
	params  Params
	ref     *Reference
	faker   *datagen.Faker
	pattern patterns.Pattern

	// asOf anchors every draw that is relative to "now".
	asOf time.Time
	days []time.Time
}

// NewGenerator validates the parameters and creates a Generator.
func NewGenerator(p Params, ref *Reference) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if ref == nil {
		ref = DefaultReference()
	}
	if len(ref.Cities) == 0 {
		return nil, configErr("reference data has no cities")
	}

	pattern, err := patterns.Get(p.TrafficPattern, "UTC")
	if err != nil {
		return nil, configErr("%v", err)
	}

	start := datagen.Day(p.StartDate)
	end := datagen.Day(p.EndDate)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	logging.Debug().
		Uint64("seed", p.Seed).
		Str("start", start.Format(datagen.DateLayout)).
		Str("end", end.Format(datagen.DateLayout)).
		Int("days", len(days)).
		Int("cities", len(ref.Cities)).
		Str("pattern", pattern.Name()).
		Msg("Generator initialized")

	return &Generator{
		params:  p,
		ref:     ref,
		faker:   datagen.NewFakerWithSeed(p.Seed),
		pattern: pattern,
		asOf:    end.Add(24*time.Hour - time.Second),
		days:    days,
	}, nil
}

// Params returns the generation parameters.
func (g *Generator) Params() Params {
	return g.params
}

// Reference returns the reference data in use.
func (g *Generator) Reference() *Reference {
	return g.ref
}

// AsOf returns the instant that stands in for "now" during generation.
func (g *Generator) AsOf() time.Time {
	return g.asOf
}

// trailing returns the last n days of the date range.
func (g *Generator) trailing(n int) []time.Time {
	if n <= 0 || n >= len(g.days) {
		return g.days
	}
	return g.days[len(g.days)-n:]
}

// hours expands days into hourly timestamps.
func hours(days []time.Time) []time.Time {
	out := make([]time.Time, 0, len(days)*24)
	for _, d := range days {
		for h := 0; h < 24; h++ {
			out = append(out, d.Add(time.Duration(h)*time.Hour))
		}
	}
	return out
}

// since returns asOf moved back by the given years, months and days.
func (g *Generator) since(years, months, days int) time.Time {
	return g.asOf.AddDate(-years, -months, -days)
}

func (g *Generator) today() time.Time {
	return datagen.Day(g.asOf)
}

// rowser is implemented by every generated record type.
type rowser interface {
	row() []any
}

func toTable[T rowser](name string, columns []datagen.Column, items []T) *datagen.Table {
	t := datagen.NewTable(name, columns)
	t.Rows = make([][]any, 0, len(items))
	for _, it := range items {
		t.Append(it.row()...)
	}
	return t
}

func dateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
