//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package patterns implements temporal traffic and demand patterns used to
// condition generated traffic records and daily shipment volumes.
package patterns

import (
	"fmt"
	"sort"
	"time"
)

// Band describes the traffic distribution for one time bucket.
type Band struct {
	// Name identifies the bucket (e.g. "peak", "midday", "off-peak").
	Name string

	// Levels and Weights form a weighted categorical over traffic levels.
	Levels  []string
	Weights []int

	// DelayMin and DelayMax bound the congestion delay in minutes.
	DelayMin float64
	DelayMax float64

	// Peak marks commuter peak buckets.
	Peak bool
}

// Volume is an inclusive range of daily shipment counts.
type Volume struct {
	Min int
	Max int
}

// Pattern defines the interface for temporal patterns.
type Pattern interface {
	// Name returns the pattern name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// BandAt returns the traffic band in effect at t.
	BandAt(t time.Time) Band

	// DailyVolume returns the shipment count range for the given day.
	DailyVolume(day time.Time) Volume
}

var registry = make(map[string]func(tz *time.Location) Pattern)

// Register adds a pattern constructor to the registry.
func Register(name string, constructor func(tz *time.Location) Pattern) {
	registry[name] = constructor
}

// Get retrieves a pattern by name with the specified timezone.
func Get(name, timezone string) (Pattern, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown traffic pattern: %s", name)
	}

	var loc *time.Location
	var err error

	switch timezone {
	case "", "UTC":
		loc = time.UTC
	case "Local":
		loc = time.Local
	default:
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
	}

	return constructor(loc), nil
}

// List returns all registered pattern names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func init() {
	Register("metro-commute", NewMetroCommute)
	Register("freight-corridor", NewFreightCorridor)
}
