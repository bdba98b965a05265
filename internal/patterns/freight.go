//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package patterns

import (
	"time"
)

// FreightCorridor models an interstate corridor that runs around the clock.
// Night line-haul (22:00-04:59): Moderate/Heavy (60/40), 5-20 min delay
// Weekday daytime (07:00-18:59): Moderate/Heavy/Severe (40/40/20), 10-30 min delay
// Everything else: Light/Moderate (70/30), 0-8 min delay
// Shipments: 80-220 per weekday, 40-120 per weekend day
type FreightCorridor struct {
	tz *time.Location
}

var (
	corridorNight = Band{
		Name:     "line-haul",
		Levels:   []string{"Moderate", "Heavy"},
		Weights:  []int{60, 40},
		DelayMin: 5,
		DelayMax: 20,
	}
	corridorDay = Band{
		Name:     "daytime",
		Levels:   []string{"Moderate", "Heavy", "Severe"},
		Weights:  []int{40, 40, 20},
		DelayMin: 10,
		DelayMax: 30,
		Peak:     true,
	}
	corridorQuiet = Band{
		Name:     "quiet",
		Levels:   []string{"Light", "Moderate"},
		Weights:  []int{70, 30},
		DelayMin: 0,
		DelayMax: 8,
	}
)

// NewFreightCorridor creates a new FreightCorridor pattern.
func NewFreightCorridor(tz *time.Location) Pattern {
	return &FreightCorridor{tz: tz}
}

func (p *FreightCorridor) Name() string {
	return "freight-corridor"
}

func (p *FreightCorridor) Description() string {
	return "Freight corridor (24/7 line-haul with daytime congestion)"
}

func (p *FreightCorridor) BandAt(t time.Time) Band {
	t = t.In(p.tz)
	hour := t.Hour()

	if hour >= 22 || hour < 5 {
		return corridorNight
	}
	if !isWeekend(t.Weekday()) && hour >= 7 && hour < 19 {
		return corridorDay
	}
	return corridorQuiet
}

func (p *FreightCorridor) DailyVolume(day time.Time) Volume {
	if isWeekend(day.In(p.tz).Weekday()) {
		return Volume{Min: 40, Max: 120}
	}
	return Volume{Min: 80, Max: 220}
}
