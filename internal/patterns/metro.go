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

// MetroCommute models city traffic driven by commuters.
// Weekday 07:00-09:59 and 17:00-19:59: Heavy/Severe (70/30), 15-45 min delay
// Weekday 10:00-16:59: Light/Moderate (60/40), 0-10 min delay
// Everything else: Light/Moderate (80/20), 0-5 min delay
// Shipments: 50-200 per weekday, 20-80 per weekend day
type MetroCommute struct {
	tz *time.Location
}

var (
	metroPeak = Band{
		Name:     "peak",
		Levels:   []string{"Heavy", "Severe"},
		Weights:  []int{70, 30},
		DelayMin: 15,
		DelayMax: 45,
		Peak:     true,
	}
	metroMidday = Band{
		Name:     "midday",
		Levels:   []string{"Light", "Moderate"},
		Weights:  []int{60, 40},
		DelayMin: 0,
		DelayMax: 10,
	}
	metroOffPeak = Band{
		Name:     "off-peak",
		Levels:   []string{"Light", "Moderate"},
		Weights:  []int{80, 20},
		DelayMin: 0,
		DelayMax: 5,
	}
)

// NewMetroCommute creates a new MetroCommute pattern.
func NewMetroCommute(tz *time.Location) Pattern {
	return &MetroCommute{tz: tz}
}

func (p *MetroCommute) Name() string {
	return "metro-commute"
}

func (p *MetroCommute) Description() string {
	return "Metro commuter peaks (weekday 7-9AM and 5-7PM)"
}

func (p *MetroCommute) BandAt(t time.Time) Band {
	t = t.In(p.tz)
	hour := t.Hour()

	if isWeekend(t.Weekday()) {
		return metroOffPeak
	}

	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return metroPeak
	case hour >= 10 && hour <= 16:
		return metroMidday
	default:
		return metroOffPeak
	}
}

func (p *MetroCommute) DailyVolume(day time.Time) Volume {
	if isWeekend(day.In(p.tz).Weekday()) {
		return Volume{Min: 20, Max: 80}
	}
	return Volume{Min: 50, Max: 200}
}
