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
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"metro-commute", "UTC", false},
		{"metro-commute", "", false},
		{"freight-corridor", "Australia/Sydney", false},
		{"freight-corridor", "Local", false},
		{"unknown", "UTC", true},
		{"metro-commute", "Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_"+tt.timezone, func(t *testing.T) {
			p, err := Get(tt.name, tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && p.Name() != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, p.Name())
			}
		})
	}
}

func TestList(t *testing.T) {
	names := List()
	if len(names) < 2 {
		t.Fatalf("Expected at least 2 patterns, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List() not sorted: %v", names)
		}
	}
	for _, n := range names {
		p, err := Get(n, "UTC")
		if err != nil {
			t.Errorf("Get(%s) failed: %v", n, err)
			continue
		}
		if p.Description() == "" {
			t.Errorf("Pattern %s has no description", n)
		}
	}
}

func TestMetroCommuteBands(t *testing.T) {
	p := NewMetroCommute(time.UTC)

	// 2023-01-02 is a Monday, 2023-01-07 a Saturday.
	tests := []struct {
		when time.Time
		want string
		peak bool
	}{
		{time.Date(2023, 1, 2, 7, 0, 0, 0, time.UTC), "peak", true},
		{time.Date(2023, 1, 2, 9, 59, 0, 0, time.UTC), "peak", true},
		{time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), "midday", false},
		{time.Date(2023, 1, 2, 16, 0, 0, 0, time.UTC), "midday", false},
		{time.Date(2023, 1, 2, 17, 0, 0, 0, time.UTC), "peak", true},
		{time.Date(2023, 1, 2, 19, 0, 0, 0, time.UTC), "peak", true},
		{time.Date(2023, 1, 2, 20, 0, 0, 0, time.UTC), "off-peak", false},
		{time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC), "off-peak", false},
		{time.Date(2023, 1, 7, 8, 0, 0, 0, time.UTC), "off-peak", false},
	}

	for _, tt := range tests {
		b := p.BandAt(tt.when)
		if b.Name != tt.want {
			t.Errorf("BandAt(%s) = %s, want %s", tt.when.Format(time.RFC3339), b.Name, tt.want)
		}
		if b.Peak != tt.peak {
			t.Errorf("BandAt(%s).Peak = %v, want %v", tt.when.Format(time.RFC3339), b.Peak, tt.peak)
		}
	}

	peak := p.BandAt(time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC))
	if peak.DelayMin != 15 || peak.DelayMax != 45 {
		t.Errorf("Unexpected peak delay range [%v, %v]", peak.DelayMin, peak.DelayMax)
	}
	if peak.Levels[0] != "Heavy" || peak.Weights[0] != 70 {
		t.Errorf("Unexpected peak levels %v weights %v", peak.Levels, peak.Weights)
	}
}

func TestDailyVolume(t *testing.T) {
	monday := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)

	metro := NewMetroCommute(time.UTC)
	if v := metro.DailyVolume(monday); v.Min != 50 || v.Max != 200 {
		t.Errorf("Weekday volume = %+v, want 50-200", v)
	}
	if v := metro.DailyVolume(sunday); v.Min != 20 || v.Max != 80 {
		t.Errorf("Weekend volume = %+v, want 20-80", v)
	}

	freight := NewFreightCorridor(time.UTC)
	if v := freight.DailyVolume(sunday); v.Min > v.Max {
		t.Errorf("Invalid volume range %+v", v)
	}
}

func TestBandWeightsMatchLevels(t *testing.T) {
	for _, name := range List() {
		p, _ := Get(name, "UTC")
		start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
		for h := 0; h < 24*7; h++ {
			b := p.BandAt(start.Add(time.Duration(h) * time.Hour))
			if len(b.Levels) != len(b.Weights) || len(b.Levels) == 0 {
				t.Fatalf("%s: band %s has %d levels and %d weights",
					name, b.Name, len(b.Levels), len(b.Weights))
			}
			if b.DelayMin > b.DelayMax {
				t.Errorf("%s: band %s has inverted delay range", name, b.Name)
			}
		}
	}
}

func TestTimezoneShift(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skip("timezone database not available")
	}
	p := NewMetroCommute(sydney)

	// 21:00 UTC Sunday is 08:00 Monday in Sydney (AEDT, UTC+11).
	when := time.Date(2023, 1, 1, 21, 0, 0, 0, time.UTC)
	if b := p.BandAt(when); b.Name != "peak" {
		t.Errorf("Expected peak in Sydney local time, got %s", b.Name)
	}
}

func BenchmarkBandAt(b *testing.B) {
	p := NewMetroCommute(time.UTC)
	now := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.BandAt(now)
	}
}
