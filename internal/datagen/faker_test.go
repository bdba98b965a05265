//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestSeededFakeDataIsReproducible(t *testing.T) {
	f1 := NewFakerWithSeed(42)
	f2 := NewFakerWithSeed(42)

	for i := 0; i < 20; i++ {
		if a, b := f1.Company(), f2.Company(); a != b {
			t.Fatalf("Company differs at draw %d: %q != %q", i, a, b)
		}
		if a, b := f1.Email(), f2.Email(); a != b {
			t.Fatalf("Email differs at draw %d: %q != %q", i, a, b)
		}
		if a, b := f1.Float64(0, 1), f2.Float64(0, 1); a != b {
			t.Fatalf("Float64 differs at draw %d: %f != %f", i, a, b)
		}
	}
}

func TestFakerStrings(t *testing.T) {
	f := NewFakerWithSeed(1)
	tests := []struct {
		name string
		fn   func() string
	}{
		{"Name", f.Name},
		{"Email", f.Email},
		{"Phone", f.Phone},
		{"Zip", f.Zip},
		{"Company", f.Company},
		{"Word", f.Word},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fn() == "" {
				t.Errorf("%s returned empty string", tt.name)
			}
		})
	}
}

func TestFakerAddress(t *testing.T) {
	f := NewFakerWithSeed(1)
	addr := f.Address("Sydney", "NSW")
	if addr == "" {
		t.Fatal("Address returned empty string")
	}
	if !containsString(addr, "Sydney NSW") {
		t.Errorf("Address should contain city and state, got: %s", addr)
	}
}

func TestFakerSentence(t *testing.T) {
	f := NewFakerWithSeed(1)
	s := f.Sentence(5)
	if s == "" {
		t.Error("Sentence returned empty string")
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d not in range [5, 10]", v)
		}
	}
}

func TestFakerIntDegenerateRange(t *testing.T) {
	f := NewFakerWithSeed(1)
	if v := f.Int(7, 7); v != 7 {
		t.Errorf("Int(7, 7) expected 7, got %d", v)
	}
	if v := f.Int(9, 3); v != 9 {
		t.Errorf("Int(9, 3) expected min 9, got %d", v)
	}
}

func TestFakerInt64(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Int64(1000, 2000)
		if v < 1000 || v > 2000 {
			t.Errorf("Int64 %d not in range [1000, 2000]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Float64(1.5, 3.5)
		if v < 1.5 || v > 3.5 {
			t.Errorf("Float64 %f not in range [1.5, 3.5]", v)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 50; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !f.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}

	hits := 0
	for i := 0; i < 2000; i++ {
		if f.Chance(0.9) {
			hits++
		}
	}
	if hits < 1700 || hits > 1950 {
		t.Errorf("Chance(0.9) hit %d/2000 times", hits)
	}
}

func TestFakerBool(t *testing.T) {
	f := NewFakerWithSeed(1)
	trueCount := 0
	falseCount := 0

	for i := 0; i < 100; i++ {
		if f.Bool() {
			trueCount++
		} else {
			falseCount++
		}
	}

	// Should have a mix of true and false
	if trueCount == 0 || falseCount == 0 {
		t.Error("Bool should produce both true and false values")
	}
}

func TestFakerDateBetween(t *testing.T) {
	f := NewFakerWithSeed(1)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := f.DateBetween(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("DateBetween %v not in range [%v, %v]", d, start, end)
		}
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Errorf("DateBetween should return midnight, got %v", d)
		}
	}

	if d := f.DateBetween(end, start); !d.Equal(end) {
		t.Errorf("DateBetween with reversed bounds should return start, got %v", d)
	}
}

func TestFakerTimeBetween(t *testing.T) {
	f := NewFakerWithSeed(1)
	end := time.Date(2025, 9, 19, 23, 59, 59, 0, time.UTC)
	start := end.Add(-time.Hour)

	for i := 0; i < 100; i++ {
		ts := f.TimeBetween(start, end)
		if ts.Before(start) || ts.After(end) {
			t.Errorf("TimeBetween %v not in range [%v, %v]", ts, start, end)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		found := false
		for _, item := range items {
			if item == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in slice: %s", chosen)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFakerWithSeed(1)
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c"}
	weights := []int{1, 2, 7} // c should be chosen ~70% of the time

	counts := make(map[string]int)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		chosen := ChooseWeighted(f, items, weights)
		counts[chosen]++
	}

	// c should be most common
	if counts["c"] < counts["a"] || counts["c"] < counts["b"] {
		t.Errorf("Weighted choice distribution unexpected: %v", counts)
	}
}

func TestChooseWeightedEmpty(t *testing.T) {
	f := NewFakerWithSeed(1)
	var items []string
	var weights []int

	chosen := ChooseWeighted(f, items, weights)
	if chosen != "" {
		t.Errorf("ChooseWeighted on empty slices should return zero value, got: %s", chosen)
	}
}

func TestSample(t *testing.T) {
	f := NewFakerWithSeed(99)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	for i := 0; i < 50; i++ {
		n := f.Int(3, 8)
		picked := Sample(f, items, n)
		if len(picked) != n {
			t.Fatalf("Sample returned %d items, expected %d", len(picked), n)
		}
		seen := make(map[int]bool)
		for _, p := range picked {
			if seen[p] {
				t.Fatalf("Sample returned duplicate %d in %v", p, picked)
			}
			seen[p] = true
		}
	}

	// Source slice must not be reordered
	for i, v := range items {
		if v != i+1 {
			t.Fatalf("Sample modified its input: %v", items)
		}
	}
}

func TestSampleMoreThanAvailable(t *testing.T) {
	f := NewFakerWithSeed(1)
	picked := Sample(f, []string{"x", "y"}, 5)
	if len(picked) != 2 {
		t.Errorf("Sample should cap at input length, got %d", len(picked))
	}
}

func containsString(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{3.14159, 2, 3.14},
		{2.675, 1, 2.7},
		{-1.25, 1, -1.3},
		{100, 0, 100},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(120, 0, 100); v != 100 {
		t.Errorf("Clamp high expected 100, got %v", v)
	}
	if v := Clamp(-5, 0, 100); v != 0 {
		t.Errorf("Clamp low expected 0, got %v", v)
	}
	if v := Clamp(42.5, 0, 100); v != 42.5 {
		t.Errorf("Clamp inside expected 42.5, got %v", v)
	}
}

func TestTruncate(t *testing.T) {
	// Test truncation
	s1 := Truncate("hello world", 5)
	if s1 != "hello" {
		t.Errorf("Truncate should truncate to 5, got: %s", s1)
	}

	// Test no truncation needed
	s2 := Truncate("hi", 10)
	if s2 != "hi" {
		t.Errorf("Truncate should not modify shorter string, got: %s", s2)
	}
}

// Benchmarks
func BenchmarkFakerInt(b *testing.B) {
	f := NewFakerWithSeed(1)
	for i := 0; i < b.N; i++ {
		f.Int(0, 1000)
	}
}

func BenchmarkChoose(b *testing.B) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < b.N; i++ {
		Choose(f, items)
	}
}

func BenchmarkChooseWeighted(b *testing.B) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c", "d", "e"}
	weights := []int{1, 2, 3, 4, 5}
	for i := 0; i < b.N; i++ {
		ChooseWeighted(f, items, weights)
	}
}
