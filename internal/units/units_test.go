package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("expected %q to be valid", u)
		}
	}
	for _, u := range []string{"", "knots", "MPS", "km/h"} {
		if IsValid(u) {
			t.Errorf("expected %q to be invalid", u)
		}
	}
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		unit  string
		want  float64
	}{
		{"mps passthrough", 3.0, MPS, 3.0},
		{"unknown unit passthrough", 3.0, "bogus", 3.0},
		{"kmh", 3.0, KMH, 10.8},
		{"mph", 10.0, MPH, 22.369362920544},
		{"pace per km", 3.3333333333, MinPerKm, 5.0},
		{"pace per mile", 1609.344 / 60.0, MinPerMi, 1.0},
		{"zero speed gives zero pace", 0, MinPerKm, 0},
		{"negative speed gives zero pace", -1, MinPerMi, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertSpeed(tc.speed, tc.unit)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("ConvertSpeed(%v, %q) = %v, want %v", tc.speed, tc.unit, got, tc.want)
			}
		})
	}
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{5.5, "5:30"},
		{4.999999, "5:00"},
		{0, "0:00"},
		{-2, "0:00"},
		{10.0166667, "10:01"},
	}
	for _, tc := range tests {
		if got := FormatPace(tc.minutes); got != tc.want {
			t.Errorf("FormatPace(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}
