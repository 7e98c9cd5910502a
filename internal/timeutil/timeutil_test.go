package timeutil

import (
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"Zero", 0, "00:00:00.00"},
		{"One second", 1, "00:00:01.00"},
		{"One minute", 60, "00:01:00.00"},
		{"One hour", 3600, "01:00:00.00"},
		{"Complex time", 3661, "01:01:01.00"},
		{"Large time", 86400, "24:00:00.00"},
		{"Fractional seconds", 30.53, "00:00:30.53"},
		{"Sub-second", 0.5, "00:00:00.50"},
		{"Carry into minute", 59.999, "00:01:00.00"},
		{"Hour with fraction", 3661.123, "01:01:01.12"},
		{"Negative clamps", -4, "00:00:00.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatSeconds(tt.seconds)
			if result != tt.expected {
				t.Errorf("FormatSeconds(%.3f) = %s; want %s", tt.seconds, result, tt.expected)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input       string
		expected    float64
		expectError bool
	}{
		{"00:00:01.00", 1, false},
		{"01:01:01.50", 3661.5, false},
		{" 00:02:00 ", 120, false},
		{"00:00", 0, true},
		{"aa:bb:cc", 0, true},
		{"-01:00:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseClock(%q) = %f; want %f", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseClock_RoundTrip(t *testing.T) {
	for _, s := range []float64{0, 1.5, 90.75, 3661.12} {
		got, err := ParseClock(FormatSeconds(s))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := got - s; diff > 0.005 || diff < -0.005 {
			t.Errorf("Round trip of %f gave %f", s, got)
		}
	}
}

func TestParseETA(t *testing.T) {
	got, err := ParseETA("00h01m02s")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 62*time.Second {
		t.Errorf("Expected 1m2s, got %v", got)
	}

	got, err = ParseETA("02h00m00s")
	if err != nil || got != 2*time.Hour {
		t.Errorf("Expected 2h, got %v (%v)", got, err)
	}

	if _, err := ParseETA("soon"); err == nil {
		t.Error("Expected error for malformed ETA")
	}
}
