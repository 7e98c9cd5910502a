// Package timeutil converts between seconds and the clock formats printed
// and parsed by ffmpeg and HandBrakeCLI.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatSeconds converts seconds to HH:MM:SS.MS format.
//
// The value is rounded to hundredths before it is split, so 59.999
// becomes "00:01:00.00" rather than "00:00:60.00".
//
// Example:
//
//	FormatSeconds(0)      // "00:00:00.00"
//	FormatSeconds(90)     // "00:01:30.00"
//	FormatSeconds(30.53)  // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	centis := int64(math.Round(seconds * 100))
	hours := centis / 360000
	minutes := (centis % 360000) / 6000
	secs := float64(centis%6000) / 100
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// ParseClock converts an ffmpeg HH:MM:SS[.frac] timestamp to seconds.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM:SS", s)
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid clock %q: negative field", s)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// ParseETA converts a HandBrakeCLI ETA such as "00h01m02s" to a duration.
func ParseETA(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%dh%dm%ds", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid ETA %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
