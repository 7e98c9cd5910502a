package models

import (
	"fmt"
	"time"
)

// EncodingProgress represents live metrics reported by a running transcode.
type EncodingProgress struct {
	Pass       int // Current HandBrake task (e.g. 1 of 2 for two-pass)
	TotalPass  int
	FPS        float64 // Instantaneous frames per second
	AverageFPS float64
	Speed      float64 // ffmpeg speed multiplier, when reported

	// Position within the input
	CurrentTime   string  // HH:MM:SS.MS, when the tool reports a timestamp
	TotalDuration float64 // Seconds, for percentage calculation
	Progress      float64 // Percentage complete (0-100)

	// ETA as reported by the tool; zero when not reported
	ReportedETA time.Duration

	State     ProgressState
	StartTime time.Time
	UpdatedAt time.Time
}

// ProgressState represents the current state of a transcode.
type ProgressState string

const (
	ProgressStateStarting  ProgressState = "starting"
	ProgressStateEncoding  ProgressState = "encoding"
	ProgressStateMuxing    ProgressState = "muxing"
	ProgressStateCompleted ProgressState = "completed"
	ProgressStateFailed    ProgressState = "failed"
)

// ProgressCallback receives progress updates while a command runs.
type ProgressCallback func(progress *EncodingProgress)

// NewEncodingProgress creates a new progress tracker.
func NewEncodingProgress(totalDuration float64) *EncodingProgress {
	now := time.Now()
	return &EncodingProgress{
		TotalDuration: totalDuration,
		State:         ProgressStateStarting,
		StartTime:     now,
		UpdatedAt:     now,
	}
}

// CalculateProgress updates the percentage from the current position in seconds.
func (ep *EncodingProgress) CalculateProgress(currentSeconds float64) {
	if ep.TotalDuration > 0 {
		ep.SetPercent(currentSeconds / ep.TotalDuration * 100)
	}
	ep.UpdatedAt = time.Now()
}

// SetPercent records a percentage reported directly by the tool, clamped to 0-100.
func (ep *EncodingProgress) SetPercent(pct float64) {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	ep.Progress = pct
	ep.UpdatedAt = time.Now()
}

// EstimatedTimeRemaining prefers the tool's own ETA and otherwise
// extrapolates from elapsed time and percentage.
func (ep *EncodingProgress) EstimatedTimeRemaining() time.Duration {
	if ep.ReportedETA > 0 {
		return ep.ReportedETA
	}
	if ep.Progress <= 0 {
		return 0
	}

	elapsed := ep.UpdatedAt.Sub(ep.StartTime)
	totalEstimated := time.Duration(float64(elapsed) / (ep.Progress / 100))
	remaining := totalEstimated - elapsed

	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatSummary returns a human-readable summary of the progress.
func (ep *EncodingProgress) FormatSummary() string {
	pass := ""
	if ep.TotalPass > 1 {
		pass = fmt.Sprintf("pass %d/%d | ", ep.Pass, ep.TotalPass)
	}
	return fmt.Sprintf("%s%.1f%% | %.1f fps | ETA: %s",
		pass, ep.Progress, ep.FPS, formatDuration(ep.EstimatedTimeRemaining()))
}

// formatDuration converts a duration to a human-readable string
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "calculating..."
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}
