// Package ffprobe obtains media durations using the ffprobe command-line tool.
package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"leafmerge/command"
	"leafmerge/command/probe"
	"leafmerge/models"
)

// Prober queries media durations through a command.Runner.
//
// It implements models.DurationProber.
type Prober struct {
	runner command.Runner
	binary string
}

// NewProber creates a prober that runs binary (e.g. "ffprobe") via runner.
func NewProber(runner command.Runner, binary string) *Prober {
	return &Prober{runner: runner, binary: binary}
}

// Duration returns the duration of the media file at path, in seconds.
//
// The function runs ffprobe restricted to the container duration and
// parses its single line of output.
//
// Parameters:
//   - ctx: cancels the ffprobe process
//   - path: Path to the media file to analyze
//
// Returns:
//   - float64: Duration in seconds
//   - error: *models.ProbeError if ffprobe fails or prints something
//     other than a non-negative number
//
// Example:
//
//	p := ffprobe.NewProber(command.NewExecRunner(false), "ffprobe")
//	seconds, err := p.Duration(ctx, "/videos/day1/clip1.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Duration: %.2f seconds\n", seconds)
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if path == "" {
		return 0, &models.ProbeError{Path: path, Err: fmt.Errorf("source path cannot be empty")}
	}

	cmd := probe.NewDurationBuilder(path).SetBinary(p.binary)
	output, err := p.runner.Output(ctx, "probe "+path, cmd)
	if err != nil {
		probeErr := &models.ProbeError{Path: path, Err: err}
		var toolErr *models.ToolExecutionError
		if errors.As(err, &toolErr) {
			probeErr.Diagnostics = toolErr.Diagnostics
		}
		return 0, probeErr
	}

	seconds, err := ParseDuration(string(output))
	if err != nil {
		return 0, &models.ProbeError{Path: path, Output: strings.TrimSpace(string(output)), Err: err}
	}
	return seconds, nil
}

// ParseDuration parses the output of a duration-only ffprobe query.
//
// The first non-empty line must be a finite, non-negative number.
// ffprobe prints "N/A" for streams without a known duration.
func ParseDuration(output string) (float64, error) {
	var line string
	for _, l := range strings.Split(output, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if line == "" {
		return 0, fmt.Errorf("duration not available: empty output")
	}
	if line == "N/A" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	seconds, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", line, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid duration '%s'", line)
	}

	return seconds, nil
}
