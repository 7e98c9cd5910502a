// Package models provides core data structures for the leafmerge pipeline.
package models

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DurationProber reports the playback duration of a media file in seconds.
//
// ffprobe.Prober is the production implementation; tests substitute fakes.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// MediaFile is one eligible input segment inside a leaf directory.
//
// Path and Size are fixed at discovery. The duration is probed lazily on
// first use and cached, so a file is never probed twice within a run.
//
// Use NewMediaFile to create a validated MediaFile instance.
type MediaFile struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size_bytes"`

	duration float64
	probed   bool
}

// NewMediaFile creates a new MediaFile with validation.
//
// Returns an error if the file parameters are invalid:
//   - Path cannot be empty or whitespace-only
//   - Size cannot be negative
//
// Example:
//
//	f, err := models.NewMediaFile("/videos/day1/clip1.mp4", 1048576)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewMediaFile(path string, size int64) (*MediaFile, error) {
	f := &MediaFile{Path: path, Size: size}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid media file: %w", err)
	}
	return f, nil
}

// Validate checks if the MediaFile has valid data.
func (f *MediaFile) Validate() error {
	if strings.TrimSpace(f.Path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if f.Size < 0 {
		return fmt.Errorf("size cannot be negative")
	}
	return nil
}

// Name returns the base name of the file.
func (f *MediaFile) Name() string {
	return filepath.Base(f.Path)
}

// ProbeDuration returns the file's duration, probing it on the first call.
func (f *MediaFile) ProbeDuration(ctx context.Context, prober DurationProber) (float64, error) {
	if f.probed {
		return f.duration, nil
	}
	d, err := prober.Duration(ctx, f.Path)
	if err != nil {
		return 0, err
	}
	f.duration = d
	f.probed = true
	return d, nil
}

// Duration returns the cached duration and whether it has been probed yet.
func (f *MediaFile) Duration() (float64, bool) {
	return f.duration, f.probed
}
