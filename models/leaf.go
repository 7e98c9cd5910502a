package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// OutputExtension is appended to the leaf name to form the artifact name.
	OutputExtension = ".mp4"

	// CompressedSuffix marks the transcoded artifact until it is finalized.
	CompressedSuffix = "(cp)"

	// ArchiveDirSuffix names the per-leaf directory that collects originals.
	ArchiveDirSuffix = " split files"
)

// LeafDirectory is a directory with no subdirectories together with the
// media files selected from it, in concatenation order.
//
// Use NewLeafDirectory to create a validated instance.
type LeafDirectory struct {
	Path  string       `yaml:"path"`
	Name  string       `yaml:"name"`
	Files []*MediaFile `yaml:"files"`
}

// NewLeafDirectory creates a LeafDirectory rooted at an absolute path.
//
// Returns an error if path is empty or relative.
func NewLeafDirectory(path string, files []*MediaFile) (*LeafDirectory, error) {
	l := &LeafDirectory{
		Path:  filepath.Clean(path),
		Name:  filepath.Base(path),
		Files: files,
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid leaf directory: %w", err)
	}
	return l, nil
}

// Validate checks that the leaf has an absolute path and well-formed files.
func (l *LeafDirectory) Validate() error {
	if strings.TrimSpace(l.Path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(l.Path) {
		return fmt.Errorf("path must be absolute: %s", l.Path)
	}
	for i, f := range l.Files {
		if f == nil {
			return fmt.Errorf("file %d is nil", i)
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("file %d: %w", i, err)
		}
	}
	return nil
}

// OutputPath is where the concatenated artifact is written: <leaf>/<name>.mp4.
func (l *LeafDirectory) OutputPath() string {
	return filepath.Join(l.Path, l.Name+OutputExtension)
}

// CompressedPath is where the transcoded artifact is written before it is
// finalized: <leaf>/<name>(cp).mp4.
func (l *LeafDirectory) CompressedPath() string {
	return filepath.Join(l.Path, l.Name+CompressedSuffix+OutputExtension)
}

// ArchiveDirName is the name of the per-leaf directory holding relocated originals.
func (l *LeafDirectory) ArchiveDirName() string {
	return l.Name + ArchiveDirSuffix
}

// TotalDuration sums the probed durations of the leaf's files.
//
// Returns an error if any file has not been probed yet.
func (l *LeafDirectory) TotalDuration() (float64, error) {
	total := 0.0
	for _, f := range l.Files {
		d, ok := f.Duration()
		if !ok {
			return 0, fmt.Errorf("duration of %s has not been probed", f.Path)
		}
		total += d
	}
	return total, nil
}

// HasInput reports whether path is one of the leaf's selected files.
// Names are compared case-insensitively so the check also holds on
// case-insensitive filesystems.
func (l *LeafDirectory) HasInput(path string) bool {
	path = filepath.Clean(path)
	for _, f := range l.Files {
		if strings.EqualFold(filepath.Clean(f.Path), path) {
			return true
		}
	}
	return false
}
