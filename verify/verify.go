// Package verify checks the artifacts produced by the pipeline steps.
package verify

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"

	"leafmerge/models"
)

// Tolerance is the largest accepted difference, in seconds, between an
// artifact's duration and the expected duration.
const Tolerance = 1.0

// Verifier checks existence, size and duration of produced artifacts.
type Verifier struct {
	prober models.DurationProber
}

// NewVerifier creates a verifier that probes durations with prober.
func NewVerifier(prober models.DurationProber) *Verifier {
	return &Verifier{prober: prober}
}

// Artifact checks that path exists and is non-empty.
//
// Returns *models.ArtifactMissingError or *models.ArtifactEmptyError naming op.
func (v *Verifier) Artifact(op, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &models.ArtifactMissingError{Op: op, Path: path}
		}
		return &models.FilesystemError{Op: op, Path: path, Err: err}
	}
	if info.IsDir() {
		return &models.ArtifactMissingError{Op: op, Path: path}
	}
	if info.Size() == 0 {
		return &models.ArtifactEmptyError{Op: op, Path: path}
	}
	return nil
}

// Duration probes path and compares it with expected.
//
// The observed duration is returned even when it is out of tolerance so
// callers can report it.
func (v *Verifier) Duration(ctx context.Context, op, path string, expected float64) (float64, error) {
	observed, err := v.prober.Duration(ctx, path)
	if err != nil {
		return 0, err
	}
	if !WithinTolerance(expected, observed) {
		return observed, &models.DurationMismatchError{
			Op:        op,
			Path:      path,
			Expected:  expected,
			Observed:  observed,
			Tolerance: Tolerance,
		}
	}
	return observed, nil
}

// WithinTolerance reports whether observed is within Tolerance of expected.
func WithinTolerance(expected, observed float64) bool {
	return math.Abs(observed-expected) <= Tolerance
}
