package models

import (
	"fmt"
	"strings"
)

// Stage is a state in the per-leaf pipeline.
type Stage string

const (
	StageDiscover       Stage = "discover"
	StageSelect         Stage = "select"
	StageSkip           Stage = "skip"
	StagePlan           Stage = "plan"
	StageConcatenate    Stage = "concatenate"
	StageVerifyConcat   Stage = "verify-concat"
	StageArchive        Stage = "archive"
	StageCompress       Stage = "compress"
	StageVerifyCompress Stage = "verify-compress"
	StageFinalize       Stage = "finalize"
	StageDone           Stage = "done"
)

// LeafStatus is the terminal outcome of a leaf.
type LeafStatus string

const (
	LeafDone    LeafStatus = "done"
	LeafSkipped LeafStatus = "skipped"
	LeafFailed  LeafStatus = "failed"
)

// LeafResult represents the outcome of processing a single leaf directory.
//
// It enforces logical consistency: done results must have an output path
// and no error, failed results must have an error, and skipped results
// have neither.
//
// Use NewLeafResultDone, NewLeafResultSkipped or NewLeafResultFailure to
// create validated instances.
type LeafResult struct {
	Leaf             string     `yaml:"leaf"`
	Status           LeafStatus `yaml:"status"`
	Stage            Stage      `yaml:"stage"`
	OutputPath       string     `yaml:"output,omitempty"`
	Files            int        `yaml:"files"`
	ExpectedDuration float64    `yaml:"expected_duration,omitempty"`
	ObservedDuration float64    `yaml:"observed_duration,omitempty"`
	Compressed       bool       `yaml:"compressed,omitempty"`
	Error            error      `yaml:"-"`
}

// NewLeafResultDone creates a successful LeafResult with validation.
//
// Returns an error if outputPath is empty or whitespace-only.
//
// Example:
//
//	result, err := models.NewLeafResultDone("/videos/day1", "/videos/day1/day1.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewLeafResultDone(leaf, outputPath string) (*LeafResult, error) {
	r := &LeafResult{
		Leaf:       leaf,
		Status:     LeafDone,
		Stage:      StageDone,
		OutputPath: outputPath,
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid leaf result: %w", err)
	}
	return r, nil
}

// NewLeafResultSkipped creates a result for a leaf with no eligible files.
func NewLeafResultSkipped(leaf string) *LeafResult {
	return &LeafResult{
		Leaf:   leaf,
		Status: LeafSkipped,
		Stage:  StageSkip,
	}
}

// NewLeafResultFailure creates a failed LeafResult recording the stage that failed.
//
// The error parameter must not be nil.
func NewLeafResultFailure(leaf string, stage Stage, leafErr error) (*LeafResult, error) {
	if leafErr == nil {
		return nil, fmt.Errorf("invalid leaf result: error cannot be nil for failed result")
	}
	return &LeafResult{
		Leaf:   leaf,
		Status: LeafFailed,
		Stage:  stage,
		Error:  leafErr,
	}, nil
}

// Validate checks if the LeafResult has consistent state.
//
// Returns an error if:
//   - a done result has an error or no output path
//   - a failed result has no error
//   - a skipped result has an error or an output path
func (r *LeafResult) Validate() error {
	if strings.TrimSpace(r.Leaf) == "" {
		return fmt.Errorf("leaf cannot be empty")
	}

	switch r.Status {
	case LeafDone:
		if r.Error != nil {
			return fmt.Errorf("inconsistent state: done result has an error")
		}
		if strings.TrimSpace(r.OutputPath) == "" {
			return fmt.Errorf("output path cannot be empty for done result")
		}
	case LeafFailed:
		if r.Error == nil {
			return fmt.Errorf("failed result must have an error")
		}
	case LeafSkipped:
		if r.Error != nil || r.OutputPath != "" {
			return fmt.Errorf("skipped result cannot have an error or output path")
		}
	default:
		return fmt.Errorf("unknown status %q", r.Status)
	}

	return nil
}

// ErrorText returns the error message, or "" for results without an error.
func (r *LeafResult) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Error()
}
