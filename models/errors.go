package models

import (
	"fmt"
	"strings"
)

// maxDiagnosticLines bounds how much captured tool output an error message carries.
const maxDiagnosticLines = 20

// ToolExecutionError reports an external tool that exited unsuccessfully.
//
// Op is the caller's context message (e.g. "concatenate /videos/day1").
// Diagnostics holds the captured stderr of the tool, verbatim.
type ToolExecutionError struct {
	Op          string
	Program     string
	Args        []string
	ExitCode    int
	Diagnostics string
	Err         error
}

func (e *ToolExecutionError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with code %d", e.Op, e.Program, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %s failed: %v", e.Op, e.Program, e.Err)
	}
	if d := tailLines(e.Diagnostics, maxDiagnosticLines); d != "" {
		msg += "\n" + d
	}
	return msg
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// CommandLine returns the program and arguments joined for display.
func (e *ToolExecutionError) CommandLine() string {
	return strings.TrimSpace(e.Program + " " + strings.Join(e.Args, " "))
}

// ProbeError reports a duration probe that failed or produced unusable output.
type ProbeError struct {
	Path        string
	Output      string
	Diagnostics string
	Err         error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("probe %s: %v", e.Path, e.Err)
	if e.Output != "" {
		msg += fmt.Sprintf(" (output: %q)", e.Output)
	}
	if d := tailLines(e.Diagnostics, maxDiagnosticLines); d != "" {
		msg += "\n" + d
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ArtifactMissingError reports that a step did not produce its output file.
type ArtifactMissingError struct {
	Op   string
	Path string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("%s: artifact missing: %s", e.Op, e.Path)
}

// ArtifactEmptyError reports that a step produced a zero-byte output file.
type ArtifactEmptyError struct {
	Op   string
	Path string
}

func (e *ArtifactEmptyError) Error() string {
	return fmt.Sprintf("%s: artifact is empty: %s", e.Op, e.Path)
}

// DurationMismatchError reports an artifact whose duration differs from the
// expected value by more than the tolerance.
type DurationMismatchError struct {
	Op        string
	Path      string
	Expected  float64
	Observed  float64
	Tolerance float64
}

func (e *DurationMismatchError) Error() string {
	return fmt.Sprintf("%s: duration mismatch for %s: expected %.3fs, got %.3fs (tolerance %.1fs)",
		e.Op, e.Path, e.Expected, e.Observed, e.Tolerance)
}

// FilesystemError reports a failed move, delete, rename or directory read.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func tailLines(s string, n int) string {
	s = strings.TrimRight(s, "\r\n ")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
