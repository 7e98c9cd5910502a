// Package concat builds ffmpeg concat-demuxer invocations.
package concat

import (
	"leafmerge/command"
	"leafmerge/models"
)

// ConcatBuilder builds a stream-copy concatenation of the files listed in
// a manifest:
//
//	ffmpeg -hide_banner -nostdin -loglevel error -f concat -safe 0 -i <manifest> -c copy -y <output>
//
// With a progress callback, ffmpeg also writes key=value progress to
// stdout (-progress pipe:1) and the stderr status line is turned off.
type ConcatBuilder struct {
	binary       string
	manifestPath string
	outputPath   string
	logLevel     string

	progressCallback models.ProgressCallback
	expectedDuration float64
}

// NewConcatBuilder creates a builder for the given manifest and output.
func NewConcatBuilder(manifestPath, outputPath string) *ConcatBuilder {
	return &ConcatBuilder{
		binary:       "ffmpeg",
		manifestPath: manifestPath,
		outputPath:   outputPath,
		logLevel:     "error",
	}
}

// SetBinary overrides the ffmpeg executable.
func (b *ConcatBuilder) SetBinary(path string) *ConcatBuilder {
	if path != "" {
		b.binary = path
	}
	return b
}

// SetLogLevel sets ffmpeg's -loglevel (e.g. "error", "info"). An empty
// level omits the option.
func (b *ConcatBuilder) SetLogLevel(level string) *ConcatBuilder {
	b.logLevel = level
	return b
}

// SetProgressCallback sets a callback for progress parsed from stdout.
func (b *ConcatBuilder) SetProgressCallback(callback models.ProgressCallback) *ConcatBuilder {
	b.progressCallback = callback
	return b
}

// SetExpectedDuration records the summed input duration in seconds, for
// the percentage.
func (b *ConcatBuilder) SetExpectedDuration(seconds float64) *ConcatBuilder {
	b.expectedDuration = seconds
	return b
}

// Program returns the ffmpeg executable.
func (b *ConcatBuilder) Program() string { return b.binary }

// BuildArgs constructs the ffmpeg arguments for concatenation.
func (b *ConcatBuilder) BuildArgs() []string {
	args := []string{"-hide_banner", "-nostdin"}
	if b.logLevel != "" {
		args = append(args, "-loglevel", b.logLevel)
	}
	if b.progressCallback != nil {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	args = append(args,
		"-f", "concat",
		"-safe", "0", // manifest entries may be any path
		"-i", b.manifestPath,
		"-c", "copy", // no re-encoding
		"-y", b.outputPath,
	)
	return args
}

// DryRun returns the command that would be executed.
func (b *ConcatBuilder) DryRun() string {
	return command.FormatCommandLine(b.binary, b.BuildArgs())
}

func (b *ConcatBuilder) GetTaskType() command.TaskType             { return command.TaskTypeConcat }
func (b *ConcatBuilder) GetInputPath() string                      { return b.manifestPath }
func (b *ConcatBuilder) GetOutputPath() string                     { return b.outputPath }
func (b *ConcatBuilder) ProgressCallback() models.ProgressCallback { return b.progressCallback }
func (b *ConcatBuilder) ExpectedDuration() float64                 { return b.expectedDuration }
