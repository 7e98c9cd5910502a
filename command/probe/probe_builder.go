// Package probe builds ffprobe invocations.
package probe

import (
	"leafmerge/command"
)

// DurationBuilder builds an ffprobe query that prints only the container
// duration, as a bare number of seconds:
//
//	ffprobe -v error -show_entries format=duration -of default=noprint_wrappers=1:nokey=1 <path>
type DurationBuilder struct {
	binary string
	path   string
}

// NewDurationBuilder creates a duration query for path.
func NewDurationBuilder(path string) *DurationBuilder {
	return &DurationBuilder{binary: "ffprobe", path: path}
}

// SetBinary overrides the ffprobe executable.
func (b *DurationBuilder) SetBinary(path string) *DurationBuilder {
	if path != "" {
		b.binary = path
	}
	return b
}

func (b *DurationBuilder) Program() string { return b.binary }

func (b *DurationBuilder) BuildArgs() []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		b.path,
	}
}

func (b *DurationBuilder) DryRun() string {
	return command.FormatCommandLine(b.binary, b.BuildArgs())
}

func (b *DurationBuilder) GetTaskType() command.TaskType { return command.TaskTypeProbe }
func (b *DurationBuilder) GetInputPath() string          { return b.path }
func (b *DurationBuilder) GetOutputPath() string         { return "" }
