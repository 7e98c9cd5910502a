// Package command provides the Command interface implemented by every
// external-tool invocation in leafmerge, and the Runner that executes them.
//
// Builders (concat, handbrake, probe) only assemble argument vectors; the
// Runner is the single place where processes are started. Arguments are
// always passed as a vector, never through a shell.
package command

import (
	"strconv"
	"strings"
)

// TaskType represents the kind of external invocation.
type TaskType string

const (
	TaskTypeConcat   TaskType = "concat"   // ffmpeg concat demuxer, stream copy
	TaskTypeProbe    TaskType = "probe"    // ffprobe duration query
	TaskTypeCompress TaskType = "compress" // HandBrakeCLI transcode
)

// Command represents an external tool invocation that can be built or previewed.
//
// The interface supports:
//   - Command building: program name and argument vector
//   - Preview: display the command without executing it (dry run)
//   - Metadata: task type and input/output paths for logging
//
// Example usage:
//
//	cmd := concat.NewConcatBuilder("/videos/day1/.concat-123.txt", "/videos/day1/day1.mp4")
//	fmt.Println(cmd.DryRun())
//	err := runner.Run(ctx, "concatenate /videos/day1", cmd)
type Command interface {
	// Program returns the executable to run, as a name resolved via PATH
	// or an absolute path.
	Program() string

	// BuildArgs constructs and returns the argument vector, excluding the
	// program name. The result is suitable for exec.Command(Program(), args...).
	BuildArgs() []string

	// DryRun returns the command line as a display string without executing it.
	DryRun() string

	// GetTaskType returns the type of task.
	GetTaskType() TaskType

	// GetInputPath returns the primary input path of the command.
	GetInputPath() string

	// GetOutputPath returns the output path of the command, or "" if it
	// writes nothing to disk.
	GetOutputPath() string
}

// FormatCommandLine renders a program and its arguments for display,
// quoting arguments that contain whitespace or quotes.
func FormatCommandLine(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(program))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n'\"\\") {
		return strconv.Quote(s)
	}
	return s
}
