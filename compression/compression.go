// Package compression re-encodes a concatenated artifact with HandBrakeCLI.
package compression

import (
	"context"
	"runtime"

	"leafmerge/command"
	"leafmerge/command/handbrake"
	"leafmerge/models"
)

// EncoderForOS returns the HandBrakeCLI video encoder for goos:
// VideoToolbox on macOS, x264 elsewhere.
func EncoderForOS(goos string) string {
	if goos == "darwin" {
		return handbrake.EncoderVideoToolboxH264
	}
	return handbrake.EncoderX264
}

// Stage transcodes one file per call. It holds no per-leaf state.
type Stage struct {
	runner     command.Runner
	binary     string
	presetFile string
	encoder    string
	progress   models.ProgressCallback
}

// NewStage creates a compression stage. An empty presetFile selects the
// built-in preset with the encoder for the current OS.
func NewStage(runner command.Runner, binary, presetFile string) *Stage {
	return &Stage{
		runner:     runner,
		binary:     binary,
		presetFile: presetFile,
		encoder:    EncoderForOS(runtime.GOOS),
	}
}

// SetEncoder overrides the encoder chosen from the OS.
func (s *Stage) SetEncoder(encoder string) *Stage {
	s.encoder = encoder
	return s
}

// SetProgressCallback receives live progress while HandBrakeCLI runs.
func (s *Stage) SetProgressCallback(cb models.ProgressCallback) *Stage {
	s.progress = cb
	return s
}

// Command builds the HandBrakeCLI invocation for input and output.
func (s *Stage) Command(input, output string, expectedDuration float64) *handbrake.HandBrakeBuilder {
	b := handbrake.NewHandBrakeBuilder(input, output).
		SetBinary(s.binary).
		SetEncoder(s.encoder).
		SetExpectedDuration(expectedDuration).
		SetProgressCallback(s.progress)
	if s.presetFile != "" {
		b.SetPresetFile(s.presetFile)
	}
	return b
}

// Compress transcodes input into output. A failure is returned as the
// runner's *models.ToolExecutionError; there is no fallback preset.
func (s *Stage) Compress(ctx context.Context, input, output string, expectedDuration float64) error {
	return s.runner.Run(ctx, "compress "+input, s.Command(input, output, expectedDuration))
}

// DryRun returns the command Compress would run.
func (s *Stage) DryRun(input, output string) string {
	return s.Command(input, output, 0).DryRun()
}
