// Package handbrake builds HandBrakeCLI transcode invocations.
package handbrake

import (
	"strconv"

	"leafmerge/command"
	"leafmerge/models"
)

// Encoder identifiers understood by HandBrakeCLI's -e option.
const (
	EncoderVideoToolboxH264 = "vt_h264" // Apple VideoToolbox, macOS
	EncoderX264             = "x264"    // software
)

// DefaultPreset is the built-in preset used when no preset file is given.
const DefaultPreset = "Very Fast 1080p30"

// DefaultBitrate is the average video bitrate in kbit/s for the built-in preset.
const DefaultBitrate = 4000

// HandBrakeBuilder builds a HandBrakeCLI transcode command.
//
// A preset file, when set, is passed verbatim via --preset-import-file and
// the built-in encoder options are omitted. Otherwise the command uses
// the built-in preset with a fixed bitrate, automatic encoder level,
// variable frame rate and the configured encoder.
type HandBrakeBuilder struct {
	binary     string
	inputPath  string
	outputPath string

	// Preset selection
	presetFile string
	presetName string

	// Built-in preset options
	encoder      string
	bitrate      int
	encoderLevel string
	vfr          bool

	progressCallback models.ProgressCallback
	expectedDuration float64
}

// NewHandBrakeBuilder creates a transcode command with the built-in preset
// and the software encoder.
func NewHandBrakeBuilder(inputPath, outputPath string) *HandBrakeBuilder {
	return &HandBrakeBuilder{
		binary:       "HandBrakeCLI",
		inputPath:    inputPath,
		outputPath:   outputPath,
		presetName:   DefaultPreset,
		encoder:      EncoderX264,
		bitrate:      DefaultBitrate,
		encoderLevel: "auto",
		vfr:          true,
	}
}

// SetBinary overrides the HandBrakeCLI executable.
func (h *HandBrakeBuilder) SetBinary(path string) *HandBrakeBuilder {
	if path != "" {
		h.binary = path
	}
	return h
}

// SetPresetFile uses a user-supplied preset JSON file instead of the built-in preset.
func (h *HandBrakeBuilder) SetPresetFile(path string) *HandBrakeBuilder {
	h.presetFile = path
	return h
}

// SetEncoder sets the video encoder (e.g. "vt_h264", "x264").
func (h *HandBrakeBuilder) SetEncoder(encoder string) *HandBrakeBuilder {
	h.encoder = encoder
	return h
}

// SetProgressCallback sets a callback for progress updates parsed from stdout.
func (h *HandBrakeBuilder) SetProgressCallback(callback models.ProgressCallback) *HandBrakeBuilder {
	h.progressCallback = callback
	return h
}

// SetExpectedDuration records the input duration in seconds, for ETA estimates.
func (h *HandBrakeBuilder) SetExpectedDuration(seconds float64) *HandBrakeBuilder {
	h.expectedDuration = seconds
	return h
}

// BuildArgs constructs the HandBrakeCLI arguments.
func (h *HandBrakeBuilder) BuildArgs() []string {
	args := []string{"-i", h.inputPath, "-o", h.outputPath}

	if h.presetFile != "" {
		args = append(args, "--preset-import-file", h.presetFile)
	} else {
		args = append(args, "--preset", h.presetName)
		if h.bitrate > 0 {
			args = append(args, "-b", strconv.Itoa(h.bitrate))
		}
		if h.encoderLevel != "" {
			args = append(args, "--encoder-level", h.encoderLevel)
		}
		if h.vfr {
			args = append(args, "--vfr")
		}
		if h.encoder != "" {
			args = append(args, "-e", h.encoder)
		}
	}

	return args
}

// DryRun returns the command that would be executed.
func (h *HandBrakeBuilder) DryRun() string {
	return command.FormatCommandLine(h.binary, h.BuildArgs())
}

func (h *HandBrakeBuilder) Program() string                           { return h.binary }
func (h *HandBrakeBuilder) GetTaskType() command.TaskType             { return command.TaskTypeCompress }
func (h *HandBrakeBuilder) GetInputPath() string                      { return h.inputPath }
func (h *HandBrakeBuilder) GetOutputPath() string                     { return h.outputPath }
func (h *HandBrakeBuilder) ProgressCallback() models.ProgressCallback { return h.progressCallback }
func (h *HandBrakeBuilder) ExpectedDuration() float64                 { return h.expectedDuration }
