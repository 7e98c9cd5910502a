package config

// Config holds all leafmerge options.
//
// It is passed by value to the pipeline and never mutated after LoadConfig
// returns.
type Config struct {
	// Directory tree to process; defaults to the working directory
	Root string `yaml:"root"`

	// Pipeline behavior
	DeleteOriginals bool   `yaml:"delete_originals"` // Delete sources instead of archiving them
	Compress        bool   `yaml:"compress"`         // Re-encode each artifact with HandBrakeCLI
	PresetFile      string `yaml:"preset_file"`      // HandBrake preset JSON (empty = built-in preset)

	// Behavioral flags
	SkipConfirm bool   `yaml:"skip_confirm"` // Answer yes to every prompt
	StrictMode  bool   `yaml:"strict_mode"`  // Stop the batch at the first failed leaf
	Verbose     bool   `yaml:"verbose"`      // Echo tool diagnostics and debug lines
	DryRun      bool   `yaml:"dry_run"`      // Plan and print commands without running them
	ReportFile  string `yaml:"report_file"`  // Write a YAML run report here (empty = none)

	// External tools
	Tools ToolsConfig `yaml:"tools"`

	// Set from the command line only
	ConfigPath     string `yaml:"-"` // File the config was loaded from, if any
	SaveConfigPath string `yaml:"-"` // Write the effective config here and exit
}

// ToolsConfig names the external executables, either as names resolved
// via PATH or as absolute paths.
type ToolsConfig struct {
	FFmpeg    string `yaml:"ffmpeg"`
	FFprobe   string `yaml:"ffprobe"`
	HandBrake string `yaml:"handbrake"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		// Filled from the working directory by LoadConfig when left empty
		Root: "",

		DeleteOriginals: false, // Archive into "files to delete"
		Compress:        false,
		PresetFile:      "",

		SkipConfirm: false, // Ask before doing anything
		StrictMode:  false, // Keep going when a leaf fails
		Verbose:     false,
		DryRun:      false,
		ReportFile:  "",

		Tools: ToolsConfig{
			FFmpeg:    ToolFFmpeg,
			FFprobe:   ToolFFprobe,
			HandBrake: ToolHandBrake,
		},
	}
}

// Canonical names of the external tools.
const (
	ToolFFmpeg    = "ffmpeg"
	ToolFFprobe   = "ffprobe"
	ToolHandBrake = "HandBrakeCLI"
)

// Tool is an external executable a run depends on.
type Tool struct {
	Name   string // canonical name, one of the Tool* constants
	Binary string // configured executable
}

// RequiredTools returns the executables a run with this config needs:
// ffmpeg and ffprobe always, HandBrakeCLI only when compressing.
func (c *Config) RequiredTools() []Tool {
	tools := []Tool{
		{ToolFFmpeg, c.Tools.FFmpeg},
		{ToolFFprobe, c.Tools.FFprobe},
	}
	if c.Compress {
		tools = append(tools, Tool{ToolHandBrake, c.Tools.HandBrake})
	}
	return tools
}
