package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// usageOutput is where -h and flag errors are printed.
var usageOutput io.Writer = os.Stderr

// MergeFromFlags parses command-line flags and overrides config values.
//
// args excludes the program name. Boolean flags only switch options on,
// except -no-strict which switches strict mode off.
func (c *Config) MergeFromFlags(args []string) error {
	// Define flags
	fs := flag.NewFlagSet("leafmerge", flag.ContinueOnError)
	fs.SetOutput(usageOutput)
	fs.Usage = printUsage

	// Original short flags, each with a long alias
	var deleteOriginals, compress, yes bool
	var root, presetFile string
	fs.BoolVar(&deleteOriginals, "d", false, "Delete originals instead of archiving them")
	fs.BoolVar(&deleteOriginals, "delete", false, "Delete originals instead of archiving them")
	fs.BoolVar(&compress, "c", false, "Compress each concatenated file with HandBrakeCLI")
	fs.BoolVar(&compress, "compress", false, "Compress each concatenated file with HandBrakeCLI")
	fs.StringVar(&root, "f", "", "Root directory to process (default: working directory)")
	fs.StringVar(&root, "filepath", "", "Root directory to process (default: working directory)")
	fs.StringVar(&presetFile, "j", "", "HandBrake preset JSON file")
	fs.StringVar(&presetFile, "json", "", "HandBrake preset JSON file")
	fs.BoolVar(&yes, "y", false, "Skip all confirmation prompts")
	fs.BoolVar(&yes, "yes", false, "Skip all confirmation prompts")

	// Config file override (handled by LoadConfig before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")
	saveConfig := fs.String("save-config", "", "Write the effective configuration to this file and exit")

	// Tools
	ffmpeg := fs.String("ffmpeg", "", "ffmpeg executable (default: from config)")
	ffprobe := fs.String("ffprobe", "", "ffprobe executable (default: from config)")
	handbrake := fs.String("handbrake", "", "HandBrakeCLI executable (default: from config)")

	// Behavioral flags
	strict := fs.Bool("strict", false, "Stop at the first failed leaf")
	noStrict := fs.Bool("no-strict", false, "Continue with the next leaf after a failure")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "List leaves and commands without changing anything")
	report := fs.String("report", "", "Write a YAML run report to this file")

	// Parse flags
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Override with flag values (only if explicitly set)
	if root != "" {
		c.Root = root
	}
	if presetFile != "" {
		c.PresetFile = presetFile
	}
	if deleteOriginals {
		c.DeleteOriginals = true
	}
	if compress {
		c.Compress = true
	}
	if yes {
		c.SkipConfirm = true
	}

	if *ffmpeg != "" {
		c.Tools.FFmpeg = *ffmpeg
	}
	if *ffprobe != "" {
		c.Tools.FFprobe = *ffprobe
	}
	if *handbrake != "" {
		c.Tools.HandBrake = *handbrake
	}

	// Behavioral flags
	if *strict {
		c.StrictMode = true
	}
	if *noStrict {
		c.StrictMode = false
	}
	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}
	if *report != "" {
		c.ReportFile = *report
	}
	if *saveConfig != "" {
		c.SaveConfigPath = *saveConfig
	}

	return nil
}

// printUsage prints help text
func printUsage() {
	fmt.Fprintf(usageOutput, `leafmerge - Concatenate split recordings, one file per leaf directory

USAGE:
  leafmerge [-f DIR] [OPTIONS]

Every directory under DIR that has no subdirectories is a leaf. The .mp4
files of each leaf are joined, in natural order, into <leaf>/<leaf>.mp4.
The originals are then moved to DIR/files to delete/<leaf> split files,
or deleted with -d.

OPTIONS:
  -f, -filepath string
        Root directory to process (default: working directory)
  -d, -delete
        Delete the original files instead of archiving them
  -c, -compress
        Compress each concatenated file with HandBrakeCLI
  -j, -json string
        HandBrake preset JSON file to use with -c
  -y, -yes
        Skip all confirmation prompts

CONFIGURATION:
  -config string
        Path to config file (default: search ./leafmerge.yaml, ~/.leafmerge/config.yaml, /etc/leafmerge/config.yaml)
  -save-config string
        Write the effective configuration to a file and exit

TOOLS:
  -ffmpeg string
        ffmpeg executable (default: ffmpeg)
  -ffprobe string
        ffprobe executable (default: ffprobe)
  -handbrake string
        HandBrakeCLI executable (default: HandBrakeCLI)

BEHAVIORAL FLAGS:
  -strict
        Stop at the first failed leaf
  -no-strict
        Continue with the next leaf after a failure (default)
  -verbose
        Echo tool diagnostics and debug output
  -dry-run
        List leaves, files and commands without changing anything
  -report string
        Write a YAML run report

EXAMPLES:
  # Concatenate everything under the current directory
  leafmerge

  # Process another tree, delete originals, no questions asked
  leafmerge -f /media/dashcam -d -y

  # Concatenate and compress with a custom HandBrake preset
  leafmerge -f /media/dashcam -c -j fast.json

  # See what would happen
  leafmerge -f /media/dashcam -dry-run

CONFIGURATION FILES:
  Config files are searched in order:
    1. ./leafmerge.yaml
    2. ~/.leafmerge/config.yaml
    3. /etc/leafmerge/config.yaml

  Priority: CLI flags > Config file > Defaults

`)
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig() {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                 Effective Configuration                  ")
	fmt.Println("═══════════════════════════════════════════════════════════")
	if c.ConfigPath != "" {
		fmt.Printf("Config file:    %s\n", c.ConfigPath)
	}
	fmt.Printf("Root:           %s\n", c.Root)
	if c.DeleteOriginals {
		fmt.Println("Originals:      delete")
	} else {
		fmt.Println("Originals:      archive to \"files to delete\"")
	}
	fmt.Printf("Compress:       %v\n", c.Compress)
	if c.PresetFile != "" {
		fmt.Printf("Preset file:    %s\n", c.PresetFile)
	}

	fmt.Println("\nTools:")
	fmt.Printf("  ffmpeg:       %s\n", c.Tools.FFmpeg)
	fmt.Printf("  ffprobe:      %s\n", c.Tools.FFprobe)
	if c.Compress {
		fmt.Printf("  HandBrakeCLI: %s\n", c.Tools.HandBrake)
	}

	fmt.Println("\nBehavioral Flags:")
	fmt.Printf("  Skip Confirm:  %v\n", c.SkipConfirm)
	fmt.Printf("  Strict Mode:   %v\n", c.StrictMode)
	fmt.Printf("  Verbose:       %v\n", c.Verbose)
	if c.ReportFile != "" {
		fmt.Printf("  Report:        %s\n", c.ReportFile)
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
