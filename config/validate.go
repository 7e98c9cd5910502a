package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	// Root directory
	if c.Root == "" {
		errors = append(errors, "root directory is required")
	} else if info, err := os.Stat(c.Root); err != nil {
		errors = append(errors, fmt.Sprintf("root directory does not exist: %s", c.Root))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("root is not a directory: %s", c.Root))
	}

	// Preset file only makes sense when compressing
	if c.PresetFile != "" {
		if !c.Compress {
			errors = append(errors, "preset file given without compression (-c)")
		}
		if info, err := os.Stat(c.PresetFile); err != nil {
			errors = append(errors, fmt.Sprintf("preset file does not exist: %s", c.PresetFile))
		} else if info.IsDir() {
			errors = append(errors, fmt.Sprintf("preset file is a directory: %s", c.PresetFile))
		}
	}

	// Validate tools config
	if err := c.Tools.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("tools config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks that every tool has a name
func (tc *ToolsConfig) Validate() error {
	var errors []string

	if strings.TrimSpace(tc.FFmpeg) == "" {
		errors = append(errors, "ffmpeg is required")
	}
	if strings.TrimSpace(tc.FFprobe) == "" {
		errors = append(errors, "ffprobe is required")
	}
	if strings.TrimSpace(tc.HandBrake) == "" {
		errors = append(errors, "handbrake is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}
