// Package preflight checks that the external tools are installed and the
// root is writable before any leaf is touched.
package preflight

import (
	"errors"
	"fmt"
	"os/exec"

	"leafmerge/config"
)

var (
	ErrFFmpegNotFound    = errors.New("ffmpeg not found")
	ErrFFprobeNotFound   = errors.New("ffprobe not found")
	ErrHandBrakeNotFound = errors.New("HandBrakeCLI not found")
	ErrRootNotWritable   = errors.New("root directory is not writable")
)

// notFound maps each tool to the error reported when it is missing.
var notFound = map[string]error{
	config.ToolFFmpeg:    ErrFFmpegNotFound,
	config.ToolFFprobe:   ErrFFprobeNotFound,
	config.ToolHandBrake: ErrHandBrakeNotFound,
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// CheckTools resolves every tool cfg requires. All missing tools are
// reported together.
func CheckTools(cfg config.Config) error {
	var errs []error
	for _, tool := range cfg.RequiredTools() {
		if _, err := lookPath(tool.Binary); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", notFound[tool.Name], tool.Binary))
		}
	}
	return errors.Join(errs...)
}

// CheckRoot verifies that root can be written to, since every leaf under
// it receives an output file and archive moves.
func CheckRoot(root string) error {
	if err := writable(root); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRootNotWritable, root, err)
	}
	return nil
}

// Check runs every preflight check for cfg.
func Check(cfg config.Config) error {
	if err := CheckTools(cfg); err != nil {
		return err
	}
	if cfg.DryRun {
		return nil
	}
	return CheckRoot(cfg.Root)
}
