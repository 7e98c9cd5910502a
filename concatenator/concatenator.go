// Package concatenator joins the media files of a leaf directory into a
// single artifact with ffmpeg's concat demuxer.
package concatenator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"leafmerge/command"
	"leafmerge/command/concat"
	"leafmerge/models"
)

// manifestPattern names manifests inside the leaf. The leading dot keeps
// them out of directory listings and out of file selection.
const manifestPattern = ".leafmerge-concat-*.txt"

// Concatenator handles merging a leaf's files into one output file.
type Concatenator struct {
	runner   command.Runner
	ffmpeg   string
	logLevel string
	progress models.ProgressCallback
}

// NewConcatenator creates a concatenator that runs ffmpeg via runner.
func NewConcatenator(runner command.Runner, ffmpegBinary string) *Concatenator {
	return &Concatenator{runner: runner, ffmpeg: ffmpegBinary}
}

// SetLogLevel overrides ffmpeg's -loglevel; empty keeps the builder default.
func (c *Concatenator) SetLogLevel(level string) *Concatenator {
	c.logLevel = level
	return c
}

// SetProgressCallback receives ffmpeg progress while concatenating.
func (c *Concatenator) SetProgressCallback(callback models.ProgressCallback) *Concatenator {
	c.progress = callback
	return c
}

func (c *Concatenator) command(manifestPath, outputPath string) *concat.ConcatBuilder {
	b := concat.NewConcatBuilder(manifestPath, outputPath).SetBinary(c.ffmpeg)
	if c.logLevel != "" {
		b.SetLogLevel(c.logLevel)
	}
	return b
}

// Concatenate stream-copies the leaf's files, in order, into outputPath.
// Progress percentages are relative to the leaf's probed duration, when
// every file has been probed.
//
// The manifest is written into the leaf directory and removed before
// Concatenate returns, whatever the outcome. If ffmpeg fails, any partial
// output it left behind is removed as well.
func (c *Concatenator) Concatenate(ctx context.Context, leaf *models.LeafDirectory, outputPath string) (err error) {
	if len(leaf.Files) == 0 {
		return fmt.Errorf("no files to concatenate in %s", leaf.Path)
	}

	manifestPath, err := WriteManifest(leaf.Path, leaf.Files)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := removeIfExists(manifestPath); rmErr != nil && err == nil {
			err = &models.FilesystemError{Op: "remove manifest", Path: manifestPath, Err: rmErr}
		}
	}()

	cmd := c.command(manifestPath, outputPath)
	if c.progress != nil {
		expected, _ := leaf.TotalDuration()
		cmd.SetProgressCallback(c.progress).SetExpectedDuration(expected)
	}
	if err := c.runner.Run(ctx, "concatenate "+leaf.Path, cmd); err != nil {
		_ = removeIfExists(outputPath)
		return err
	}

	return nil
}

// DryRun returns the ffmpeg command that Concatenate would run for leaf,
// with a placeholder manifest path.
func (c *Concatenator) DryRun(leaf *models.LeafDirectory, outputPath string) string {
	manifest := filepath.Join(leaf.Path, strings.Replace(manifestPattern, "*", "XXXX", 1))
	return c.command(manifest, outputPath).DryRun()
}

// WriteManifest creates a concat-demuxer list file in dir with one line per
// file, in order. Files inside dir are referenced by base name, others by
// absolute path.
//
// Format:
//
//	file 'clip1.mp4'
//	file 'clip2.mp4'
func WriteManifest(dir string, files []*models.MediaFile) (string, error) {
	f, err := os.CreateTemp(dir, manifestPattern)
	if err != nil {
		return "", &models.FilesystemError{Op: "create manifest", Path: dir, Err: err}
	}

	var b strings.Builder
	for _, mf := range files {
		ref := mf.Path
		if filepath.Dir(mf.Path) == filepath.Clean(dir) {
			ref = filepath.Base(mf.Path)
		} else if abs, err := filepath.Abs(mf.Path); err == nil {
			ref = abs
		}
		b.WriteString(ManifestLine(ref))
	}

	_, werr := f.WriteString(b.String())
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(f.Name())
		return "", &models.FilesystemError{Op: "write manifest", Path: f.Name(), Err: werr}
	}

	return f.Name(), nil
}

// ManifestLine returns the manifest entry for ref, escaping single quotes
// the way the concat demuxer expects ('\'').
func ManifestLine(ref string) string {
	return fmt.Sprintf("file '%s'\n", strings.ReplaceAll(ref, "'", `'\''`))
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
