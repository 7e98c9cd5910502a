// Package orchestrator drives each leaf directory through the pipeline:
// select, plan, concatenate, verify, archive and optionally compress.
package orchestrator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"leafmerge/archive"
	"leafmerge/command"
	"leafmerge/compression"
	"leafmerge/concatenator"
	"leafmerge/config"
	"leafmerge/ffprobe"
	"leafmerge/internal/timeutil"
	"leafmerge/models"
	"leafmerge/selector"
	"leafmerge/verify"
)

// Logger receives operator-facing status lines. console.Printer
// implements it.
type Logger interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Runner command.Runner

	// Prober defaults to ffprobe through Runner.
	Prober models.DurationProber

	// Logger defaults to discarding everything.
	Logger Logger

	// Progress receives ffmpeg progress while concatenating and
	// HandBrakeCLI progress while compressing.
	Progress models.ProgressCallback
}

// Orchestrator processes leaf directories one at a time.
type Orchestrator struct {
	cfg      config.Config
	log      Logger
	prober   models.DurationProber
	verifier *verify.Verifier
	concat   *concatenator.Concatenator
	compress *compression.Stage
	archive  *archive.Manager
}

// New creates an orchestrator. cfg is copied and never modified.
func New(cfg config.Config, deps Deps) *Orchestrator {
	prober := deps.Prober
	if prober == nil {
		prober = ffprobe.NewProber(deps.Runner, cfg.Tools.FFprobe)
	}
	log := deps.Logger
	if log == nil {
		log = nopLogger{}
	}

	concat := concatenator.NewConcatenator(deps.Runner, cfg.Tools.FFmpeg).
		SetProgressCallback(deps.Progress)
	if cfg.Verbose {
		concat.SetLogLevel("info")
	}

	return &Orchestrator{
		cfg:      cfg,
		log:      log,
		prober:   prober,
		verifier: verify.NewVerifier(prober),
		concat:   concat,
		compress: compression.NewStage(deps.Runner, cfg.Tools.HandBrake, cfg.PresetFile).
			SetProgressCallback(deps.Progress),
		archive: archive.NewManager(cfg.Root),
	}
}

// ArchiveRoot returns the directory originals are archived into.
func (o *Orchestrator) ArchiveRoot() string {
	return o.archive.Root()
}

// leafRun carries the state of one leaf through the pipeline.
type leafRun struct {
	dir      string
	stage    models.Stage
	leaf     *models.LeafDirectory
	expected float64
	observed float64
}

func (r *leafRun) fail(err error) *models.LeafResult {
	res, _ := models.NewLeafResultFailure(r.dir, r.stage, err)
	r.fill(res)
	return res
}

func (r *leafRun) fill(res *models.LeafResult) {
	if r.leaf != nil {
		res.Files = len(r.leaf.Files)
	}
	res.ExpectedDuration = r.expected
	res.ObservedDuration = r.observed
}

// ProcessLeaf runs dir through the pipeline and reports the outcome.
//
// A failure stops this leaf only. Nothing already done to earlier leaves,
// or to earlier stages of this leaf, is rolled back. Originals are never
// removed before the artifact replacing them has been verified.
func (o *Orchestrator) ProcessLeaf(ctx context.Context, dir string) *models.LeafResult {
	r := &leafRun{dir: dir, stage: models.StageSelect}

	files, err := selector.Select(dir)
	if err != nil {
		return r.fail(err)
	}
	if len(files) == 0 {
		o.log.Warnf("No eligible files in %s, skipping", dir)
		return models.NewLeafResultSkipped(dir)
	}

	leaf, err := models.NewLeafDirectory(dir, files)
	if err != nil {
		return r.fail(err)
	}
	r.leaf = leaf

	if alreadyMerged(leaf) {
		o.log.Infof("⏭️  %s already merged, skipping", leaf.Name)
		return models.NewLeafResultSkipped(dir)
	}

	o.log.Infof("📂 %s (%d files)", leaf.Name, len(files))

	// Plan
	r.stage = models.StagePlan
	if err := o.plan(leaf); err != nil {
		return r.fail(err)
	}
	for _, f := range files {
		d, err := f.ProbeDuration(ctx, o.prober)
		if err != nil {
			return r.fail(err)
		}
		o.log.Debugf("%s %s", f.Name(), timeutil.FormatSeconds(d))
	}
	r.expected, _ = leaf.TotalDuration()

	// Concatenate
	r.stage = models.StageConcatenate
	output := leaf.OutputPath()
	o.log.Debugf("%s", o.concat.DryRun(leaf, output))
	if err := o.concat.Concatenate(ctx, leaf, output); err != nil {
		return r.fail(err)
	}

	// A rejected artifact is removed so the leaf can be retried as is.
	r.stage = models.StageVerifyConcat
	if err := o.verifier.Artifact("concatenate "+dir, output); err != nil {
		_ = os.Remove(output)
		return r.fail(err)
	}
	r.observed, err = o.verifier.Duration(ctx, "verify concatenation", output, r.expected)
	if err != nil {
		o.log.Warnf("Removing rejected %s", filepath.Base(output))
		_ = os.Remove(output)
		return r.fail(err)
	}
	o.log.Successf("🔗 %s (%s, expected %s)", filepath.Base(output),
		timeutil.FormatSeconds(r.observed), timeutil.FormatSeconds(r.expected))

	// Dispose of the originals unless they must wait for compression
	r.stage = models.StageArchive
	switch {
	case !o.cfg.DeleteOriginals:
		dest, err := o.archive.Archive(leaf)
		if err != nil {
			return r.fail(err)
		}
		o.log.Successf("Archived %d originals to %s", len(files), dest)
	case !o.cfg.Compress:
		if err := o.archive.DeleteOriginals(leaf); err != nil {
			return r.fail(err)
		}
		o.log.Successf("Deleted %d originals", len(files))
	}

	compressed := false
	if o.cfg.Compress {
		if err := o.compressLeaf(ctx, r); err != nil {
			return r.fail(err)
		}
		compressed = true
	}

	r.stage = models.StageDone
	res, err := models.NewLeafResultDone(dir, output)
	if err != nil {
		return r.fail(err)
	}
	r.fill(res)
	res.Compressed = compressed
	return res
}

// compressLeaf transcodes the concatenated artifact and, in delete mode,
// replaces it with the transcode and only then deletes the originals.
func (o *Orchestrator) compressLeaf(ctx context.Context, r *leafRun) error {
	leaf := r.leaf
	input, output := leaf.OutputPath(), leaf.CompressedPath()

	r.stage = models.StageCompress
	o.log.Infof("🗜️  Compressing %s", filepath.Base(input))
	o.log.Debugf("%s", o.compress.DryRun(input, output))
	if err := o.compress.Compress(ctx, input, output, r.observed); err != nil {
		_ = os.Remove(output)
		return err
	}

	r.stage = models.StageVerifyCompress
	if err := o.verifier.Artifact("compress "+input, output); err != nil {
		return err
	}
	observed, err := o.verifier.Duration(ctx, "verify compression", output, r.observed)
	if err != nil {
		return err
	}
	o.log.Successf("🗜️  %s (%s)", filepath.Base(output), timeutil.FormatSeconds(observed))

	if !o.cfg.DeleteOriginals {
		return nil
	}

	r.stage = models.StageFinalize
	if err := o.archive.Finalize(leaf); err != nil {
		return err
	}
	if err := o.archive.DeleteOriginals(leaf); err != nil {
		return err
	}
	o.log.Successf("Replaced %s with its compressed version and deleted %d originals",
		filepath.Base(input), len(leaf.Files))
	return nil
}

// plan refuses to run when any file or directory this leaf would create
// is already there or is one of its inputs, so that no tool runs for a
// leaf that cannot finish.
func (o *Orchestrator) plan(leaf *models.LeafDirectory) error {
	output := leaf.OutputPath()
	if leaf.HasInput(output) {
		return &models.FilesystemError{Op: "plan", Path: output,
			Err: errors.New("output would overwrite an input file")}
	}

	targets := []string{output}
	if o.cfg.Compress {
		targets = append(targets, leaf.CompressedPath())
	}
	for _, p := range targets {
		if _, err := os.Lstat(p); err == nil {
			return &models.FilesystemError{Op: "plan", Path: p, Err: fs.ErrExist}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return &models.FilesystemError{Op: "plan", Path: p, Err: err}
		}
	}

	if !o.cfg.DeleteOriginals {
		return o.archive.CheckDestination(leaf)
	}
	return nil
}

// alreadyMerged reports whether the only eligible files of leaf are the
// artifacts of an earlier run.
func alreadyMerged(leaf *models.LeafDirectory) bool {
	if !leaf.HasInput(leaf.OutputPath()) {
		return false
	}
	for _, f := range leaf.Files {
		if !samePath(f.Path, leaf.OutputPath()) && !samePath(f.Path, leaf.CompressedPath()) {
			return false
		}
	}
	return true
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Successf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}
func (nopLogger) Debugf(string, ...any)   {}
