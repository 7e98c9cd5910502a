package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"leafmerge/archive"
	"leafmerge/collector"
	"leafmerge/models"
	"leafmerge/selector"
)

// Policy decides what Run does after a leaf fails.
type Policy int

const (
	// ContinueOnFailure moves on to the next leaf.
	ContinueOnFailure Policy = iota
	// AbortOnFailure stops before the next leaf.
	AbortOnFailure
)

// PolicyFor maps the strict_mode setting to a Policy.
func PolicyFor(strict bool) Policy {
	if strict {
		return AbortOnFailure
	}
	return ContinueOnFailure
}

func (p Policy) String() string {
	if p == AbortOnFailure {
		return "abort-on-failure"
	}
	return "continue-on-failure"
}

// RunStats summarizes a Run.
type RunStats struct {
	Root        string               `yaml:"root"`
	Leaves      int                  `yaml:"leaves"`
	Done        int                  `yaml:"done"`
	Skipped     int                  `yaml:"skipped"`
	Failed      int                  `yaml:"failed"`
	Aborted     bool                 `yaml:"aborted,omitempty"`
	Interrupted bool                 `yaml:"interrupted,omitempty"`
	Started     time.Time            `yaml:"started"`
	Elapsed     time.Duration        `yaml:"elapsed"`
	Results     []*models.LeafResult `yaml:"-"`
}

// Pending returns how many collected leaves were never processed.
func (s *RunStats) Pending() int {
	return s.Leaves - len(s.Results)
}

// Run collects the leaves under root and processes them in order.
//
// The error is non-nil only when collection fails or ctx is cancelled;
// failed leaves are reported in the stats. The context is checked before
// each leaf.
func (o *Orchestrator) Run(ctx context.Context, root string, policy Policy) (*RunStats, error) {
	stats := &RunStats{Root: root, Started: time.Now()}
	defer func() { stats.Elapsed = time.Since(stats.Started) }()

	o.archive = archive.NewManager(root)

	leaves, err := collector.CollectLeaves(root, o.archive.Root())
	if err != nil {
		return stats, fmt.Errorf("discover leaves: %w", err)
	}
	stats.Leaves = len(leaves)
	o.log.Infof("Found %d leaf directories under %s", len(leaves), root)

	for i, dir := range leaves {
		if err := ctx.Err(); err != nil {
			stats.Interrupted = true
			return stats, err
		}

		o.log.Debugf("[%d/%d] %s", i+1, len(leaves), dir)
		res := o.ProcessLeaf(ctx, dir)
		stats.Results = append(stats.Results, res)

		switch res.Status {
		case models.LeafDone:
			stats.Done++
		case models.LeafSkipped:
			stats.Skipped++
		case models.LeafFailed:
			stats.Failed++
			o.log.Errorf("%s failed at %s: %v", dir, res.Stage, res.Error)
			if ctx.Err() != nil {
				stats.Interrupted = true
				return stats, ctx.Err()
			}
			if policy == AbortOnFailure {
				stats.Aborted = true
				o.log.Warnf("Stopping after failure (%d leaves not processed)", stats.Pending())
				return stats, nil
			}
		}
	}

	return stats, nil
}

// PlannedLeaf is one leaf as a dry run sees it.
type PlannedLeaf struct {
	Leaf     *models.LeafDirectory
	Commands []string
}

// Plan collects and selects without probing or changing anything. Leaves
// without eligible files have no commands.
func (o *Orchestrator) Plan(root string) ([]*PlannedLeaf, error) {
	o.archive = archive.NewManager(root)

	dirs, err := collector.CollectLeaves(root, o.archive.Root())
	if err != nil {
		return nil, fmt.Errorf("discover leaves: %w", err)
	}

	plan := make([]*PlannedLeaf, 0, len(dirs))
	for _, dir := range dirs {
		files, err := selector.Select(dir)
		if err != nil {
			return nil, err
		}
		leaf, err := models.NewLeafDirectory(dir, files)
		if err != nil {
			return nil, err
		}

		p := &PlannedLeaf{Leaf: leaf}
		if len(files) > 0 && !alreadyMerged(leaf) {
			output := leaf.OutputPath()
			p.Commands = append(p.Commands, o.concat.DryRun(leaf, output))
			if o.cfg.Compress {
				p.Commands = append(p.Commands, o.compress.DryRun(output, leaf.CompressedPath()))
			}
		}
		plan = append(plan, p)
	}
	return plan, nil
}

// leafReport is a LeafResult with its error rendered as text.
type leafReport struct {
	models.LeafResult `yaml:",inline"`
	Error             string `yaml:"error,omitempty"`
}

type runReport struct {
	RunStats `yaml:",inline"`
	Results  []leafReport `yaml:"results"`
}

// WriteYAML writes the stats and every leaf result to path.
func (s *RunStats) WriteYAML(path string) error {
	report := runReport{RunStats: *s}
	for _, r := range s.Results {
		report.Results = append(report.Results, leafReport{LeafResult: *r, Error: r.ErrorText()})
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
