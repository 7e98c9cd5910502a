package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"leafmerge/models"
	"leafmerge/progress"
)

// Runner executes commands built by the builders in this package tree.
//
// Run discards stdout; Output returns it. Both return
// *models.ToolExecutionError when the process cannot start or exits
// non-zero, with op as the error's context message.
type Runner interface {
	Run(ctx context.Context, op string, cmd Command) error
	Output(ctx context.Context, op string, cmd Command) ([]byte, error)
}

// ProgressReporter is implemented by commands whose stdout carries
// progress lines that should be parsed while the command runs.
type ProgressReporter interface {
	ProgressCallback() models.ProgressCallback
	ExpectedDuration() float64
}

// ExecRunner runs commands as child processes via os/exec.
type ExecRunner struct {
	verbose bool
	echo    io.Writer
	parser  *progress.Parser
}

// NewExecRunner creates a runner. When verbose is true, tool stderr is
// echoed to os.Stderr as well as captured.
func NewExecRunner(verbose bool) *ExecRunner {
	return &ExecRunner{
		verbose: verbose,
		echo:    os.Stderr,
		parser:  progress.NewParser(),
	}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, op string, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Program(), cmd.BuildArgs()...)
	var stderr bytes.Buffer
	c.Stderr = r.stderrWriter(&stderr)

	pr, ok := cmd.(ProgressReporter)
	if !ok || pr.ProgressCallback() == nil {
		if err := c.Run(); err != nil {
			return toolError(op, cmd, err, stderr.String())
		}
		return nil
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return toolError(op, cmd, err, "")
	}
	if err := c.Start(); err != nil {
		return toolError(op, cmd, err, stderr.String())
	}

	callback := pr.ProgressCallback()
	p := models.NewEncodingProgress(pr.ExpectedDuration())
	if err := r.parser.StreamProgress(stdout, p, callback); err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := c.Wait(); err != nil {
		p.State = models.ProgressStateFailed
		callback(p)
		return toolError(op, cmd, err, stderr.String())
	}

	p.SetPercent(100)
	p.State = models.ProgressStateCompleted
	callback(p)
	return nil
}

// Output executes cmd and returns its stdout.
func (r *ExecRunner) Output(ctx context.Context, op string, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Program(), cmd.BuildArgs()...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = r.stderrWriter(&stderr)

	if err := c.Run(); err != nil {
		return nil, toolError(op, cmd, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (r *ExecRunner) stderrWriter(buf *bytes.Buffer) io.Writer {
	if r.verbose && r.echo != nil {
		return io.MultiWriter(buf, r.echo)
	}
	return buf
}

func toolError(op string, cmd Command, err error, diagnostics string) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &models.ToolExecutionError{
		Op:          op,
		Program:     cmd.Program(),
		Args:        cmd.BuildArgs(),
		ExitCode:    exitCode,
		Diagnostics: diagnostics,
		Err:         err,
	}
}
