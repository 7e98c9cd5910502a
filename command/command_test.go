package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"leafmerge/models"
)

// shellCommand runs a short sh script; used only to exercise the runner.
type shellCommand struct {
	script   string
	callback models.ProgressCallback
}

func (c *shellCommand) Program() string       { return "sh" }
func (c *shellCommand) BuildArgs() []string   { return []string{"-c", c.script} }
func (c *shellCommand) DryRun() string        { return FormatCommandLine(c.Program(), c.BuildArgs()) }
func (c *shellCommand) GetTaskType() TaskType { return TaskTypeProbe }
func (c *shellCommand) GetInputPath() string  { return "" }
func (c *shellCommand) GetOutputPath() string { return "" }

type progressCommand struct {
	shellCommand
}

func (c *progressCommand) ProgressCallback() models.ProgressCallback { return c.callback }
func (c *progressCommand) ExpectedDuration() float64                 { return 0 }

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestTaskTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		taskType TaskType
		expected string
	}{
		{"Concat", TaskTypeConcat, "concat"},
		{"Probe", TaskTypeProbe, "probe"},
		{"Compress", TaskTypeCompress, "compress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.taskType) != tt.expected {
				t.Errorf("%s = %s; want %s", tt.name, string(tt.taskType), tt.expected)
			}
		})
	}
}

func TestFormatCommandLine(t *testing.T) {
	got := FormatCommandLine("HandBrakeCLI", []string{"-i", "/v/Day 1/Day 1.mp4", "--preset", "Very Fast 1080p30", "-b", "4000"})
	want := `HandBrakeCLI -i "/v/Day 1/Day 1.mp4" --preset "Very Fast 1080p30" -b 4000`
	if got != want {
		t.Errorf("FormatCommandLine = %s; want %s", got, want)
	}

	if got := FormatCommandLine("ffmpeg", []string{""}); got != `ffmpeg ""` {
		t.Errorf("Empty argument should be quoted, got %s", got)
	}
}

func TestExecRunner_RunSuccess(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false)

	if err := r.Run(context.Background(), "noop", &shellCommand{script: "exit 0"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestExecRunner_RunNonZeroExit(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false)

	err := r.Run(context.Background(), "concatenate /v/a", &shellCommand{script: "echo 'files.txt: Invalid data' >&2; exit 3"})
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}

	var toolErr *models.ToolExecutionError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected *models.ToolExecutionError, got %T", err)
	}
	if toolErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", toolErr.ExitCode)
	}
	if toolErr.Op != "concatenate /v/a" {
		t.Errorf("Expected op to be preserved, got %q", toolErr.Op)
	}
	if !strings.Contains(toolErr.Diagnostics, "Invalid data") {
		t.Errorf("Expected stderr in diagnostics, got %q", toolErr.Diagnostics)
	}
	if toolErr.Program != "sh" || len(toolErr.Args) != 2 {
		t.Errorf("Expected argument vector to be recorded, got %s %v", toolErr.Program, toolErr.Args)
	}
}

func TestExecRunner_MissingProgram(t *testing.T) {
	r := NewExecRunner(false)
	cmd := &missingCommand{}

	err := r.Run(context.Background(), "compress", cmd)
	var toolErr *models.ToolExecutionError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected *models.ToolExecutionError, got %v", err)
	}
	if toolErr.ExitCode != -1 {
		t.Errorf("Expected exit code -1 for start failure, got %d", toolErr.ExitCode)
	}
}

type missingCommand struct{ shellCommand }

func (c *missingCommand) Program() string { return "leafmerge-no-such-tool" }

func TestExecRunner_Output(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false)

	out, err := r.Output(context.Background(), "probe", &shellCommand{script: "echo 12.345"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "12.345" {
		t.Errorf("Expected 12.345, got %q", out)
	}
}

func TestExecRunner_VerboseEchoesStderr(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(true)
	var echo bytes.Buffer
	r.echo = &echo

	if err := r.Run(context.Background(), "noop", &shellCommand{script: "echo warning >&2"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(echo.String(), "warning") {
		t.Errorf("Expected stderr to be echoed, got %q", echo.String())
	}
}

func TestExecRunner_StreamsProgress(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false)

	var seen []float64
	var states []models.ProgressState
	cmd := &progressCommand{shellCommand{
		script: `printf 'Encoding: task 1 of 1, 25.00 %%\rEncoding: task 1 of 1, 75.00 %%\r\n'`,
		callback: func(p *models.EncodingProgress) {
			seen = append(seen, p.Progress)
			states = append(states, p.State)
		},
	}}

	if err := r.Run(context.Background(), "compress", cmd); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(seen) != 3 || seen[0] != 25 || seen[1] != 75 || seen[2] != 100 {
		t.Errorf("Unexpected progress sequence %v", seen)
	}
	if states[len(states)-1] != models.ProgressStateCompleted {
		t.Errorf("Expected final state completed, got %s", states[len(states)-1])
	}
}

func TestExecRunner_ProgressFailure(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false)

	var last models.ProgressState
	cmd := &progressCommand{shellCommand{
		script:   `printf 'Encoding: task 1 of 1, 10.00 %%\n'; exit 2`,
		callback: func(p *models.EncodingProgress) { last = p.State },
	}}

	err := r.Run(context.Background(), "compress", cmd)
	var toolErr *models.ToolExecutionError
	if !errors.As(err, &toolErr) || toolErr.ExitCode != 2 {
		t.Fatalf("Expected exit code 2 tool error, got %v", err)
	}
	if last != models.ProgressStateFailed {
		t.Errorf("Expected final state failed, got %s", last)
	}
}
