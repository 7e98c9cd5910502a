package orchestrator

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"leafmerge/command"
	"leafmerge/config"
	"leafmerge/models"
)

// fakeRunner stands in for ffmpeg and HandBrakeCLI.
//
// Concat appends the listed files' bytes. Compress upper-cases its input,
// which keeps the size (and so the fake duration) unchanged.
type fakeRunner struct {
	failConcat   bool
	dropLast     bool // concat silently omits the last file
	failCompress bool
	truncateComp bool // compress writes a much shorter file

	calls []command.TaskType
}

func (f *fakeRunner) Run(_ context.Context, op string, cmd command.Command) error {
	f.calls = append(f.calls, cmd.GetTaskType())

	switch cmd.GetTaskType() {
	case command.TaskTypeConcat:
		return f.concat(op, cmd)
	case command.TaskTypeCompress:
		return f.compress(op, cmd)
	}
	return fmt.Errorf("unexpected command %s", cmd.DryRun())
}

func (f *fakeRunner) Output(ctx context.Context, op string, cmd command.Command) ([]byte, error) {
	return nil, f.Run(ctx, op, cmd)
}

func (f *fakeRunner) concat(op string, cmd command.Command) error {
	manifest := cmd.GetInputPath()
	data, err := os.ReadFile(manifest)
	if err != nil {
		return err
	}

	var refs []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		ref := strings.TrimSuffix(strings.TrimPrefix(sc.Text(), "file '"), "'")
		refs = append(refs, strings.ReplaceAll(ref, `'\''`, "'"))
	}
	if f.dropLast {
		refs = refs[:len(refs)-1]
	}

	var out bytes.Buffer
	for _, ref := range refs {
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(filepath.Dir(manifest), ref)
		}
		b, err := os.ReadFile(ref)
		if err != nil {
			return err
		}
		out.Write(b)
	}

	if err := os.WriteFile(cmd.GetOutputPath(), out.Bytes(), 0644); err != nil {
		return err
	}
	if f.failConcat {
		return &models.ToolExecutionError{Op: op, Program: cmd.Program(), ExitCode: 1, Diagnostics: "Invalid data found when processing input"}
	}
	return nil
}

func (f *fakeRunner) compress(op string, cmd command.Command) error {
	in, err := os.ReadFile(cmd.GetInputPath())
	if err != nil {
		return err
	}
	out := bytes.ToUpper(in)
	if f.truncateComp {
		out = out[:1]
	}
	if err := os.WriteFile(cmd.GetOutputPath(), out, 0644); err != nil {
		return err
	}
	if f.failCompress {
		return &models.ToolExecutionError{Op: op, Program: cmd.Program(), ExitCode: 3}
	}
	return nil
}

// sizeProber reports a file's size in bytes as its duration in seconds.
type sizeProber struct {
	fail map[string]bool
}

func (p sizeProber) Duration(_ context.Context, path string) (float64, error) {
	if p.fail[filepath.Base(path)] {
		return 0, &models.ProbeError{Path: path, Err: fmt.Errorf("invalid data")}
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, &models.ProbeError{Path: path, Err: err}
	}
	return float64(info.Size()), nil
}

// recordingLogger keeps every line for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(format string, args ...any)    { l.add("info", format, args...) }
func (l *recordingLogger) Successf(format string, args ...any) { l.add("success", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)    { l.add("warn", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any)   { l.add("error", format, args...) }
func (l *recordingLogger) Debugf(format string, args ...any)   { l.add("debug", format, args...) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// writeTree creates files (relative path -> content) under a new root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(p, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestOrchestrator(t *testing.T, root string, runner *fakeRunner, prober sizeProber, mutate func(*config.Config)) (*Orchestrator, *recordingLogger) {
	t.Helper()
	cfg := *config.DefaultConfig()
	cfg.Root = root
	if mutate != nil {
		mutate(&cfg)
	}
	log := &recordingLogger{}
	return New(cfg, Deps{Runner: runner, Prober: prober, Logger: log}), log
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected %s to exist: %v", path, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to exist (err = %v)", path, err)
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
