package console

import (
	"bytes"
	"strings"
	"testing"

	"leafmerge/models"
)

func TestPrinter_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, false)

	p.Infof("📂 Leaf %s", "day1")
	p.Successf("Concatenated %d files", 3)
	p.Warnf("skipped")
	p.Errorf("failed: %v", "boom")
	p.Debugf("hidden")

	got := out.String()
	for _, want := range []string{"📂 Leaf day1\n", "  ✓ Concatenated 3 files\n", "⚠️  skipped\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Error("Debug output must be hidden when not verbose")
	}
	if strings.Contains(got, "boom") {
		t.Error("Errors must go to errOut")
	}
	if errOut.String() != "❌ failed: boom\n" {
		t.Errorf("Unexpected error output %q", errOut.String())
	}
}

func TestPrinter_Verbose(t *testing.T) {
	var out bytes.Buffer
	New(&out, &out, true).Debugf("ffmpeg %s", "-f concat")

	if out.String() != "  · ffmpeg -f concat\n" {
		t.Errorf("Unexpected debug output %q", out.String())
	}
}

func TestPrinter_Phase(t *testing.T) {
	var out bytes.Buffer
	New(&out, &out, false).Phase("🔗 Concatenation")

	if !strings.Contains(out.String(), "🔗 Concatenation\n━━━") {
		t.Errorf("Unexpected banner %q", out.String())
	}
}

func TestPrinter_Progress(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out, false)
	p.live = true

	ep := models.NewEncodingProgress(100)
	ep.State = models.ProgressStateEncoding
	ep.SetPercent(42)
	p.Progress(ep)

	if !strings.HasPrefix(out.String(), "\r  ⏳ 42.0%") {
		t.Errorf("Unexpected progress line %q", out.String())
	}

	// A status line ends the progress line first
	p.Successf("done")
	if !strings.HasSuffix(out.String(), "\n  ✓ done\n") {
		t.Errorf("Expected newline before status line, got %q", out.String())
	}
}

func TestPrinter_ProgressNotLive(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out, false)

	ep := models.NewEncodingProgress(100)
	ep.State = models.ProgressStateEncoding
	p.Progress(ep)
	ep.State = models.ProgressStateCompleted
	p.Progress(ep)

	if out.Len() != 0 {
		t.Errorf("Expected no progress output without a terminal, got %q", out.String())
	}
}
