// Package console prints operator-facing progress and status lines.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"leafmerge/models"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Printer writes status lines to out and errors to errOut.
//
// It is safe for concurrent use; progress updates arrive from the
// goroutine reading tool output.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	live     bool // out is a terminal, so \r progress lines are shown
	progress bool // a progress line is currently on screen
}

// NewPrinter creates a printer on stdout and stderr.
func NewPrinter(verbose bool) *Printer {
	p := New(os.Stdout, os.Stderr, verbose)
	p.live = term.IsTerminal(int(os.Stdout.Fd()))
	return p
}

// New creates a printer on arbitrary writers. Live progress lines are off.
func New(out, errOut io.Writer, verbose bool) *Printer {
	return &Printer{out: out, errOut: errOut, verbose: verbose}
}

// Phase prints a section banner.
func (p *Printer) Phase(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endProgressLocked()
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, rule)
}

// Infof prints a plain status line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.out, "", format, args...)
}

// Successf prints a completed-step line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.out, "  ✓ ", format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.out, "⚠️  ", format, args...)
}

// Errorf prints an error line to errOut.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.errOut, "❌ ", format, args...)
}

// Debugf prints only in verbose mode.
func (p *Printer) Debugf(format string, args ...any) {
	if !p.verbose {
		return
	}
	p.line(p.out, "  · ", format, args...)
}

// Progress redraws the concat or compression progress line in place. It is a no-op
// when stdout is not a terminal, except for the final state.
func (p *Printer) Progress(ep *models.EncodingProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ep.State {
	case models.ProgressStateCompleted, models.ProgressStateFailed:
		p.endProgressLocked()
		return
	}
	if !p.live {
		return
	}

	status := ep.FormatSummary()
	if ep.State == models.ProgressStateMuxing {
		status = "muxing..."
	}
	fmt.Fprintf(p.out, "\r  ⏳ %-60s", status)
	p.progress = true
}

func (p *Printer) line(w io.Writer, prefix, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endProgressLocked()

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, prefix+strings.TrimRight(msg, "\n"))
}

func (p *Printer) endProgressLocked() {
	if p.progress {
		fmt.Fprintln(p.out)
		p.progress = false
	}
}
