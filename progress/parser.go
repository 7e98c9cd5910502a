// Package progress turns the progress lines printed by HandBrakeCLI and
// ffmpeg into models.EncodingProgress updates.
package progress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"leafmerge/internal/timeutil"
	"leafmerge/models"
)

// Parser parses transcode progress output.
type Parser struct {
	// HandBrakeCLI: "Encoding: task 1 of 1, 45.23 % (120.50 fps, avg 110.20 fps, ETA 00h01m02s)"
	taskRegex *regexp.Regexp
	rateRegex *regexp.Regexp

	// ffmpeg -progress keys ("out_time=00:00:04.000000", "fps=0.00", "speed=80.5x"),
	// also matched inside a -stats line ("frame=  24 fps=25.0 ... time=00:00:01.00 ... speed=2.00x")
	timeRegex  *regexp.Regexp
	fpsRegex   *regexp.Regexp
	speedRegex *regexp.Regexp
}

// NewParser creates a parser for HandBrakeCLI and ffmpeg progress output.
func NewParser() *Parser {
	return &Parser{
		taskRegex:  regexp.MustCompile(`Encoding: task (\d+) of (\d+), ([0-9.]+) %`),
		rateRegex:  regexp.MustCompile(`\(([0-9.]+) fps, avg ([0-9.]+) fps, ETA (\d+h\d+m\d+s)\)`),
		timeRegex:  regexp.MustCompile(`(?:^|\s)(?:out_)?time=\s*([0-9:.]+)`),
		fpsRegex:   regexp.MustCompile(`(?:^|\s)fps=\s*([0-9.]+)`),
		speedRegex: regexp.MustCompile(`(?:^|\s)speed=\s*([0-9.]+)x?`),
	}
}

// ParseLine parses a single progress line and updates p.
// It returns true when the line carried progress information.
func (pp *Parser) ParseLine(line string, p *models.EncodingProgress) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, "Muxing:") {
		p.State = models.ProgressStateMuxing
		return true
	}

	if m := pp.taskRegex.FindStringSubmatch(line); m != nil {
		p.Pass, _ = strconv.Atoi(m[1])
		p.TotalPass, _ = strconv.Atoi(m[2])
		if pct, err := strconv.ParseFloat(m[3], 64); err == nil {
			p.SetPercent(pct)
		}
		if r := pp.rateRegex.FindStringSubmatch(line); r != nil {
			p.FPS, _ = strconv.ParseFloat(r[1], 64)
			p.AverageFPS, _ = strconv.ParseFloat(r[2], 64)
			if eta, err := timeutil.ParseETA(r[3]); err == nil {
				p.ReportedETA = eta
			}
		}
		p.State = models.ProgressStateEncoding
		return true
	}

	updated := false

	if m := pp.timeRegex.FindStringSubmatch(line); m != nil {
		if seconds, err := timeutil.ParseClock(m[1]); err == nil {
			p.CurrentTime = m[1]
			p.CalculateProgress(seconds)
			updated = true
		}
	}

	if m := pp.fpsRegex.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.FPS = fps
			updated = true
		}
	}

	if m := pp.speedRegex.FindStringSubmatch(line); m != nil {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Speed = speed
			updated = true
		}
	}

	if updated {
		p.State = models.ProgressStateEncoding
	}
	return updated
}

// StreamProgress reads tool output until EOF and invokes callback for
// every line that updated p. Both tools redraw their status line with
// '\r', so carriage returns are treated as line breaks.
func (pp *Parser) StreamProgress(r io.Reader, p *models.EncodingProgress, callback models.ProgressCallback) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(ScanLinesCR)

	for scanner.Scan() {
		if pp.ParseLine(scanner.Text(), p) && callback != nil {
			callback(p)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading progress output: %w", err)
	}
	return nil
}

// ScanLinesCR is a bufio.SplitFunc that splits on '\n', '\r' or "\r\n".
func ScanLinesCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		} else if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// A lone '\r' at the end of the buffer may be the first half of "\r\n".
			return 0, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
