// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// MaxAttempts bounds how many invalid answers Confirm accepts before giving up.
const MaxAttempts = 3

var (
	// ErrRejected is returned when the operator answers no.
	ErrRejected = errors.New("declined by operator")

	// ErrNoAnswer is returned when input ends or every attempt was invalid.
	ErrNoAnswer = errors.New("no valid answer")

	// ErrNotInteractive is returned when stdin is not a terminal.
	ErrNotInteractive = errors.New("stdin is not a terminal; use -y to skip confirmation")
)

// Answer is the parsed reply to a yes/no question.
type Answer int

const (
	Invalid Answer = iota
	Confirmed
	Rejected
)

func (a Answer) String() string {
	switch a {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// ParseAnswer maps y/yes and n/no, in any case, to an Answer.
func ParseAnswer(s string) Answer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Confirmed
	case "n", "no":
		return Rejected
	default:
		return Invalid
	}
}

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a prompter over arbitrary streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: true}
}

// NewTerminalPrompter creates a prompter on stdin and stdout. Confirm
// fails with ErrNotInteractive when stdin is not a terminal.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	p.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return p
}

// Confirm asks question until it gets y or n, at most MaxAttempts times.
//
// Returns nil when confirmed, ErrRejected when declined, ErrNoAnswer when
// input ends or runs out of attempts.
func (p *Prompter) Confirm(question string) error {
	if !p.interactive {
		return ErrNotInteractive
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s (y/n) ", question)

		line, err := p.in.ReadString('\n')
		answer := ParseAnswer(line)
		switch answer {
		case Confirmed:
			fmt.Fprintln(p.out, "Confirmed")
			return nil
		case Rejected:
			return ErrRejected
		}

		if err != nil {
			fmt.Fprintln(p.out)
			return ErrNoAnswer
		}
		fmt.Fprintln(p.out, "Invalid response. Please type y or n")
	}

	return ErrNoAnswer
}
