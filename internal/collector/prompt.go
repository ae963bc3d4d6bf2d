package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned when input ends while an answer is still expected.
var ErrInputClosed = errors.New("input closed before all questions were answered")

// Prompter asks single-line questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter wraps in and out. Answers are read line by line.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer.
// A final line without trailing newline still counts as an answer.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", question); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimSpace(line), nil
}

// AskRequired repeats question until a non-empty answer is given.
func (p *Prompter) AskRequired(question string) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.Println("  A value is required.")
	}
}

// Confirm asks a yes/no question; only "y" and "yes" (any case) mean yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + " (y/N)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Println writes a line of plain output between questions.
func (p *Prompter) Println(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", a...)
}
