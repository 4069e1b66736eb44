// Package console is the terminal side of a drill session: it reads the
// learner's answers and prints the outcome of every step.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/pavelanni/drill/internal/i18n"
	"github.com/pavelanni/drill/internal/scheduler"
)

// DefaultMaxYesNoAttempts bounds how often YesNo asks again.
const DefaultMaxYesNoAttempts = 5

var ErrTooManyAttempts = errors.New("console: too many invalid answers")

var _ scheduler.Prompter = (*Prompter)(nil)

type line struct {
	text string
	err  error
}

// Prompter reads one line per question. A single goroutine reads the input
// so a cancelled context can interrupt a pending question.
type Prompter struct {
	MaxYesNoAttempts int

	out     io.Writer
	printer *i18n.Printer
	in      *bufio.Reader
	once    sync.Once
	lines   chan line
}

// NewPrompter reads from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer, printer *i18n.Printer) *Prompter {
	return &Prompter{
		MaxYesNoAttempts: DefaultMaxYesNoAttempts,
		out:              out,
		printer:          printer,
		in:               bufio.NewReader(in),
		lines:            make(chan line),
	}
}

func (p *Prompter) readLoop() {
	for {
		s, err := p.in.ReadString('\n')
		if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
			p.lines <- line{err: err}
			close(p.lines)
			return
		}
		p.lines <- line{text: strings.TrimRight(s, "\r\n")}
	}
}

// readLine returns the next input line without its line ending.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.once.Do(func() { go p.readLoop() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// NextAnswer prints the prompt and returns the trimmed answer.
func (p *Prompter) NextAnswer(ctx context.Context, pr scheduler.Prompt) (string, error) {
	fmt.Fprint(p.out, pr.String())
	s, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Ask prints question and returns the raw answer, untrimmed. An empty answer
// is valid.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)
	return p.readLine(ctx)
}

// YesNo asks question until the answer is a localized yes or no, at most
// MaxYesNoAttempts times.
func (p *Prompter) YesNo(ctx context.Context, question string) (bool, error) {
	yes := splitAnswers(p.printer.T("YesAnswers"))
	no := splitAnswers(p.printer.T("NoAnswers"))
	attempts := p.MaxYesNoAttempts
	if attempts <= 0 {
		attempts = DefaultMaxYesNoAttempts
	}

	for range attempts {
		fmt.Fprintf(p.out, "%s %s\n", question, p.printer.T("YesNoHint"))
		s, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		a := strings.ToLower(strings.TrimSpace(s))
		switch {
		case slices.Contains(yes, a):
			return true, nil
		case slices.Contains(no, a):
			return false, nil
		}
	}
	return false, ErrTooManyAttempts
}

// Confirm prints question and reports whether the learner just pressed enter.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	s, err := p.Ask(ctx, question)
	if err != nil {
		return false, err
	}
	return s == "", nil
}

func splitAnswers(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}
