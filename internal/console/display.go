package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pavelanni/drill/internal/i18n"
	"github.com/pavelanni/drill/internal/scheduler"
)

var _ scheduler.Display = (*Display)(nil)

// Display prints scheduler events, colored unless disabled.
type Display struct {
	out     io.Writer
	printer *i18n.Printer

	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

// NewDisplay writes to out. noColor turns escape codes off regardless of the
// terminal.
func NewDisplay(out io.Writer, printer *i18n.Printer, noColor bool) *Display {
	d := &Display{
		out:     out,
		printer: printer,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{d.green, d.red, d.yellow} {
			c.DisableColor()
		}
	}
	return d
}

// Show implements scheduler.Display.
func (d *Display) Show(e scheduler.Event) {
	switch ev := e.(type) {
	case scheduler.Correct:
		msg := d.printer.T("Correct")
		if len(ev.Entry.Solutions) > 1 {
			msg = d.printer.Td("CorrectAll", map[string]any{"Solutions": d.quoted(ev.Entry.Solutions, d.green)})
		}
		fmt.Fprintf(d.out, "[%s] %s\n", d.green.Sprint("C"), msg)

	case scheduler.Incorrect:
		expected := d.yellow.Sprint(firstOr(ev.Expected))
		if len(ev.Expected) > 1 {
			expected = "[" + d.quoted(ev.Expected, d.yellow) + "]"
		}
		fmt.Fprintf(d.out, "[%s] %s\n", d.red.Sprint("X"), d.printer.Td("AnswerWas", map[string]any{"Expected": expected}))

	case scheduler.Skipped:
		fmt.Fprintln(d.out, d.yellow.Sprint(d.printer.T("Skipping")))

	case scheduler.Saved:
		fmt.Fprintln(d.out, d.green.Sprint(d.printer.Td("SavedForLater", map[string]any{"Name": ev.Name})))

	case scheduler.SaveFailed:
		fmt.Fprintln(d.out, d.red.Sprint(d.printer.Td("SaveFailed", map[string]any{"Name": ev.Name, "Error": ev.Err})))

	case scheduler.Finished:
		fmt.Fprintln(d.out, d.printer.Td("QuizFinished", map[string]any{
			"Seconds": fmt.Sprintf("%.2f", ev.ElapsedSeconds()),
			"Correct": ev.CorrectCount,
			"Total":   ev.TotalCount,
		}))
	}
}

// Notice prints a plain localized line.
func (d *Display) Notice(msg string) {
	fmt.Fprintln(d.out, msg)
}

// Warn prints a localized line in yellow.
func (d *Display) Warn(msg string) {
	fmt.Fprintln(d.out, d.yellow.Sprint(msg))
}

func (d *Display) quoted(words []string, c *color.Color) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = "'" + c.Sprint(w) + "'"
	}
	return strings.Join(parts, ", ")
}

func firstOr(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
