package errors

import (
	"fmt"
	"os"
	"strings"
)

// colorEnabled gates ANSI escapes. The CLI turns it off for NO_COLOR
// and non-terminal output.
var colorEnabled = true

// DisableColors turns off ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI color output back on.
func EnableColors() { colorEnabled = true }

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func red(s string) string  { return paint(ansiRed, s) }
func blue(s string) string { return paint(ansiBlue, s) }
func cyan(s string) string { return paint(ansiCyan, s) }
func gray(s string) string { return paint(ansiGray, s) }
func bold(s string) string { return paint(ansiBold, s) }

// Format renders the error for terminal display: a header, the source
// excerpt if a location is known, then detail, hint, and doc link.
func (e *ToolError) Format() string {
	var b strings.Builder
	b.WriteString("\n")

	header := "ERROR: "
	if e.Code != "" {
		header = "ERROR " + e.Code + ": "
	}
	b.WriteString(red(bold(header)))
	b.WriteString(bold(e.Message))
	b.WriteString("\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", cyan(e.Location.String()))
		e.writeExcerpt(&b)
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 72) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", cyan("Hint: "), e.Suggestion)
	}

	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", gray("Learn more: "), blue(e.DocURL))
	}

	return b.String()
}

// writeExcerpt prints the captured context lines with a marker on the
// failing line and a caret under the failing column.
func (e *ToolError) writeExcerpt(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}

	first := e.Location.Line - len(e.Context)/2
	if first < 1 {
		first = 1
	}

	for i, text := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d %s %s\n", n, gray("│"), text)
			continue
		}

		fmt.Fprintf(b, "  %s%4d %s %s\n", red("→ "), n, gray("│"), text)
		if e.Location.Column > 0 {
			pad := strings.Repeat(" ", e.Location.Column-1)
			fmt.Fprintf(b, "         %s %s%s\n", gray("│"), pad, red("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact renders the error as a single grep-friendly line.
func (e *ToolError) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// wrapText greedily wraps text at word boundaries.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}

// PrintError writes a formatted error to stderr. Errors that carry no
// structure get a minimal header instead.
func PrintError(err error) {
	if te, ok := err.(*ToolError); ok {
		fmt.Fprint(os.Stderr, te.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n\n", red(bold("ERROR:")), err.Error())
}
