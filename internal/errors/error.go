package errors

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Category groups error codes by the part of the tool they come from.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryScaffold Category = "scaffold"
	CategoryBuild    Category = "build"
	CategoryDev      Category = "dev"
	CategoryDeploy   Category = "deploy"
)

// Location points at a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String renders the location in the file:line:column form editors
// understand. A nil location renders as the empty string.
func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// ToolError is the error type every CLI failure surfaces as. Beyond
// the message it can carry a source location with surrounding context,
// a fix suggestion, and a documentation link, all of which Format
// renders for the terminal.
type ToolError struct {
	Code       string
	Category   Category
	Message    string
	Detail     string
	Location   *Location
	Context    []string
	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *ToolError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records where the error happened and captures the
// surrounding source lines for the excerpt.
func (e *ToolError) WithLocation(file string, line, column int) *ToolError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromError extracts a location from errors shaped like
// compiler output ("file.go:14:6: message"). Errors in any other shape
// leave the location unset.
func (e *ToolError) WithLocationFromError(err error) *ToolError {
	if err == nil {
		return e
	}

	file, rest, ok := strings.Cut(err.Error(), ":")
	if !ok {
		return e
	}
	lineStr, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return e
	}
	colStr, _, _ := strings.Cut(rest, ":")

	line, err2 := strconv.Atoi(lineStr)
	if err2 != nil || line <= 0 {
		return e
	}
	col, _ := strconv.Atoi(colStr)

	e.Location = &Location{File: file, Line: line, Column: col}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion attaches a hint on how to fix the error.
func (e *ToolError) WithSuggestion(s string) *ToolError {
	e.Suggestion = s
	return e
}

// WithDetail attaches a longer explanation.
func (e *ToolError) WithDetail(d string) *ToolError {
	e.Detail = d
	return e
}

// Wrap records the underlying cause.
func (e *ToolError) Wrap(err error) *ToolError {
	e.Wrapped = err
	return e
}

// readContextLines pulls the lines around target out of the named file
// for the excerpt in Format. Missing files yield no context.
func readContextLines(name string, target, size int) []string {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil
	}

	lines := strings.Split(string(data), "\n")
	lo := target - size/2
	hi := target + size/2
	if lo < 1 {
		lo = 1
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo > hi {
		return nil
	}
	return lines[lo-1 : hi]
}

// New builds a ToolError from a registered code. Unregistered codes
// still produce a usable error so a bad call site never panics.
func New(code string) *ToolError {
	t, ok := registry[code]
	if !ok {
		return &ToolError{Code: code, Message: "Unknown error"}
	}
	return &ToolError{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}

// Newf builds an uncoded ToolError with a formatted message.
func Newf(category Category, format string, args ...any) *ToolError {
	return &ToolError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError lifts any error into a ToolError under the given code.
// ToolErrors pass through untouched, nil stays nil.
func FromError(err error, code string) *ToolError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*ToolError); ok {
		return te
	}
	return New(code).Wrap(err)
}
