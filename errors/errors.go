// Package errors defines the error codes, display format and suggestion
// helpers shared by the Midas lexer, parser and interpreter.
package errors

import (
	"fmt"
	"strings"
)

// StackFrame represents a single active function call at the time a runtime
// error was raised.
type StackFrame struct {
	Function string
	Filename string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	loc := fmt.Sprintf("line %d", f.Line)
	if f.Filename != "" {
		loc = fmt.Sprintf("%s:%d", f.Filename, f.Line)
	}
	if f.Function != "" {
		return fmt.Sprintf("at %s (%s)", f.Function, loc)
	}
	return "at " + loc
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// MultiFormattableError is implemented by errors that aggregate several
// diagnostics, such as a batch of parse errors.
type MultiFormattableError interface {
	Error() string
	ToFormattedMultiple() []*FormattedError
}

// Render formats err for display. Errors that know how to describe
// themselves are laid out by the Formatter; anything else falls back to
// its Error() text.
func Render(err error, useColor bool) string {
	if err == nil {
		return ""
	}
	formatter := NewFormatter(useColor)
	switch e := err.(type) {
	case MultiFormattableError:
		return formatter.FormatMultiple(e.ToFormattedMultiple())
	case FormattableError:
		return formatter.Format(e.ToFormatted())
	default:
		return err.Error()
	}
}
