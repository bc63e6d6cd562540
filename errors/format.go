package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter lays out errors in a Rust-like style with a location arrow,
// the offending source line and a caret underline.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError     = color.New(color.FgRed)
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorGutter    = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed, color.Bold)
	colorHint      = color.New(color.FgHiYellow)
	colorNote      = color.New(color.FgHiBlue)
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code       ErrorCode
	Kind       string // "error", "parse error", "runtime error", etc.
	Message    string
	Filename   string
	Line       int
	Column     int
	EndColumn  int // for multi-character underlines
	SourceLine string
	Hint       string // "Did you mean?" suggestion
	Note       string
	Stack      []StackFrame
}

// paint applies c when colors are enabled. Formatting always goes through
// SprintFunc-style calls so that color.NoColor is also respected.
func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats a single error.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5"
// shown in brackets after the error kind.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder
	width := len(fmt.Sprintf("%d", err.Line))
	if width < 2 {
		width = 2
	}
	gutter := strings.Repeat(" ", width)

	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	b.WriteString(f.paint(colorErrorBold, label))
	switch {
	case err.Code != "":
		b.WriteString(f.paint(colorCode, "["+string(err.Code)+"]"))
	case prefix != "":
		b.WriteString(f.paint(colorCode, "["+prefix+"]"))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Line > 0 || err.Filename != "" {
		loc := err.Filename
		if err.Line > 0 {
			pos := fmt.Sprintf("%d:%d", err.Line, err.Column)
			if loc != "" {
				loc += ":" + pos
			} else {
				loc = pos
			}
		}
		b.WriteString(gutter)
		b.WriteString(f.paint(colorLocation, "-->"))
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation, loc))
		b.WriteString("\n")
	}

	if err.SourceLine != "" && err.Line > 0 {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " |"))
		b.WriteString("\n")
		b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d | ", width, err.Line)))
		b.WriteString(err.SourceLine)
		b.WriteString("\n")
		if err.Column > 0 {
			carets := 1
			if err.EndColumn > err.Column {
				carets = err.EndColumn - err.Column
			}
			b.WriteString(gutter)
			b.WriteString(f.paint(colorGutter, " | "))
			b.WriteString(strings.Repeat(" ", err.Column-1))
			b.WriteString(f.paint(colorCaret, strings.Repeat("^", carets)))
			b.WriteString("\n")
		}
	}

	if err.Hint != "" {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	if len(err.Stack) > 0 {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorNote, "stack trace:"))
		b.WriteString("\n")
		for _, frame := range err.Stack {
			b.WriteString(gutter)
			b.WriteString("     ")
			b.WriteString(frame.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatMultiple formats a batch of errors, numbering each one and closing
// with a summary line.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorBold, fmt.Sprintf("found %d errors", len(errs))))
	b.WriteString("\n")
	return b.String()
}
