package parser

import (
	"fmt"

	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	ErrType    string
	Code       errors.ErrorCode
	Message    string
	Cause      error
	File       string
	Token      token.Token
	SourceCode string
}

// NewParserError returns a new BaseParserError populated with
// the given error data.
func NewParserError(opts ErrorOpts) *BaseParserError {
	if opts.ErrType == "" {
		opts.ErrType = "parse error"
	}
	return &BaseParserError{
		errType:    opts.ErrType,
		code:       opts.Code,
		message:    opts.Message,
		cause:      opts.Cause,
		file:       opts.File,
		token:      opts.Token,
		sourceCode: opts.SourceCode,
	}
}

// ParserError is an interface that all parser errors implement.
type ParserError interface {
	Type() string
	Code() errors.ErrorCode
	Message() string
	Cause() error
	File() string
	Token() token.Token
	StartPosition() token.Position
	Line() int
	SourceCode() string
	Error() string
	errors.FriendlyError
	errors.FormattableError
}

// BaseParserError is the simplest implementation of ParserError.
type BaseParserError struct {
	// Type of the error, e.g. "syntax error"
	errType string
	// Error code, e.g. E1004
	code errors.ErrorCode
	// The error message
	message string
	// The wrapped error
	cause error
	// File where the error occurred
	file string
	// The offending token
	token token.Token
	// Relevant line of source code text
	sourceCode string
}

// Error renders the diagnostic as "[line N] parse error at 'lexeme': message".
func (e *BaseParserError) Error() string {
	where := ""
	switch {
	case e.token.Type == token.EOF:
		where = " at end"
	case e.token.Lexeme != "":
		where = fmt.Sprintf(" at '%s'", e.token.Lexeme)
	}
	return fmt.Sprintf("[line %d] %s%s: %s", e.Line(), e.errType, where, e.Message())
}

func (e *BaseParserError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *BaseParserError) ToFormatted() *errors.FormattedError {
	start := e.token.StartPosition
	end := start.ColumnNumber() + len(e.token.Lexeme)
	return &errors.FormattedError{
		Code:       e.code,
		Kind:       e.errType,
		Message:    e.Message(),
		Filename:   e.file,
		Line:       start.LineNumber(),
		Column:     start.ColumnNumber(),
		EndColumn:  end,
		SourceLine: e.sourceCode,
	}
}

func (e *BaseParserError) Cause() error {
	return e.cause
}

// Message returns the message of the cause when set.
func (e *BaseParserError) Message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

func (e *BaseParserError) Code() errors.ErrorCode {
	return e.code
}

func (e *BaseParserError) Line() int {
	return e.token.Line()
}

func (e *BaseParserError) Token() token.Token {
	return e.token
}

func (e *BaseParserError) StartPosition() token.Position {
	return e.token.StartPosition
}

func (e *BaseParserError) File() string {
	return e.file
}

func (e *BaseParserError) SourceCode() string {
	return e.sourceCode
}

func (e *BaseParserError) Unwrap() error {
	return e.cause
}

func (e *BaseParserError) Type() string {
	return e.errType
}

// NewSyntaxError returns a new SyntaxError populated with the given error
// data. Syntax errors originate in the lexer.
func NewSyntaxError(opts ErrorOpts) *SyntaxError {
	opts.ErrType = "syntax error"
	return &SyntaxError{BaseParserError: NewParserError(opts)}
}

type SyntaxError struct {
	*BaseParserError
}

// Error omits the lexeme, which for lexical errors is the unexpected text
// already named in the message.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[line %d] %s: %s", e.Line(), e.errType, e.Message())
}

// Errors wraps multiple parser errors for multi-error reporting.
// It implements the error interface so it can be returned from Parse().
type Errors struct {
	errs []ParserError
}

// NewErrors creates an Errors from a slice of ParserError.
func NewErrors(errs []ParserError) *Errors {
	if len(errs) == 0 {
		return nil
	}
	return &Errors{errs: errs}
}

// Error implements the error interface. Returns the first error message.
func (e *Errors) Error() string {
	if len(e.errs) == 0 {
		return ""
	}
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.errs[0].Error(), len(e.errs)-1)
}

// Errors returns the underlying slice of parser errors.
func (e *Errors) Errors() []ParserError {
	return e.errs
}

// Count returns the number of errors.
func (e *Errors) Count() int {
	return len(e.errs)
}

// First returns the first error, or nil if empty.
func (e *Errors) First() ParserError {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

// FriendlyErrorMessage returns a formatted message showing all errors.
func (e *Errors) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).FormatMultiple(e.ToFormattedMultiple())
}

// ToFormattedMultiple converts all errors to FormattedError for display.
func (e *Errors) ToFormattedMultiple() []*errors.FormattedError {
	formatted := make([]*errors.FormattedError, 0, len(e.errs))
	for _, err := range e.errs {
		formatted = append(formatted, err.ToFormatted())
	}
	return formatted
}

// Unwrap returns the underlying errors for use with errors.Is/As.
func (e *Errors) Unwrap() []error {
	result := make([]error, len(e.errs))
	for i, err := range e.errs {
		result[i] = err
	}
	return result
}
