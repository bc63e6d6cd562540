package interpreter

import (
	"fmt"

	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/internal/lexer"
	"github.com/midas-lang/midas/token"
)

// RuntimeError is an error raised while executing a program. It is
// attributed to the token of the failing operation.
type RuntimeError struct {
	Code     errors.ErrorCode
	Token    token.Token
	Message  string
	Hint     string
	Filename string

	// SourceLine is the text of the line containing Token.
	SourceLine string

	// Stack lists the active calls, innermost first. It is empty for
	// errors raised in top-level code.
	Stack []errors.StackFrame

	cause error
}

// Error renders the error as "[line N] runtime error at 'lexeme': message",
// naming the operator, name or call that failed.
func (e *RuntimeError) Error() string {
	where := ""
	switch {
	case e.Token.Type == token.EOF:
		where = " at end"
	case e.Token.Lexeme != "":
		where = fmt.Sprintf(" at '%s'", e.Token.Lexeme)
	}
	return fmt.Sprintf("[line %d] runtime error%s: %s", e.Token.Line(), where, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.cause
}

// Line returns the 1-indexed line of the failing operation.
func (e *RuntimeError) Line() int {
	return e.Token.Line()
}

func (e *RuntimeError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the runtime error to a FormattedError for display.
func (e *RuntimeError) ToFormatted() *errors.FormattedError {
	pos := e.Token.StartPosition
	return &errors.FormattedError{
		Code:       e.Code,
		Kind:       "runtime error",
		Message:    e.Message,
		Filename:   e.Filename,
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		EndColumn:  pos.ColumnNumber() + len(e.Token.Lexeme),
		SourceLine: e.SourceLine,
		Hint:       e.Hint,
		Stack:      e.Stack,
	}
}

func (e *RuntimeError) withCause(err error) *RuntimeError {
	e.cause = err
	return e
}

// errorAt creates a RuntimeError at tok, capturing the current call stack.
func (in *Interpreter) errorAt(tok token.Token, code errors.ErrorCode, format string, args ...any) *RuntimeError {
	source := in.currentSource()
	return &RuntimeError{
		Code:       code,
		Token:      tok,
		Message:    fmt.Sprintf(format, args...),
		Filename:   source.Filename,
		SourceLine: lexer.LineText(source.Text, tok.StartPosition),
		Stack:      in.captureStack(tok),
	}
}

func (in *Interpreter) cancelled(tok token.Token, err error) *RuntimeError {
	return in.errorAt(tok, errors.E3008, "execution cancelled: %v", err).withCause(err)
}

// maxTraceFrames bounds the number of function frames kept in a stack
// trace.
const maxTraceFrames = 32

// captureStack describes the active calls, innermost first. Each frame
// reports the file and line executing within that function; the last one
// is the top-level code.
func (in *Interpreter) captureStack(at token.Token) []errors.StackFrame {
	if len(in.frames) == 0 {
		return nil
	}
	stack := make([]errors.StackFrame, 0, min(len(in.frames), maxTraceFrames)+1)
	line := at.Line()
	for i := len(in.frames) - 1; i >= 0; i-- {
		f := in.frames[i]
		if len(stack) < maxTraceFrames {
			stack = append(stack, errors.StackFrame{Function: f.name, Filename: f.source.Filename, Line: line})
		}
		line = f.call.Line()
	}
	return append(stack, errors.StackFrame{Function: "<main>", Filename: in.source.Filename, Line: line})
}
