// Package parser is used to generate the abstract syntax tree (AST) for a
// program.
//
// The parser is a recursive-descent parser over a token slice with
// single-token lookahead. Every precedence level of the grammar has its own
// method; binary levels fold left-associative chains in a loop, while the
// ternary and assignment levels recurse into themselves on the right.
//
// On a syntax error the parser records a diagnostic and unwinds to the
// statement level, where it discards tokens until a likely statement
// boundary (panic-mode recovery). Parsing then continues so that several
// independent errors are reported in one pass. A program that produced any
// diagnostic must not be executed.
package parser

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/internal/lexer"
	"github.com/midas-lang/midas/token"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// MaxArity is the maximum number of parameters a function may declare and
// the maximum number of arguments a call may pass.
const MaxArity = 32

// errSync is the control signal raised by a fatal syntax error. It unwinds
// to declaration(), which synchronizes and resumes parsing. The diagnostic
// itself has already been recorded when errSync is returned.
var errSync = goerrors.New("parse error")

// Parse the provided input as Midas source code and return the AST. This is
// shorthand way to run the lexer and then call Parse on the resulting
// tokens. Lexical errors are reported alongside parse errors.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var opts Parser
	for _, opt := range options {
		opt(&opts)
	}
	tokens, lexErr := lexer.Tokenize(input, lexer.WithFilename(opts.filename))

	options = append([]Option{WithSource(input)}, options...)
	p := New(tokens, options...)
	if lexErr != nil {
		var merr *multierror.Error
		if goerrors.As(lexErr, &merr) {
			for _, err := range merr.Errors {
				p.addLexerError(err)
			}
		}
	}
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in diagnostics.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithSource supplies the source text the tokens were produced from, so
// diagnostics can quote the offending line.
func WithSource(source string) Option {
	return func(p *Parser) {
		p.source = source
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithErrorHandler registers a callback invoked for each diagnostic as soon
// as it is found, before Parse returns.
func WithErrorHandler(fn func(ParserError)) Option {
	return func(p *Parser) {
		p.handler = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// tokens is the input token stream, terminated by EOF
	tokens []token.Token

	// current indexes the next token to be consumed
	current int

	// loopDepth counts enclosing while/for bodies; break is only legal
	// when it is positive
	loopDepth int

	// funcDepth counts enclosing function bodies; return is only legal
	// when it is positive
	funcDepth int

	// parsing errors collected during parsing
	errors []ParserError

	// The filename of the input
	filename string

	// The source text, used to quote lines in diagnostics
	source string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int

	handler func(ParserError)
	logger  zerolog.Logger
}

// New returns a Parser for the given token stream. If the stream does not
// end with an EOF token, one is appended.
func New(tokens []token.Token, options ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Type != token.EOF {
		var pos token.Position
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].StartPosition
		}
		p.tokens = append(p.tokens[:len(p.tokens):len(p.tokens)],
			token.Token{Type: token.EOF, StartPosition: pos})
	}
	return p
}

// Parse the program that is provided via the token stream.
// Returns the AST and any errors encountered. If there are errors, the AST
// is partial (containing only successfully parsed statements) and must not
// be executed.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	var statements []ast.Stmt
	for !p.isAtEnd() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.logger.Debug().
		Str("file", p.filename).
		Int("statements", len(statements)).
		Int("errors", len(p.errors)).
		Msg("parsed program")
	program := &ast.Program{Stmts: statements}
	if p.hasErrors() {
		return program, NewErrors(p.errors)
	}
	return program, nil
}

// addError appends an error to the errors slice and notifies the handler.
func (p *Parser) addError(err ParserError) {
	p.errors = append(p.errors, err)
	if p.handler != nil {
		p.handler(err)
	}
}

func (p *Parser) addLexerError(err error) {
	var lexErr *lexer.Error
	if !goerrors.As(err, &lexErr) {
		p.addError(NewSyntaxError(ErrorOpts{Cause: err, File: p.filename}))
		return
	}
	code := errors.E1003
	if lexErr.Message == "unterminated string" {
		code = errors.E1002
	}
	p.addError(NewSyntaxError(ErrorOpts{
		Code:       code,
		Message:    lexErr.Message,
		File:       p.filename,
		Token:      token.Token{Type: token.ILLEGAL, StartPosition: lexErr.Position},
		SourceCode: lexer.LineText(p.source, lexErr.Position),
	}))
}

// hasErrors returns true if any errors have been recorded.
func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// errorAt records a diagnostic at tok and returns the sync signal. Callers
// reporting a non-fatal error simply ignore the return value.
func (p *Parser) errorAt(tok token.Token, code errors.ErrorCode, msg string, args ...any) error {
	p.addError(NewParserError(ErrorOpts{
		Code:       code,
		Message:    fmt.Sprintf(msg, args...),
		File:       p.filename,
		Token:      tok,
		SourceCode: lexer.LineText(p.source, tok.StartPosition),
	}))
	return errSync
}

// synchronize discards tokens until a statement boundary is reached: just
// after a semicolon, or just before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUNCTION, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// enter increments the nesting depth, failing once it exceeds the limit.
// Every successful enter must be paired with leave.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		return p.errorAt(p.peek(), errors.E1009, "maximum nesting depth exceeded")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// match consumes the next token if it has any of the given types.
func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume returns the next token if it has the expected type, otherwise it
// records msg at that token and returns the sync signal.
func (p *Parser) consume(t token.Type, code errors.ErrorCode, msg string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), code, "%s", msg)
}

// check reports whether the next token has the given type.
func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
