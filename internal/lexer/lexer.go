// Package lexer converts Midas source text into a stream of tokens.
//
// A Lexer is created with New and drained by calling Next until a token of
// type token.EOF is returned. Lexical errors do not stop the lexer: Next
// returns an ILLEGAL token together with the error and scanning resumes at
// the following character.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/midas-lang/midas/token"
)

// Lexer holds our object-state.
type Lexer struct {
	// The input source code
	input string

	// The position of the character being examined
	position int

	// The position of the next character to be read
	readPosition int

	// The current character
	ch byte

	// The current line number (0-indexed)
	line int

	// Byte offset of the start of the current line
	lineStart int

	// Filename attached to every produced position
	file string
}

// Error describes a lexical error at a position in the input.
type Error struct {
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Position.LineNumber(), e.Message)
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFilename sets the file name attached to token positions.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.file = filename
	}
}

// New returns a Lexer for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range options {
		opt(l)
	}
	l.readChar()
	return l
}

// SetFilename sets the filename attached to produced positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename attached to produced positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Tokenize scans the whole input and returns every token, always ending with
// an EOF token. Any lexical errors are aggregated into a multierror.
func Tokenize(input string, options ...Option) ([]token.Token, error) {
	l := New(input, options...)
	var result *multierror.Error
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			result = multierror.Append(result, err)
		}
		if tok.Type == token.ILLEGAL {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, result.ErrorOrNil()
}

// Next returns the next token from the input. After the input is exhausted,
// every call returns an EOF token.
func (l *Lexer) Next() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.ch != '#' {
			break
		}
		l.skipComment()
	}
	start := l.pos()
	if l.ch == 0 && l.position >= len(l.input) {
		return token.Token{Type: token.EOF, StartPosition: start}, nil
	}
	ch := l.ch
	switch ch {
	case '(':
		return l.single(token.LPAREN, start), nil
	case ')':
		return l.single(token.RPAREN, start), nil
	case '{':
		return l.single(token.LBRACE, start), nil
	case '}':
		return l.single(token.RBRACE, start), nil
	case ',':
		return l.single(token.COMMA, start), nil
	case ':':
		return l.single(token.COLON, start), nil
	case '.':
		return l.single(token.PERIOD, start), nil
	case '-':
		return l.single(token.MINUS, start), nil
	case '%':
		return l.single(token.MOD, start), nil
	case '?':
		return l.single(token.QUESTION, start), nil
	case ';':
		return l.single(token.SEMICOLON, start), nil
	case '/':
		return l.single(token.SLASH, start), nil
	case '*':
		return l.single(token.ASTERISK, start), nil
	case '+':
		return l.oneOrTwo('+', token.PLUS, token.CONCAT, start), nil
	case '!':
		return l.oneOrTwo('=', token.BANG, token.NOT_EQ, start), nil
	case '=':
		return l.oneOrTwo('=', token.ASSIGN, token.EQ, start), nil
	case '<':
		return l.oneOrTwo('=', token.LT, token.LT_EQUALS, start), nil
	case '>':
		return l.oneOrTwo('=', token.GT, token.GT_EQUALS, start), nil
	case '"':
		return l.readString(start)
	}
	if isDigit(ch) {
		return l.readNumber(start)
	}
	if isLetter(ch) {
		ident := l.readIdentifier()
		return token.Token{
			Type:          token.LookupIdentifier(ident),
			Lexeme:        ident,
			StartPosition: start,
		}, nil
	}
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: string(ch), StartPosition: start},
		&Error{Message: fmt.Sprintf("unexpected character %q", ch), Position: start}
}

// GetLineText returns the full text of the line on which the token starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	return LineText(l.input, tok.StartPosition)
}

// LineText returns the line of input containing the given position.
func LineText(input string, pos token.Position) string {
	if pos.LineStart > len(input) {
		return ""
	}
	rest := input[pos.LineStart:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimRight(rest, "\r")
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// newline records that the current character is a line break.
func (l *Lexer) newline() {
	l.line++
	l.lineStart = l.position + 1
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) {
		switch l.ch {
		case ' ', '\t', '\r':
		case '\n':
			l.newline()
		default:
			return
		}
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.position < len(l.input) {
		l.readChar()
	}
}

func (l *Lexer) single(typ token.Type, start token.Position) token.Token {
	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: typ, Lexeme: lexeme, StartPosition: start}
}

func (l *Lexer) oneOrTwo(next byte, one, two token.Type, start token.Position) token.Token {
	if l.peekChar() == next {
		lexeme := string([]byte{l.ch, next})
		l.readChar()
		l.readChar()
		return token.Token{Type: two, Lexeme: lexeme, StartPosition: start}
	}
	return l.single(one, start)
}

// readString reads a double-quoted string. Contents are raw: there are no
// escape sequences and the string may span lines.
func (l *Lexer) readString(start token.Position) (token.Token, error) {
	l.readChar() // opening quote
	contentStart := l.position
	for l.ch != '"' {
		if l.position >= len(l.input) {
			return token.Token{
					Type:          token.ILLEGAL,
					Lexeme:        l.input[start.Char:],
					StartPosition: start,
				}, &Error{
					Message:  "unterminated string",
					Position: start,
				}
		}
		if l.ch == '\n' {
			l.newline()
		}
		l.readChar()
	}
	value := l.input[contentStart:l.position]
	l.readChar() // closing quote
	return token.Token{
		Type:          token.STRING,
		Lexeme:        l.input[start.Char:l.position],
		Value:         value,
		StartPosition: start,
	}, nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	for isDigit(l.ch) {
		l.readChar()
	}
	// A fractional part requires at least one digit after the dot.
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start.Char:l.position]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, StartPosition: start},
			&Error{Message: fmt.Sprintf("invalid number %q", lexeme), Position: start}
	}
	return token.Token{
		Type:          token.NUMBER,
		Lexeme:        lexeme,
		Value:         value,
		StartPosition: start,
	}, nil
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
