// Package token defines language keywords and tokens used when lexing source code.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code. Tokens are
// immutable once produced; AST nodes hold copies for diagnostics.
type Token struct {
	Type Type

	// Lexeme is the exact source text of the token.
	Lexeme string

	// Value is the literal payload: float64 for NUMBER, string for STRING,
	// nil for everything else.
	Value any

	StartPosition Position
}

// Line returns the 1-indexed source line of the token.
func (t Token) Line() int {
	return t.StartPosition.LineNumber()
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}

// Synthetic returns a token that does not originate from source text but is
// attributed to the position of at. The parser uses it when desugaring.
func Synthetic(typ Type, lexeme string, at Token) Token {
	return Token{Type: typ, Lexeme: lexeme, StartPosition: at.StartPosition}
}

// Token types
const (
	AND       Type = "AND"
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	BANG      Type = "!"
	BREAK     Type = "BREAK"
	CLASS     Type = "CLASS"
	COLON     Type = ":"
	COMMA     Type = ","
	CONCAT    Type = "++"
	DO        Type = "DO"
	ELSE      Type = "ELSE"
	END       Type = "END"
	EOF       Type = "EOF"
	EQ        Type = "=="
	FALSE     Type = "FALSE"
	FOR       Type = "FOR"
	FUNCTION  Type = "FUN"
	GT        Type = ">"
	GT_EQUALS Type = ">="
	IDENT     Type = "IDENT"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	LBRACE    Type = "{"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	MOD       Type = "%"
	NIL       Type = "NIL"
	NOT_EQ    Type = "!="
	NUMBER    Type = "NUMBER"
	OR        Type = "OR"
	PERIOD    Type = "."
	PLUS      Type = "+"
	PRINT     Type = "PRINT"
	QUESTION  Type = "?"
	RBRACE    Type = "}"
	RETURN    Type = "RETURN"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	STRING    Type = "STRING"
	SUPER     Type = "SUPER"
	THIS      Type = "THIS"
	TRUE      Type = "TRUE"
	VAR       Type = "VAR"
	WHILE     Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"and":    AND,
	"break":  BREAK,
	"class":  CLASS,
	"do":     DO,
	"else":   ELSE,
	"end":    END,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUNCTION,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	return names
}
