package ast

import (
	"strings"

	"github.com/midas-lang/midas/token"
)

// Expression is an expression evaluated for its side effects.
type Expression struct {
	X Expr
}

func (s *Expression) stmtNode() {}

func (s *Expression) Pos() token.Position { return s.X.Pos() }

func (s *Expression) String() string { return s.X.String() + ";" }

// Print writes the display form of X to the interpreter's output.
type Print struct {
	Keyword token.Token
	X       Expr
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.Keyword.StartPosition }

func (s *Print) String() string { return "print " + s.X.String() + ";" }

// Var declares a variable in the current scope. Init is nil when the
// declaration has no initializer, in which case the variable holds nil.
type Var struct {
	Name token.Token
	Init Expr
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() token.Position { return s.Name.StartPosition }

func (s *Var) String() string {
	if s.Init == nil {
		return "var " + s.Name.Lexeme + ";"
	}
	return "var " + s.Name.Lexeme + " = " + s.Init.String() + ";"
}

// Block is a sequence of statements executed in a fresh child scope.
type Block struct {
	Open  token.Token
	Stmts []Stmt
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Open.StartPosition }

func (s *Block) String() string { return blockString(s.Stmts) }

// If executes Then when Cond is truthy, otherwise Else (which may be nil).
type If struct {
	Keyword token.Token
	Cond    Expr
	Then    Stmt
	Else    Stmt
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.Keyword.StartPosition }

func (s *If) String() string {
	var out strings.Builder
	out.WriteString("if (")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Then.String())
	if s.Else != nil {
		out.WriteString(" else ")
		out.WriteString(s.Else.String())
	}
	return out.String()
}

// While executes Body for as long as Cond is truthy or until a break.
// "for" loops are desugared into While by the parser.
type While struct {
	Keyword token.Token
	Cond    Expr
	Body    Stmt
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.Keyword.StartPosition }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// Function declares a named function in the current scope.
type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (s *Function) stmtNode() {}

func (s *Function) Pos() token.Position { return s.Name.StartPosition }

func (s *Function) String() string {
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.Lexeme)
	}
	return "fun " + s.Name.Lexeme + "(" + strings.Join(params, ", ") + ") " + blockString(s.Body)
}

// Return leaves the enclosing function, optionally with a value.
type Return struct {
	Keyword token.Token
	Value   Expr
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.Keyword.StartPosition }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// Break leaves the innermost enclosing loop.
type Break struct {
	Keyword token.Token
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.Keyword.StartPosition }

func (s *Break) String() string { return "break;" }

func blockString(stmts []Stmt) string {
	if len(stmts) == 0 {
		return "do end"
	}
	return "do " + joinStmts(stmts, " ") + " end"
}

func joinStmts(stmts []Stmt, sep string) string {
	parts := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		parts = append(parts, stmt.String())
	}
	return strings.Join(parts, sep)
}
