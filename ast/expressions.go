package ast

import (
	"strconv"
	"strings"

	"github.com/midas-lang/midas/token"
)

// Literal is a constant value written directly in the source: a number
// (float64), a string, a boolean or nil.
type Literal struct {
	Token token.Token
	Value any
}

func (x *Literal) exprNode() {}

func (x *Literal) Pos() token.Position { return x.Token.StartPosition }

func (x *Literal) String() string {
	switch v := x.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return `"` + v + `"`
	default:
		return x.Token.Lexeme
	}
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Lparen token.Token
	X      Expr
}

func (x *Grouping) exprNode() {}

func (x *Grouping) Pos() token.Position { return x.Lparen.StartPosition }

func (x *Grouping) String() string { return "(" + x.X.String() + ")" }

// Unary is an operator expression where the operator precedes the operand:
// "!x" or "-x".
type Unary struct {
	Op token.Token
	X  Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.Op.StartPosition }

func (x *Unary) String() string { return x.Op.Lexeme + x.X.String() }

// Binary is an arithmetic, comparison, equality, concatenation or comma
// expression.
type Binary struct {
	X  Expr
	Op token.Token
	Y  Expr
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }

func (x *Binary) String() string {
	if x.Op.Type == token.COMMA {
		return x.X.String() + ", " + x.Y.String()
	}
	return x.X.String() + " " + x.Op.Lexeme + " " + x.Y.String()
}

// Logical is a short-circuiting "and" / "or" expression.
type Logical struct {
	X  Expr
	Op token.Token
	Y  Expr
}

func (x *Logical) exprNode() {}

func (x *Logical) Pos() token.Position { return x.X.Pos() }

func (x *Logical) String() string {
	return x.X.String() + " " + x.Op.Lexeme + " " + x.Y.String()
}

// Ternary evaluates to Then when Cond is truthy and to Else otherwise.
type Ternary struct {
	Cond     Expr
	Question token.Token
	Then     Expr
	Else     Expr
}

func (x *Ternary) exprNode() {}

func (x *Ternary) Pos() token.Position { return x.Cond.Pos() }

func (x *Ternary) String() string {
	return x.Cond.String() + " ? " + x.Then.String() + " : " + x.Else.String()
}

// Variable is a reference to a named binding.
type Variable struct {
	Name token.Token
}

func (x *Variable) exprNode() {}

func (x *Variable) Pos() token.Position { return x.Name.StartPosition }

func (x *Variable) String() string { return x.Name.Lexeme }

// Assign rebinds an existing variable.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Name.StartPosition }

func (x *Assign) String() string { return x.Name.Lexeme + " = " + x.Value.String() }

// Call is a function invocation. Paren is the closing parenthesis, used to
// attribute runtime errors.
type Call struct {
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Callee.Pos() }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, arg := range x.Args {
		args = append(args, arg.String())
	}
	return x.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// BadExpr stands in for an expression containing syntax errors. It is used
// by the parser to continue parsing after an error, allowing subsequent
// errors to be detected. A tree containing a BadExpr is never executed.
type BadExpr struct {
	Token token.Token
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.Token.StartPosition }

func (x *BadExpr) String() string { return "<bad expression>" }
