// Package ast defines the abstract syntax tree representation of Midas code.
//
// Expressions and statements are closed sets: every node type implements
// exactly one of Expr or Stmt through an unexported marker method, so that
// consumers can type-switch over them exhaustively. Nodes are built once by
// the parser and never mutated afterwards.
package ast

import "github.com/midas-lang/midas/token"

// Node represents a portion of the syntax tree.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns Midas source text for the node. Parsing the result
	// yields a structurally identical tree.
	String() string
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node. Statements are executed for effect.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the ordered list of top-level statements of a source file.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	return joinStmts(p.Stmts, "\n")
}

// Pos returns the position of the first statement, or NoPos for an empty
// program.
func (p *Program) Pos() token.Position {
	if len(p.Stmts) == 0 {
		return token.NoPos
	}
	return p.Stmts[0].Pos()
}
