package ast

import (
	"fmt"

	"github.com/midas-lang/midas/token"
)

// Dump converts a node into nested maps and slices that mirror the tree
// shape, suitable for encoding as JSON or YAML. Every map carries a "node"
// key naming the node type and a "line" key.
func Dump(node Node) map[string]any {
	if node == nil {
		return nil
	}
	out := map[string]any{"line": node.Pos().LineNumber()}
	switch n := node.(type) {
	case *Program:
		out["node"] = "Program"
		out["statements"] = dumpStmts(n.Stmts)
	case *Literal:
		out["node"] = "Literal"
		out["value"] = n.Value
	case *Grouping:
		out["node"] = "Grouping"
		out["expression"] = Dump(n.X)
	case *Unary:
		out["node"] = "Unary"
		out["operator"] = n.Op.Lexeme
		out["operand"] = Dump(n.X)
	case *Binary:
		out["node"] = "Binary"
		out["operator"] = n.Op.Lexeme
		out["left"] = Dump(n.X)
		out["right"] = Dump(n.Y)
	case *Logical:
		out["node"] = "Logical"
		out["operator"] = n.Op.Lexeme
		out["left"] = Dump(n.X)
		out["right"] = Dump(n.Y)
	case *Ternary:
		out["node"] = "Ternary"
		out["condition"] = Dump(n.Cond)
		out["then"] = Dump(n.Then)
		out["else"] = Dump(n.Else)
	case *Variable:
		out["node"] = "Variable"
		out["name"] = n.Name.Lexeme
	case *Assign:
		out["node"] = "Assign"
		out["name"] = n.Name.Lexeme
		out["value"] = Dump(n.Value)
	case *Call:
		out["node"] = "Call"
		out["callee"] = Dump(n.Callee)
		args := make([]any, 0, len(n.Args))
		for _, arg := range n.Args {
			args = append(args, Dump(arg))
		}
		out["arguments"] = args
	case *BadExpr:
		out["node"] = "BadExpr"
	case *Expression:
		out["node"] = "Expression"
		out["expression"] = Dump(n.X)
	case *Print:
		out["node"] = "Print"
		out["expression"] = Dump(n.X)
	case *Var:
		out["node"] = "Var"
		out["name"] = n.Name.Lexeme
		if n.Init != nil {
			out["initializer"] = Dump(n.Init)
		}
	case *Block:
		out["node"] = "Block"
		out["statements"] = dumpStmts(n.Stmts)
	case *If:
		out["node"] = "If"
		out["condition"] = Dump(n.Cond)
		out["then"] = Dump(n.Then)
		if n.Else != nil {
			out["else"] = Dump(n.Else)
		}
	case *While:
		out["node"] = "While"
		out["condition"] = Dump(n.Cond)
		out["body"] = Dump(n.Body)
	case *Function:
		out["node"] = "Function"
		out["name"] = n.Name.Lexeme
		out["params"] = lexemes(n.Params)
		out["body"] = dumpStmts(n.Body)
	case *Return:
		out["node"] = "Return"
		if n.Value != nil {
			out["value"] = Dump(n.Value)
		}
	case *Break:
		out["node"] = "Break"
	default:
		out["node"] = fmt.Sprintf("%T", node)
	}
	return out
}

func dumpStmts(stmts []Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, Dump(stmt))
	}
	return out
}

func lexemes(tokens []token.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Lexeme)
	}
	return out
}
