package interpreter

import (
	"context"
	"math"

	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/scope"
	"github.com/midas-lang/midas/token"
)

func (in *Interpreter) eval(ctx context.Context, expr ast.Expr, env scope.Handle) (object.Object, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		return literal(x.Value), nil

	case *ast.Grouping:
		return in.eval(ctx, x.X, env)

	case *ast.Unary:
		right, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}
		return in.unary(x.Op, right)

	case *ast.Binary:
		left, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(ctx, x.Y, env)
		if err != nil {
			return nil, err
		}
		return in.binary(x.Op, left, right)

	case *ast.Logical:
		left, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}
		if x.Op.Type == token.OR {
			if left.IsTruthy() {
				return left, nil
			}
		} else if !left.IsTruthy() {
			return left, nil
		}
		return in.eval(ctx, x.Y, env)

	case *ast.Ternary:
		cond, err := in.eval(ctx, x.Cond, env)
		if err != nil {
			return nil, err
		}
		if cond.IsTruthy() {
			return in.eval(ctx, x.Then, env)
		}
		return in.eval(ctx, x.Else, env)

	case *ast.Variable:
		value, ok := in.arena.Get(env, x.Name.Lexeme)
		if !ok {
			return nil, in.undefined(x.Name, env)
		}
		return value, nil

	case *ast.Assign:
		value, err := in.eval(ctx, x.Value, env)
		if err != nil {
			return nil, err
		}
		if !in.arena.Assign(env, x.Name.Lexeme, value) {
			return nil, in.undefined(x.Name, env)
		}
		return value, nil

	case *ast.Call:
		return in.evalCall(ctx, x, env)

	case *ast.BadExpr:
		return nil, in.errorAt(x.Token, errors.E3007, "cannot evaluate an invalid expression")
	}
	return nil, in.errorAt(token.Token{StartPosition: expr.Pos()}, errors.E3007,
		"unsupported expression %T", expr)
}

// literal converts a literal payload produced by the parser.
func literal(value any) object.Object {
	switch v := value.(type) {
	case bool:
		return object.NewBool(v)
	case float64:
		return object.NewNumber(v)
	case string:
		return object.NewString(v)
	}
	return object.Nil
}

func (in *Interpreter) unary(op token.Token, right object.Object) (object.Object, error) {
	switch op.Type {
	case token.BANG:
		return object.NewBool(!right.IsTruthy()), nil
	case token.MINUS:
		n, ok := right.(*object.Number)
		if !ok {
			return nil, in.errorAt(op, errors.E3001, "Operand must be a number.")
		}
		return object.NewNumber(-n.Value()), nil
	}
	return nil, in.errorAt(op, errors.E3007, "unsupported unary operator %s", op.Lexeme)
}

func (in *Interpreter) binary(op token.Token, left, right object.Object) (object.Object, error) {
	switch op.Type {
	case token.COMMA:
		return right, nil
	case token.EQ:
		return object.NewBool(object.Equals(left, right)), nil
	case token.NOT_EQ:
		return object.NewBool(!object.Equals(left, right)), nil
	case token.CONCAT:
		return object.NewString(left.String() + right.String()), nil
	case token.GT, token.GT_EQUALS, token.LT, token.LT_EQUALS:
		return in.compare(op, left, right)
	}

	a, aok := left.(*object.Number)
	b, bok := right.(*object.Number)
	if !aok || !bok {
		return nil, in.errorAt(op, errors.E3001, "Operands must be numbers.")
	}
	x, y := a.Value(), b.Value()
	switch op.Type {
	case token.PLUS:
		return object.NewNumber(x + y), nil
	case token.MINUS:
		return object.NewNumber(x - y), nil
	case token.ASTERISK:
		return object.NewNumber(x * y), nil
	case token.SLASH:
		if y == 0 {
			return nil, in.errorAt(op, errors.E3002, "Cannot divide by zero.")
		}
		return object.NewNumber(x / y), nil
	case token.MOD:
		if y == 0 {
			return nil, in.errorAt(op, errors.E3002, "Cannot divide by zero.")
		}
		return object.NewNumber(math.Mod(x, y)), nil
	}
	return nil, in.errorAt(op, errors.E3007, "unsupported binary operator %s", op.Lexeme)
}

// compare applies an ordering operator to two numbers or two strings.
func (in *Interpreter) compare(op token.Token, left, right object.Object) (object.Object, error) {
	if left.Type() != right.Type() || (left.Type() != object.NUMBER && left.Type() != object.STRING) {
		return nil, in.errorAt(op, errors.E3001, "Operands must be two numbers or two strings.")
	}
	c, err := left.(object.Comparable).Compare(right)
	if err != nil {
		return nil, in.errorAt(op, errors.E3001, "%v", err).withCause(err)
	}
	switch op.Type {
	case token.GT:
		return object.NewBool(c > 0), nil
	case token.GT_EQUALS:
		return object.NewBool(c >= 0), nil
	case token.LT:
		return object.NewBool(c < 0), nil
	}
	return object.NewBool(c <= 0), nil
}

func (in *Interpreter) undefined(name token.Token, env scope.Handle) *RuntimeError {
	err := in.errorAt(name, errors.E3003, "Undefined variable '%s'.", name.Lexeme)
	err.Hint = errors.FormatSuggestions(errors.SuggestSimilar(name.Lexeme, in.arena.Names(env)))
	return err
}
