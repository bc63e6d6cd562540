package parser

import (
	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/token"
)

// expression is the entry point of the expression grammar:
//
//	expression → comma
//	comma      → assignment ( "," assignment )*
//	assignment → IDENT "=" assignment | ternary
//	ternary    → or ( "?" expression ":" ternary )?
//	or         → and ( "or" and )*
//	and        → equality ( "and" equality )*
//	equality   → comparison ( ( "!=" | "==" ) comparison )*
//	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       → factor ( ( "-" | "+" | "++" ) factor )*
//	factor     → unary ( ( "/" | "*" | "%" ) unary )*
//	unary      → ( "!" | "-" ) unary | call
//	call       → primary ( "(" arguments? ")" )*
//	primary    → NUMBER | STRING | "true" | "false" | "nil"
//	           | "(" expression ")" | IDENT
func (p *Parser) expression() (ast.Expr, error) {
	return p.comma()
}

func (p *Parser) comma() (ast.Expr, error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(token.COMMA) {
		op := p.previous()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{X: expr, Op: op, Y: right}
	}
	return expr, nil
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.match(token.ASSIGN) {
		return expr, nil
	}
	equals := p.previous()
	if err := p.enter(); err != nil {
		return nil, err
	}
	value, err := p.assignment()
	p.leave()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*ast.Variable); ok {
		return &ast.Assign{Name: v.Name, Value: value}, nil
	}
	// The parser is not confused by a bad target, so there is no need to
	// synchronize.
	p.errorAt(equals, errors.E1005, "invalid assignment target")
	return expr, nil
}

func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.QUESTION) {
		return cond, nil
	}
	question := p.previous()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.COLON, errors.E1001, "unfinished ternary operator, expected ':'"); err != nil {
		return nil, err
	}
	alt, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Cond: cond, Question: question, Then: then, Else: alt}, nil
}

func (p *Parser) or() (ast.Expr, error) {
	return p.logical(p.and, token.OR)
}

func (p *Parser) and() (ast.Expr, error) {
	return p.logical(p.equality, token.AND)
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.NOT_EQ, token.EQ)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.GT, token.GT_EQUALS, token.LT, token.LT_EQUALS)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.MINUS, token.PLUS, token.CONCAT)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.SLASH, token.ASTERISK, token.MOD)
}

// binary folds a left-associative chain of operands produced by next.
func (p *Parser) binary(next func() (ast.Expr, error), ops ...token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{X: expr, Op: op, Y: right}
	}
	return expr, nil
}

// logical is binary for the short-circuiting operators.
func (p *Parser) logical(next func() (ast.Expr, error), op token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{X: expr, Op: operator, Y: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, X: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LPAREN) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// finishCall parses the argument list of a call whose "(" was consumed.
// Arguments are parsed above the comma level so that "," separates them.
func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= MaxArity {
				p.errorAt(p.peek(), errors.E1008, "cannot have more than %d arguments", MaxArity)
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(token.RPAREN, errors.E1007, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}, nil
	case token.NIL:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}, nil
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Value}, nil
	case token.IDENT:
		p.advance()
		return &ast.Variable{Name: tok}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, errors.E1007, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Lparen: tok, X: expr}, nil
	case token.CLASS, token.THIS, token.SUPER:
		return nil, p.errorAt(tok, errors.E1012, "classes are not supported")
	}
	if operand := p.missingOperand(tok.Type); operand != nil {
		return p.badBinary(operand)
	}
	return nil, p.errorAt(tok, errors.E1004, "expected expression")
}

// missingOperand returns the rule that parses the right operand of a binary
// operator, or nil if t is not one. A leading "-" is a legal unary minus.
func (p *Parser) missingOperand(t token.Type) func() (ast.Expr, error) {
	switch t {
	case token.OR:
		return p.or
	case token.AND:
		return p.and
	case token.NOT_EQ, token.EQ:
		return p.equality
	case token.GT, token.GT_EQUALS, token.LT, token.LT_EQUALS:
		return p.comparison
	case token.PLUS, token.CONCAT:
		return p.term
	case token.SLASH, token.ASTERISK, token.MOD:
		return p.factor
	}
	return nil
}

// badBinary reports a binary operator found where an expression should
// start. The right operand is parsed and discarded so that parsing resumes
// after it.
func (p *Parser) badBinary(operand func() (ast.Expr, error)) (ast.Expr, error) {
	op := p.advance()
	p.errorAt(op, errors.E1011, "missing left-hand operand")
	if _, err := operand(); err != nil {
		return nil, err
	}
	return &ast.BadExpr{Token: op}, nil
}
