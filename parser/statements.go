package parser

import (
	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/token"
)

// declaration parses one declaration or statement. It is the only place the
// sync signal is caught: on error the partial statement is dropped, the
// token stream is resynchronized and nil is returned.
func (p *Parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)
	switch {
	case p.match(token.FUNCTION):
		stmt, err = p.function()
	case p.match(token.VAR):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) function() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	name, err := p.consume(token.IDENT, errors.E1006, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, errors.E1001, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= MaxArity {
				p.errorAt(p.peek(), errors.E1008, "cannot have more than %d parameters", MaxArity)
			}
			param, err := p.consume(token.IDENT, errors.E1006, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, errors.E1007, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if !p.match(token.DO, token.LBRACE) {
		return nil, p.errorAt(p.peek(), errors.E1001, "expected 'do' or '{' before function body")
	}

	// A loop surrounding the declaration does not extend into the body.
	loopDepth := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	body, err := p.block()
	p.funcDepth--
	p.loopDepth = loopDepth
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENT, errors.E1006, "expected variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.ASSIGN) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Init: init}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.DO, token.LBRACE):
		open := p.previous()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Open: open, Stmts: stmts}, nil
	}
	return p.expressionStatement()
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	keyword := p.previous()
	cond, err := p.condition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var alt ast.Stmt
	if p.match(token.ELSE) {
		if alt, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &ast.If{Keyword: keyword, Cond: cond, Then: then, Else: alt}, nil
}

// condition parses the parenthesized condition of an if or while.
func (p *Parser) condition(keyword string) (ast.Expr, error) {
	if _, err := p.consume(token.LPAREN, errors.E1001, "expected '(' after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, errors.E1007, "expected ')' after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	keyword := p.previous()
	cond, err := p.condition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	return &ast.While{Keyword: keyword, Cond: cond, Body: body}, nil
}

// forStatement parses a C-style for loop and desugars it:
//
//	for (init; cond; incr) body
//
// becomes
//
//	do init; while (cond) do body incr; end end
//
// where the outer block is omitted without an initializer, the inner block
// is omitted without an increment, and a missing condition is true.
func (p *Parser) forStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LPAREN, errors.E1001, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var (
		init ast.Stmt
		err  error
	)
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPAREN, errors.E1007, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &ast.Block{
			Open:  token.Synthetic(token.DO, "do", keyword),
			Stmts: []ast.Stmt{body, &ast.Expression{X: incr}},
		}
	}
	if cond == nil {
		cond = &ast.Literal{Token: token.Synthetic(token.TRUE, "true", keyword), Value: true}
	}
	var loop ast.Stmt = &ast.While{
		Keyword: token.Synthetic(token.WHILE, "while", keyword),
		Cond:    cond,
		Body:    body,
	}
	if init != nil {
		loop = &ast.Block{
			Open:  token.Synthetic(token.DO, "do", keyword),
			Stmts: []ast.Stmt{init, loop},
		}
	}
	return loop, nil
}

func (p *Parser) loopBody() (ast.Stmt, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.statement()
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if p.funcDepth == 0 {
		p.errorAt(keyword, errors.E1013, "cannot return from top-level code")
	}
	var (
		value ast.Expr
		err   error
	)
	if !p.check(token.SEMICOLON) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *Parser) breakStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.errorAt(keyword, errors.E1010, "'break' must be used inside a loop")
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after 'break'"); err != nil {
		return nil, err
	}
	return &ast.Break{Keyword: keyword}, nil
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.Print{Keyword: keyword, X: value}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.Expression{X: expr}, nil
}

// block parses declarations up to the closer matching the opener that was
// just consumed: "end" for "do" and "}" for "{".
func (p *Parser) block() ([]ast.Stmt, error) {
	closer, name := token.END, "end"
	if p.previous().Type == token.LBRACE {
		closer, name = token.RBRACE, "}"
	}
	var stmts []ast.Stmt
	for !p.check(closer) && !p.isAtEnd() {
		if p.tooManyErrors() {
			return nil, errSync
		}
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(closer, errors.E1007, "expected '"+name+"' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}
