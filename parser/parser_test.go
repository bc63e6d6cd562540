package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) []ast.Stmt {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.NoError(t, err)
	return program.Stmts
}

func parseErrors(t *testing.T, input string, opts ...Option) (*ast.Program, *Errors) {
	t.Helper()
	program, err := Parse(context.Background(), input, opts...)
	require.Error(t, err)
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	return program, errs
}

func expr(t *testing.T, input string) ast.Expr {
	t.Helper()
	stmts := parse(t, input)
	require.Len(t, stmts, 1)
	stmt, ok := stmts[0].(*ast.Expression)
	require.True(t, ok, "got %T", stmts[0])
	return stmt.X
}

func TestPrecedence(t *testing.T) {
	x := expr(t, "1 + 2 * 3;")
	sum, ok := x.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.PLUS, sum.Op.Type)
	require.Equal(t, float64(1), sum.X.(*ast.Literal).Value)
	product, ok := sum.Y.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.ASTERISK, product.Op.Type)
}

func TestLeftAssociativity(t *testing.T) {
	tests := []struct {
		input string
		op    token.Type
	}{
		{"a - b - c;", token.MINUS},
		{"a ++ b ++ c;", token.CONCAT},
		{"a % b % c;", token.MOD},
		{"a == b == c;", token.EQ},
		{"a, b, c;", token.COMMA},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			outer, ok := expr(t, tt.input).(*ast.Binary)
			require.True(t, ok)
			require.Equal(t, tt.op, outer.Op.Type)
			inner, ok := outer.X.(*ast.Binary)
			require.True(t, ok, "left operand should be the nested node")
			require.Equal(t, tt.op, inner.Op.Type)
			require.Equal(t, "c", outer.Y.(*ast.Variable).Name.Lexeme)
		})
	}
}

func TestLogical(t *testing.T) {
	or, ok := expr(t, "a or b and c;").(*ast.Logical)
	require.True(t, ok)
	require.Equal(t, token.OR, or.Op.Type)
	and, ok := or.Y.(*ast.Logical)
	require.True(t, ok)
	require.Equal(t, token.AND, and.Op.Type)
}

func TestTernaryIsRightAssociative(t *testing.T) {
	outer, ok := expr(t, "a ? b : c ? d : e;").(*ast.Ternary)
	require.True(t, ok)
	require.Equal(t, "a", outer.Cond.String())
	require.Equal(t, "b", outer.Then.String())
	inner, ok := outer.Else.(*ast.Ternary)
	require.True(t, ok)
	require.Equal(t, "c ? d : e", inner.String())
}

func TestTernaryThenBranchIsCommaLevel(t *testing.T) {
	ternary, ok := expr(t, "a ? b, c : d;").(*ast.Ternary)
	require.True(t, ok)
	comma, ok := ternary.Then.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.COMMA, comma.Op.Type)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	outer, ok := expr(t, "a = b = 1;").(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "a", outer.Name.Lexeme)
	inner, ok := outer.Value.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "b", inner.Name.Lexeme)
}

func TestUnary(t *testing.T) {
	outer, ok := expr(t, "!-x;").(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, token.BANG, outer.Op.Type)
	inner, ok := outer.X.(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, token.MINUS, inner.Op.Type)
}

func TestCalls(t *testing.T) {
	call, ok := expr(t, "f(1, g(2))(3);").(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	require.Equal(t, token.RPAREN, call.Paren.Type)

	inner, ok := call.Callee.(*ast.Call)
	require.True(t, ok)
	require.Len(t, inner.Args, 2)
	require.Equal(t, "g(2)", inner.Args[1].String())

	// A parenthesized comma expression is a single argument.
	call, ok = expr(t, "f((1, 2));").(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].(*ast.Grouping)
	require.True(t, ok)
}

func TestStatements(t *testing.T) {
	stmts := parse(t, `
var a;
var b = 2;
print a;
if (a) print 1; else print 2;
while (b) b = b - 1;
do var c = 3; end
{ print 4; }
fun f(x, y) do return x; end
fun g() { return; }
`)
	require.Len(t, stmts, 9)

	require.Nil(t, stmts[0].(*ast.Var).Init)
	require.NotNil(t, stmts[1].(*ast.Var).Init)
	require.IsType(t, &ast.Print{}, stmts[2])

	ifStmt := stmts[3].(*ast.If)
	require.NotNil(t, ifStmt.Else)

	require.IsType(t, &ast.While{}, stmts[4])
	require.Len(t, stmts[5].(*ast.Block).Stmts, 1)
	require.Equal(t, token.LBRACE, stmts[6].(*ast.Block).Open.Type)

	f := stmts[7].(*ast.Function)
	require.Equal(t, "f", f.Name.Lexeme)
	require.Len(t, f.Params, 2)
	require.Len(t, f.Body, 1)

	g := stmts[8].(*ast.Function)
	require.Empty(t, g.Params)
	require.Nil(t, g.Body[0].(*ast.Return).Value)
}

func TestDanglingElse(t *testing.T) {
	stmts := parse(t, "if (a) if (b) print 1; else print 2;")
	outer := stmts[0].(*ast.If)
	require.Nil(t, outer.Else)
	require.NotNil(t, outer.Then.(*ast.If).Else)
}

func TestForDesugaring(t *testing.T) {
	stmts := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	require.IsType(t, &ast.Var{}, outer.Stmts[0])

	loop, ok := outer.Stmts[1].(*ast.While)
	require.True(t, ok)
	require.Equal(t, "i < 3", loop.Cond.String())

	body, ok := loop.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
	require.IsType(t, &ast.Print{}, body.Stmts[0])
	require.Equal(t, "i = i + 1;", body.Stmts[1].String())

	require.Equal(t, "do var i = 0; while (i < 3) do print i; i = i + 1; end end", stmts[0].String())
}

func TestForWithoutClauses(t *testing.T) {
	stmts := parse(t, "for (;;) break;")
	loop, ok := stmts[0].(*ast.While)
	require.True(t, ok)
	cond, ok := loop.Cond.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, true, cond.Value)
	require.Equal(t, 1, cond.Pos().LineNumber())
	require.IsType(t, &ast.Break{}, loop.Body)
}

func TestForExpressionInitializer(t *testing.T) {
	stmts := parse(t, "var i; for (i = 0; i < 2;) print i;")
	outer := stmts[1].(*ast.Block)
	require.IsType(t, &ast.Expression{}, outer.Stmts[0])
	loop := outer.Stmts[1].(*ast.While)
	require.IsType(t, &ast.Print{}, loop.Body)
}

func TestBreakOutsideLoop(t *testing.T) {
	program, errs := parseErrors(t, "break;")
	require.Equal(t, 1, errs.Count())
	require.Equal(t, "[line 1] parse error at 'break': 'break' must be used inside a loop", errs.Error())
	require.Equal(t, errors.E1010, errs.First().Code())
	// the statement itself is well formed
	require.Len(t, program.Stmts, 1)

	// a function body does not inherit the surrounding loop
	_, errs = parseErrors(t, "while (true) do fun f() do break; end end")
	require.Equal(t, errors.E1010, errs.First().Code())

	parse(t, "while (true) do if (true) break; end")
	parse(t, "for (;;) do while (true) break; break; end")
}

func TestReturnOutsideFunction(t *testing.T) {
	_, errs := parseErrors(t, "return 1;")
	require.Equal(t, errors.E1013, errs.First().Code())

	parse(t, "fun f() do while (true) return 1; end")
}

func TestInvalidAssignmentTarget(t *testing.T) {
	program, errs := parseErrors(t, "1 = 2;\nprint 3;")
	require.Equal(t, 1, errs.Count())
	require.Equal(t, "[line 1] parse error at '=': invalid assignment target", errs.Error())
	// not fatal: both statements are produced
	require.Len(t, program.Stmts, 2)

	_, errs = parseErrors(t, "(a) = 1;")
	require.Equal(t, errors.E1005, errs.First().Code())
}

func TestMissingLeftOperand(t *testing.T) {
	tests := []string{
		"or true;",
		"and true;",
		"== 1;",
		"!= 1;",
		"< 1;",
		">= 1;",
		"+ 1;",
		"++ 1;",
		"* 1;",
		"/ 1;",
		"% 1;",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			program, errs := parseErrors(t, input)
			require.Equal(t, 1, errs.Count())
			require.Equal(t, errors.E1011, errs.First().Code())
			require.Len(t, program.Stmts, 1)
			bad, ok := program.Stmts[0].(*ast.Expression).X.(*ast.BadExpr)
			require.True(t, ok)
			require.Equal(t, strings.TrimSuffix(strings.Fields(input)[0], ";"), bad.Token.Lexeme)
		})
	}

	// unary minus is legal
	parse(t, "- 1;")
}

func TestClassesAreNotSupported(t *testing.T) {
	for _, input := range []string{"this;", "super;", "print class;"} {
		_, errs := parseErrors(t, input)
		require.Equal(t, errors.E1012, errs.First().Code(), input)
		require.Equal(t, "classes are not supported", errs.First().Message())
	}
}

func TestMultipleErrors(t *testing.T) {
	program, errs := parseErrors(t, "var = 1;\nprint 1 +;\nvar ok = 2;")
	require.Equal(t, 2, errs.Count())

	first := errs.Errors()[0]
	require.Equal(t, 1, first.Line())
	require.Equal(t, "expected variable name", first.Message())

	second := errs.Errors()[1]
	require.Equal(t, 2, second.Line())
	require.Equal(t, "[line 2] parse error at ';': expected expression", second.Error())

	require.Len(t, program.Stmts, 1)
	require.Equal(t, "var ok = 2;", program.Stmts[0].String())
	require.Contains(t, errs.Error(), "(and 1 more errors)")
}

func TestSynchronizeStopsAtStatementKeyword(t *testing.T) {
	// No semicolon after the broken expression: recovery resumes at "print".
	program, errs := parseErrors(t, "var x = ) print 1;")
	require.Equal(t, 1, errs.Count())
	require.Len(t, program.Stmts, 1)
	require.IsType(t, &ast.Print{}, program.Stmts[0])
}

func TestErrorsInsideBlocks(t *testing.T) {
	program, errs := parseErrors(t, "do var = 1; print 2; end print 3;")
	require.Equal(t, 1, errs.Count())
	require.Len(t, program.Stmts, 2)
	require.Len(t, program.Stmts[0].(*ast.Block).Stmts, 1)
}

func TestErrorAtEnd(t *testing.T) {
	_, errs := parseErrors(t, "print 1")
	require.Equal(t, "[line 1] parse error at end: expected ';' after value", errs.Error())
}

func TestMismatchedBlockCloser(t *testing.T) {
	_, errs := parseErrors(t, "do print 1; }")
	require.Equal(t, 2, errs.Count())
	require.Equal(t, errors.E1004, errs.Errors()[0].Code())
	require.Equal(t, "[line 1] parse error at end: expected 'end' after block", errs.Errors()[1].Error())

	_, errs = parseErrors(t, "fun f() print 1;")
	require.Equal(t, "expected 'do' or '{' before function body", errs.First().Message())
}

func TestConsumeMessageIsLiteral(t *testing.T) {
	p := New([]token.Token{{Type: token.IDENT, Lexeme: "x"}})
	_, err := p.consume(token.SEMICOLON, errors.E1001, "expected ';' (100% required)")
	require.ErrorIs(t, err, errSync)
	require.Len(t, p.errors, 1)
	require.Equal(t, "expected ';' (100% required)", p.errors[0].Message())
	require.Equal(t, "[line 1] parse error at 'x': expected ';' (100% required)", p.errors[0].Error())
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, MaxArity+1)
	params := make([]string, MaxArity+1)
	for i := range args {
		args[i] = "1"
		params[i] = "p" + strings.Repeat("x", i)
	}
	program, errs := parseErrors(t, "f("+strings.Join(args, ", ")+");")
	require.Equal(t, 1, errs.Count())
	require.Equal(t, errors.E1008, errs.First().Code())
	require.Len(t, program.Stmts, 1)

	_, errs = parseErrors(t, "fun f("+strings.Join(params, ", ")+") do end")
	require.Equal(t, 1, errs.Count())
	require.Equal(t, "cannot have more than 32 parameters", errs.First().Message())

	parse(t, "f("+strings.Join(args[:MaxArity], ", ")+");")
}

func TestMaxErrors(t *testing.T) {
	input := strings.Repeat("var;\n", MaxErrors*2)
	_, errs := parseErrors(t, input)
	require.Equal(t, MaxErrors, errs.Count())
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"
	_, errs := parseErrors(t, input, WithMaxDepth(20))
	require.Equal(t, 1, errs.Count())
	require.Equal(t, errors.E1009, errs.First().Code())

	stmts := parse(t, input)
	require.Len(t, stmts, 1)

	blocks := strings.Repeat("do ", 50) + strings.Repeat("end ", 50)
	_, errs = parseErrors(t, blocks, WithMaxDepth(20))
	require.Equal(t, errors.E1009, errs.First().Code())
}

func TestLexerErrorsAreReported(t *testing.T) {
	_, errs := parseErrors(t, "print 1 @ 2;", WithFilename("main.midas"))
	require.Equal(t, 2, errs.Count())
	first := errs.First()
	require.Equal(t, "syntax error", first.Type())
	require.Equal(t, errors.E1003, first.Code())
	require.Equal(t, "[line 1] syntax error: unexpected character '@'", first.Error())
	require.Equal(t, "main.midas", first.File())

	_, errs = parseErrors(t, "print \"abc;")
	require.Equal(t, errors.E1002, errs.First().Code())
}

func TestErrorHandler(t *testing.T) {
	var seen []string
	_, err := Parse(context.Background(), "break;\nvar;", WithErrorHandler(func(e ParserError) {
		seen = append(seen, e.Message())
	}))
	require.Error(t, err)
	require.Equal(t, []string{
		"'break' must be used inside a loop",
		"expected variable name",
	}, seen)
}

func TestFormattedError(t *testing.T) {
	_, errs := parseErrors(t, "var x = 1;\nprint x +;", WithFilename("t.midas"))
	formatted := errs.First().ToFormatted()
	require.Equal(t, "t.midas", formatted.Filename)
	require.Equal(t, 2, formatted.Line)
	require.Equal(t, 10, formatted.Column)
	require.Equal(t, "print x +;", formatted.SourceLine)
	require.Len(t, errs.ToFormattedMultiple(), 1)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "print 1;")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewAppendsEOF(t *testing.T) {
	tokens := []token.Token{
		{Type: token.PRINT, Lexeme: "print"},
		{Type: token.NUMBER, Lexeme: "1", Value: float64(1)},
		{Type: token.SEMICOLON, Lexeme: ";"},
	}
	program, err := New(tokens).Parse(context.Background())
	require.NoError(t, err)
	require.Len(t, program.Stmts, 1)

	program, err = New(nil).Parse(context.Background())
	require.NoError(t, err)
	require.Empty(t, program.Stmts)
}

// Printing a tree and parsing the result yields the same tree, positions
// and block delimiters aside.
func TestRoundTrip(t *testing.T) {
	input := `
var a = 1;
var s = "text";
fun add(x, y) { return x + y; }
for (var i = 0; i < 3; i = i + 1) print i;
for (;;) break;
print a > 0 ? "pos" : a < 0 ? "neg" : "zero";
while (true) do if (a == 1) break; else a = a - 1; end
print add(1, (2, 3)) ++ " ok";
print -(-a) % 2, !true;
print (1 + 2) * 3.5 / (4 - 5);
fun counter() do var n = 0; fun inc() do n = n + 1; return n; end return inc; end
print a or nil and false;
`
	first := parse(t, input)
	printed := (&ast.Program{Stmts: first}).String()
	second := parse(t, printed)

	opts := cmp.Options{
		cmp.Comparer(func(a, b token.Token) bool {
			return a.Type == b.Type && a.Lexeme == b.Lexeme
		}),
		cmpopts.IgnoreFields(ast.Literal{}, "Token"),
		cmpopts.IgnoreFields(ast.Block{}, "Open"),
	}
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
	require.Equal(t, printed, (&ast.Program{Stmts: second}).String())
}
