package midas

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/midas-lang/midas/interpreter"
	"github.com/midas-lang/midas/parser"
	"github.com/midas-lang/midas/token"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// scriptCase is one program in a testdata/*.yaml fixture file.
type scriptCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

func loadScripts(t *testing.T, path string) []scriptCase {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cases []scriptCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

func TestScripts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		for _, tc := range loadScripts(t, file) {
			t.Run(filepath.Base(file)+"/"+tc.Name, func(t *testing.T) {
				var out bytes.Buffer
				_, err := Eval(context.Background(), tc.Source, WithStdout(&out))
				if tc.Error != "" {
					require.EqualError(t, err, tc.Error)
				} else {
					require.NoError(t, err)
				}
				require.Equal(t, tc.Output, out.String())
			})
		}
	}
}

func TestExampleScripts(t *testing.T) {
	run := func(name string) string {
		source, err := os.ReadFile(filepath.Join("examples", "scripts", name))
		require.NoError(t, err)
		var out bytes.Buffer
		_, err = Eval(context.Background(), string(source), WithFilename(name), WithStdout(&out))
		require.NoError(t, err)
		return out.String()
	}

	require.Equal(t, "20\n1\n20\n", run("closures.midas"))
	require.Equal(t,
		"1\n2\nFizz\n4\nBuzz\nFizz\n7\n8\nFizz\nBuzz\n11\nFizz\n13\n14\nFizzBuzz\n",
		run("loops.midas"))

	out := run("fib.midas")
	require.True(t, strings.HasPrefix(out, "0\n1\n1\n2\n3\n5\n8\n13\n"), out)
	require.Contains(t, out, "377\nelapsed: ")
}

func TestEvalResult(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"1 + 1;", float64(2)},
		{`"a" ++ "b";`, "ab"},
		{"1 < 2;", true},
		{"nil;", nil},
		{"var x = 1;", nil},
		{"fun f() do end f;", "<fn f>"},
		{"clock;", "<native fn>"},
	}
	for _, tt := range tests {
		result, err := Eval(context.Background(), tt.input)
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.expected, result, tt.input)
	}
}

func TestWithGlobals(t *testing.T) {
	var out bytes.Buffer
	_, err := Eval(context.Background(), `print greeting ++ " " ++ count;`,
		WithStdout(&out),
		WithGlobals(map[string]any{"greeting": "hello"}),
		WithGlobal("count", 3),
	)
	require.NoError(t, err)
	require.Equal(t, "hello 3\n", out.String())

	_, err = Eval(context.Background(), "1;", WithGlobal("bad", []int{1}))
	require.Error(t, err)
}

func TestWithoutDefaultGlobals(t *testing.T) {
	_, err := Eval(context.Background(), "clock();", WithoutDefaultGlobals())
	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "Undefined variable 'clock'.", rtErr.Message)
}

func TestWithFilename(t *testing.T) {
	_, err := Eval(context.Background(), "print 1 / 0;", WithFilename("calc.midas"))
	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "calc.midas", rtErr.Filename)
	require.Equal(t, "print 1 / 0;", rtErr.SourceLine)

	_, err = Eval(context.Background(), "print ;", WithFilename("calc.midas"))
	var parseErrs *parser.Errors
	require.ErrorAs(t, err, &parseErrs)
	require.Equal(t, "calc.midas", parseErrs.First().File())
}

func TestLimits(t *testing.T) {
	_, err := Eval(context.Background(), "fun f() do return f(); end f();", WithMaxCallDepth(10))
	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "Stack overflow.", rtErr.Message)

	_, err = Eval(context.Background(), "print ((((1))));", WithMaxParseDepth(3))
	var parseErrs *parser.Errors
	require.ErrorAs(t, err, &parseErrs)
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	session, err := NewSession(WithStdout(&out))
	require.NoError(t, err)

	_, err = session.Eval(context.Background(), "var total = 0; fun add(n) do total = total + n; end")
	require.NoError(t, err)
	_, err = session.Eval(context.Background(), "add(2); add(3);")
	require.NoError(t, err)

	// errors do not reset the session
	_, err = session.Eval(context.Background(), "add(1 / 0);")
	require.Error(t, err)
	_, err = session.Eval(context.Background(), "print total")
	require.Error(t, err)

	result, err := session.Eval(context.Background(), "print total; total;")
	require.NoError(t, err)
	require.Equal(t, float64(5), result)
	require.Equal(t, "5\n", out.String())

	value, ok := session.Get("total")
	require.True(t, ok)
	require.Equal(t, float64(5), value)
	_, ok = session.Get("missing")
	require.False(t, ok)
	require.Equal(t, []string{"add", "clock", "total"}, session.Globals())
}

func TestSessionErrorQuotesDeclaringInput(t *testing.T) {
	session, err := NewSession(WithFilename("<repl>"))
	require.NoError(t, err)

	_, err = session.Eval(context.Background(), "fun ratio(a, b) do\n  return a / b;\nend")
	require.NoError(t, err)
	_, err = session.Eval(context.Background(), "var zero = 0;\nratio(1, zero);")

	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, 2, rtErr.Line())
	require.Equal(t, "  return a / b;", rtErr.SourceLine)
	require.Equal(t, "ratio", rtErr.Stack[0].Function)
	require.Equal(t, 2, rtErr.Stack[1].Line)

	// top-level errors quote the input being evaluated
	_, err = session.Eval(context.Background(), "print 1 / zero;")
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "print 1 / zero;", rtErr.SourceLine)
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("var x = 1;", WithFilename("t.midas"))
	require.NoError(t, err)
	types := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.VAR, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF,
	}, types)
	require.Equal(t, "t.midas", tokens[0].StartPosition.File)

	_, err = Tokenize("@")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	program, err := Parse(context.Background(), "for (;;) break;")
	require.NoError(t, err)
	require.Equal(t, "while (true) break;", program.String())
}

func TestCancelledEval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Eval(ctx, "var i = 0; while (true) i = i + 1;")
	require.ErrorIs(t, err, context.Canceled)
}
