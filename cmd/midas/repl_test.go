package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/midas-lang/midas"
	"github.com/stretchr/testify/require"
)

func newTestRepl(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	session, err := midas.NewSession(midas.WithStdout(&out))
	require.NoError(t, err)
	return &repl{ctx: context.Background(), session: session, out: &out}, &out
}

func typeLine(t *testing.T, r *repl, line string) {
	t.Helper()
	stop, err := r.handleKey(keys.Key{Code: keys.RuneKey, Runes: []rune(line)})
	require.NoError(t, err)
	require.False(t, stop)
	stop, err = r.handleKey(keys.Key{Code: keys.Enter})
	require.NoError(t, err)
	require.False(t, stop)
}

func TestEvalSource(t *testing.T) {
	var out bytes.Buffer
	session, err := midas.NewSession(midas.WithStdout(&out))
	require.NoError(t, err)
	ctx := context.Background()

	require.True(t, evalSource(ctx, session, "var x = 40;\n", &out, false))
	require.Empty(t, out.String())

	require.True(t, evalSource(ctx, session, "x + 2;\n", &out, false))
	require.Equal(t, "42\n", out.String())

	out.Reset()
	require.True(t, evalSource(ctx, session, `"a" ++ "b";`, &out, false))
	require.Equal(t, "\"ab\"\n", out.String())

	out.Reset()
	require.False(t, evalSource(ctx, session, "fun f() do\n", &out, false))
	require.Empty(t, out.String())

	require.True(t, evalSource(ctx, session, "fun f() do\n", &out, true))
	require.Contains(t, out.String(), "expected 'end' after block")

	out.Reset()
	require.True(t, evalSource(ctx, session, "y;\n", &out, false))
	require.Contains(t, out.String(), "Undefined variable 'y'.")
}

func TestIncomplete(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		source string
		want   bool
	}{
		{"while (true) do", true},
		{"print \"abc", true},
		{"var x = ", true},
		{"print ;", false},
		{"print 1 +;", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := midas.Parse(ctx, tt.source)
			require.Error(t, err)
			require.Equal(t, tt.want, incomplete(err))
		})
	}
	require.False(t, incomplete(context.Canceled))
}

func TestReplSession(t *testing.T) {
	r, out := newTestRepl(t)

	typeLine(t, r, "var count = 1;")
	typeLine(t, r, "fun bump() do")
	require.Positive(t, r.pending.Len())
	require.Contains(t, out.String(), continuePrompt)
	typeLine(t, r, "count = count + 1;")
	typeLine(t, r, "end")
	require.Zero(t, r.pending.Len())
	typeLine(t, r, "bump();")
	typeLine(t, r, "print count;")
	require.Contains(t, out.String(), "\n2\n")

	value, ok := r.session.Get("count")
	require.True(t, ok)
	require.Equal(t, 2.0, value)
	require.Equal(t, []string{"var count = 1;", "fun bump() do\ncount = count + 1;\nend", "bump();", "print count;"}, r.history)

	// Errors are reported and the session continues.
	typeLine(t, r, "print missing;")
	require.Contains(t, out.String(), "Undefined variable 'missing'.")
	typeLine(t, r, "print count;")
	value, _ = r.session.Get("count")
	require.Equal(t, 2.0, value)
}

func TestReplLineEditing(t *testing.T) {
	r, _ := newTestRepl(t)
	r.history = []string{"print 1;", "print 2;"}
	r.historyIdx = len(r.history)

	r.handleKey(keys.Key{Code: keys.RuneKey, Runes: []rune("ac")})
	r.handleKey(keys.Key{Code: keys.Left})
	r.handleKey(keys.Key{Code: keys.RuneKey, Runes: []rune("b")})
	require.Equal(t, "abc", string(r.line))
	r.handleKey(keys.Key{Code: keys.Right})
	r.handleKey(keys.Key{Code: keys.Backspace})
	r.handleKey(keys.Key{Code: keys.Space})
	require.Equal(t, "ab ", string(r.line))

	r.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "print 2;", string(r.line))
	r.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "print 1;", string(r.line))
	r.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "print 1;", string(r.line))
	r.handleKey(keys.Key{Code: keys.Down})
	r.handleKey(keys.Key{Code: keys.Down})
	require.Empty(t, r.line)

	r.handleKey(keys.Key{Code: keys.RuneKey, Runes: []rune("x")})
	stop, _ := r.handleKey(keys.Key{Code: keys.CtrlC})
	require.False(t, stop)
	require.Empty(t, r.line)
	stop, _ = r.handleKey(keys.Key{Code: keys.CtrlD})
	require.True(t, stop)
}

func TestHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	entries := []string{
		"print 1;",
		"fun f() do\n  // keep this comment\n  return \"a  b\";\nend",
		"print \"tab\there\";",
	}
	require.NoError(t, writeHistory(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, bytes.Count(data, []byte("\n")))
	require.Equal(t, entries, readHistory(path))

	// plain lines from older history files are kept
	require.NoError(t, os.WriteFile(path, []byte("print 2;\n\n\"print 3;\"\n"), 0o600))
	require.Equal(t, []string{"print 2;", "print 3;"}, readHistory(path))

	require.Nil(t, readHistory(filepath.Join(t.TempDir(), "missing")))
}

func TestReplSavesMultiLineHistory(t *testing.T) {
	r, _ := newTestRepl(t)
	r.historyPath = filepath.Join(t.TempDir(), "history")

	typeLine(t, r, "fun twice(n) do")
	typeLine(t, r, "// doubles n")
	typeLine(t, r, "return n * 2;")
	typeLine(t, r, "end")
	typeLine(t, r, "print twice(4);")

	want := []string{"fun twice(n) do\n// doubles n\nreturn n * 2;\nend", "print twice(4);"}
	require.Equal(t, want, r.history)
	require.Equal(t, want, readHistory(r.historyPath))
}

func TestCrlfWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &crlfWriter{w: &buf}
	n, err := w.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "a\r\nb\r\n", buf.String())
}
