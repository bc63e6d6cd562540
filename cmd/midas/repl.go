package main

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/midas-lang/midas"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/parser"
	"github.com/midas-lang/midas/token"
	"github.com/mitchellh/go-homedir"
)

const (
	historyFile    = "~/.midas_history"
	maxHistory     = 1000
	prompt         = ">>> "
	continuePrompt = "... "
)

var promptColor = color.New(color.FgYellow, color.Bold)

type repl struct {
	ctx         context.Context
	session     *midas.Session
	out         io.Writer
	line        []rune
	cursor      int
	pending     strings.Builder
	history     []string
	historyIdx  int
	historyPath string
}

func runRepl(ctx context.Context, opts []midas.Option) error {
	// The terminal is in raw mode while the listener runs.
	out := &crlfWriter{w: os.Stdout}
	session, err := midas.NewSession(append(opts, midas.WithStdout(out))...)
	if err != nil {
		return err
	}
	r := &repl{ctx: ctx, session: session, out: out}
	r.loadHistory()

	fmt.Fprintf(out, "Midas %s\nPress Ctrl-D to exit.\n", version)
	r.redraw()
	return keyboard.Listen(r.handleKey)
}

func (r *repl) handleKey(key keys.Key) (stop bool, err error) {
	switch key.Code {
	case keys.CtrlC:
		if len(r.line) == 0 && r.pending.Len() == 0 {
			fmt.Fprintln(r.out)
			return true, nil
		}
		r.pending.Reset()
		r.resetLine()
		fmt.Fprintln(r.out)
	case keys.CtrlD:
		if len(r.line) == 0 {
			fmt.Fprintln(r.out)
			r.saveHistory()
			return true, nil
		}
	case keys.Enter:
		fmt.Fprintln(r.out)
		line := string(r.line)
		r.resetLine()
		r.submit(line)
	case keys.Backspace:
		if r.cursor > 0 {
			r.line = append(r.line[:r.cursor-1], r.line[r.cursor:]...)
			r.cursor--
		}
	case keys.Left:
		if r.cursor > 0 {
			r.cursor--
		}
	case keys.Right:
		if r.cursor < len(r.line) {
			r.cursor++
		}
	case keys.Up:
		r.recall(-1)
	case keys.Down:
		r.recall(1)
	case keys.Space:
		r.insert(' ')
	case keys.Tab:
		r.insert(' ', ' ')
	case keys.RuneKey:
		r.insert(key.Runes...)
	}
	r.redraw()
	return false, nil
}

func (r *repl) insert(runes ...rune) {
	tail := append(append([]rune{}, runes...), r.line[r.cursor:]...)
	r.line = append(r.line[:r.cursor], tail...)
	r.cursor += len(runes)
}

func (r *repl) resetLine() {
	r.line = r.line[:0]
	r.cursor = 0
	r.historyIdx = len(r.history)
}

// submit accumulates lines until they form a complete program. An empty
// line forces evaluation of whatever has accumulated.
func (r *repl) submit(line string) {
	force := strings.TrimSpace(line) == ""
	if force && r.pending.Len() == 0 {
		return
	}
	r.pending.WriteString(line)
	r.pending.WriteString("\n")
	source := r.pending.String()
	if !evalSource(r.ctx, r.session, source, r.out, force) {
		return
	}
	r.pending.Reset()
	r.addHistory(strings.TrimSpace(source))
}

// evalSource evaluates source in the session and prints the result or the
// error. It returns false, printing nothing, when source is only incomplete
// and force is not set.
func evalSource(ctx context.Context, session *midas.Session, source string, out io.Writer, force bool) bool {
	result, err := session.EvalObject(ctx, source)
	if err != nil {
		if !force && incomplete(err) {
			return false
		}
		fmt.Fprintln(out, strings.TrimRight(errors.Render(err, !color.NoColor), "\n"))
		return true
	}
	if _, isNil := result.(*object.NilType); !isNil {
		fmt.Fprintln(out, result.Inspect())
	}
	return true
}

// incomplete reports whether parsing failed only because the input ended
// early, as with an open block or an unterminated string.
func incomplete(err error) bool {
	var parseErrs *parser.Errors
	if !goerrors.As(err, &parseErrs) {
		return false
	}
	errs := parseErrs.Errors()
	last := errs[len(errs)-1]
	return last.Token().Type == token.EOF || last.Code() == errors.E1002
}

func (r *repl) redraw() {
	p := prompt
	if r.pending.Len() > 0 {
		p = continuePrompt
	}
	fmt.Fprintf(r.out, "\r\x1b[K%s%s", promptColor.Sprint(p), string(r.line))
	if back := len(r.line) - r.cursor; back > 0 {
		fmt.Fprintf(r.out, "\x1b[%dD", back)
	}
}

func (r *repl) recall(delta int) {
	idx := r.historyIdx + delta
	if idx < 0 || idx > len(r.history) {
		return
	}
	r.historyIdx = idx
	if idx == len(r.history) {
		r.line = r.line[:0]
	} else {
		r.line = []rune(r.history[idx])
	}
	r.cursor = len(r.line)
}

func (r *repl) addHistory(entry string) {
	if entry == "" {
		return
	}
	if n := len(r.history); n == 0 || r.history[n-1] != entry {
		r.history = append(r.history, entry)
	}
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
	r.historyIdx = len(r.history)
	r.saveHistory()
}

func (r *repl) loadHistory() {
	path, err := homedir.Expand(historyFile)
	if err != nil {
		return
	}
	r.historyPath = path
	r.history = readHistory(path)
	r.historyIdx = len(r.history)
}

func (r *repl) saveHistory() {
	if r.historyPath == "" {
		return
	}
	_ = writeHistory(r.historyPath, r.history)
}

// The history file holds one JSON string per line, so entries keep their
// newlines and comments. Lines that are not JSON strings are read as is.
func readHistory(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var entry string
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			entry = line
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeHistory(path string, entries []string) error {
	var buf bytes.Buffer
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// crlfWriter translates "\n" to "\r\n" for a terminal in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}
