// Package interpreter executes a parsed Midas program by walking its syntax
// tree.
//
// Statements report how they completed (normally, by break, or by return
// with a value) as an explicit result instead of unwinding the Go stack, so
// each loop and call decides whether to consume the signal. Runtime errors
// are returned as *RuntimeError and stop the program.
//
// Scopes live in a scope.Arena and are passed down explicitly as handles.
// Block and call scopes are released on every exit path. A scope captured
// by a function declaration is retained until the program finishes and no
// reachable function refers to it any more.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/scope"
	"github.com/midas-lang/midas/token"
	"github.com/rs/zerolog"
)

// DefaultMaxCallDepth is the default limit on nested function calls.
const DefaultMaxCallDepth = 4096

type completionKind int

const (
	normal completionKind = iota
	breakLoop
	returnValue
)

// completion is the outcome of executing a statement.
type completion struct {
	kind  completionKind
	value object.Object
}

var done = completion{kind: normal}

// frame is an active function call. source is the program the callee's
// body belongs to; for builtins it is the caller's.
type frame struct {
	name   string
	call   token.Token
	source object.Source
}

// Option is a configuration function for an Interpreter.
type Option func(*Interpreter)

// WithStdout sets the writer that print statements write to. The default is
// os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) {
		in.stdout = w
	}
}

// WithLogger sets the logger used for trace and debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithMaxCallDepth limits the number of nested function calls. Exceeding
// it is a "stack overflow" runtime error.
func WithMaxCallDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxCallDepth = depth
	}
}

// WithGlobals defines the given values in the global scope.
func WithGlobals(globals map[string]object.Object) Option {
	return func(in *Interpreter) {
		for name, value := range globals {
			in.globalValues[name] = value
		}
	}
}

// WithSource sets the file name and source text used to attribute runtime
// errors.
func WithSource(filename, source string) Option {
	return func(in *Interpreter) {
		in.source = object.Source{Filename: filename, Text: source}
	}
}

// Interpreter executes programs against a persistent global scope.
// It is not safe for concurrent use.
type Interpreter struct {
	arena        *scope.Arena[object.Object]
	globals      scope.Handle
	globalValues map[string]object.Object
	stdout       io.Writer
	logger       zerolog.Logger
	maxCallDepth int
	frames       []frame
	source       object.Source
}

// New returns an Interpreter with a fresh global scope.
func New(options ...Option) *Interpreter {
	in := &Interpreter{
		arena:        scope.NewArena[object.Object](),
		globalValues: map[string]object.Object{},
		stdout:       os.Stdout,
		logger:       zerolog.Nop(),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range options {
		opt(in)
	}
	in.globals = in.arena.New(scope.None)
	for name, value := range in.globalValues {
		in.arena.Define(in.globals, name, value)
	}
	in.globalValues = nil
	return in
}

// SetSource sets the file name and source text of the next program passed
// to Interpret. Functions keep the source they were declared in, so errors
// inside a function defined by an earlier program still quote that program.
func (in *Interpreter) SetSource(filename, source string) {
	in.source = object.Source{Filename: filename, Text: source}
}

// currentSource is the program containing the code being executed.
func (in *Interpreter) currentSource() object.Source {
	if n := len(in.frames); n > 0 {
		return in.frames[n-1].source
	}
	return in.source
}

// Interpret executes stmts in the global scope. Execution stops at the
// first runtime error, which is returned. The result is the value of the
// last top-level expression statement, or nil.
//
// stmts must come from a parse that reported no errors.
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt) (object.Object, error) {
	in.frames = in.frames[:0]
	result, err := in.run(ctx, stmts)
	in.collect(result)
	if err != nil {
		in.logger.Debug().Err(err).Str("file", in.source.Filename).Msg("runtime error")
		return nil, err
	}
	return result, nil
}

func (in *Interpreter) run(ctx context.Context, stmts []ast.Stmt) (object.Object, error) {
	var result object.Object = object.Nil
	for _, stmt := range stmts {
		if x, ok := stmt.(*ast.Expression); ok {
			value, err := in.eval(ctx, x.X, in.globals)
			if err != nil {
				return nil, err
			}
			result = value
			continue
		}
		if _, err := in.exec(ctx, stmt, in.globals); err != nil {
			return nil, err
		}
		result = object.Nil
	}
	return result, nil
}

// collect frees the scopes captured by functions that can no longer be
// reached from the global scope or from result. Between programs the
// arena holds no other scopes.
func (in *Interpreter) collect(result object.Object) {
	roots := []scope.Handle{in.globals}
	if h := closureOf(result); h != scope.None {
		roots = append(roots, h)
	}
	if n := in.arena.Collect(closureOf, roots...); n > 0 {
		in.logger.Debug().Int("scopes", n).Int("live", in.arena.Len()).Msg("collected scopes")
	}
}

func closureOf(value object.Object) scope.Handle {
	if fn, ok := value.(*object.Function); ok {
		return fn.Closure()
	}
	return scope.None
}

// Global returns the value bound to name in the global scope.
func (in *Interpreter) Global(name string) (object.Object, bool) {
	return in.arena.Get(in.globals, name)
}

// GlobalNames returns the names defined in the global scope, sorted.
func (in *Interpreter) GlobalNames() []string {
	return in.arena.Names(in.globals)
}

// Scopes returns the number of live scopes, including the global scope.
func (in *Interpreter) Scopes() int {
	return in.arena.Len()
}

func (in *Interpreter) exec(ctx context.Context, stmt ast.Stmt, env scope.Handle) (completion, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.eval(ctx, s.X, env)
		return done, err

	case *ast.Print:
		value, err := in.eval(ctx, s.X, env)
		if err != nil {
			return done, err
		}
		if _, err := fmt.Fprintln(in.stdout, value.String()); err != nil {
			return done, in.errorAt(s.Keyword, errors.E3007, "print: %v", err).withCause(err)
		}
		return done, nil

	case *ast.Var:
		var value object.Object = object.Nil
		if s.Init != nil {
			var err error
			if value, err = in.eval(ctx, s.Init, env); err != nil {
				return done, err
			}
		}
		in.arena.Define(env, s.Name.Lexeme, value)
		return done, nil

	case *ast.Block:
		inner := in.arena.New(env)
		defer in.arena.Release(inner)
		return in.execBlock(ctx, s.Stmts, inner)

	case *ast.If:
		cond, err := in.eval(ctx, s.Cond, env)
		if err != nil {
			return done, err
		}
		if cond.IsTruthy() {
			return in.exec(ctx, s.Then, env)
		}
		if s.Else != nil {
			return in.exec(ctx, s.Else, env)
		}
		return done, nil

	case *ast.While:
		return in.execWhile(ctx, s, env)

	case *ast.Function:
		// The function keeps its defining scope alive until collect finds
		// it unreachable.
		in.arena.Retain(env)
		in.arena.Define(env, s.Name.Lexeme, object.NewFunction(s, env, in.currentSource()))
		return done, nil

	case *ast.Return:
		var value object.Object = object.Nil
		if s.Value != nil {
			var err error
			if value, err = in.eval(ctx, s.Value, env); err != nil {
				return done, err
			}
		}
		return completion{kind: returnValue, value: value}, nil

	case *ast.Break:
		return completion{kind: breakLoop}, nil
	}
	return done, in.errorAt(token.Token{StartPosition: stmt.Pos()}, errors.E3007,
		"unsupported statement %T", stmt)
}

// execBlock runs stmts in env, stopping at the first statement that does
// not complete normally. The caller owns env.
func (in *Interpreter) execBlock(ctx context.Context, stmts []ast.Stmt, env scope.Handle) (completion, error) {
	for _, stmt := range stmts {
		c, err := in.exec(ctx, stmt, env)
		if err != nil || c.kind != normal {
			return c, err
		}
	}
	return done, nil
}

func (in *Interpreter) execWhile(ctx context.Context, s *ast.While, env scope.Handle) (completion, error) {
	for {
		if err := ctx.Err(); err != nil {
			return done, in.cancelled(s.Keyword, err)
		}
		cond, err := in.eval(ctx, s.Cond, env)
		if err != nil {
			return done, err
		}
		if !cond.IsTruthy() {
			return done, nil
		}
		c, err := in.exec(ctx, s.Body, env)
		if err != nil {
			return done, err
		}
		switch c.kind {
		case breakLoop:
			return done, nil
		case returnValue:
			return c, nil
		}
	}
}
