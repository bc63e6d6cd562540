package midas

import (
	"context"

	"github.com/midas-lang/midas/interpreter"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/parser"
)

// Session provides stateful execution for the REPL and incremental
// evaluation. Unlike Eval, which creates fresh state on each call, a Session
// keeps its global scope across evaluations, so variables and functions
// defined by one Eval remain visible to the next.
//
// A Session is not safe for concurrent use.
type Session struct {
	interp *interpreter.Interpreter
	cfg    *config
}

// NewSession creates a Session with the given options.
func NewSession(opts ...Option) (*Session, error) {
	cfg := newConfig(opts...)
	interpOpts, err := cfg.interpreterOpts()
	if err != nil {
		return nil, err
	}
	return &Session{
		interp: interpreter.New(interpOpts...),
		cfg:    cfg,
	}, nil
}

// Eval evaluates source within this session and returns the value of the
// last top-level expression statement as a native Go value.
func (s *Session) Eval(ctx context.Context, source string) (any, error) {
	result, err := s.EvalObject(ctx, source)
	if err != nil {
		return nil, err
	}
	return toGo(result), nil
}

// EvalObject is like Eval but returns the Midas value itself.
//
// Lexical and parse errors are returned as *parser.Errors and nothing is
// executed. A runtime error is returned as *interpreter.RuntimeError after
// the statements before it have taken effect.
func (s *Session) EvalObject(ctx context.Context, source string) (object.Object, error) {
	program, err := parser.Parse(ctx, source, s.cfg.parserOpts()...)
	if err != nil {
		return nil, err
	}
	s.interp.SetSource(s.cfg.filename, source)
	return s.interp.Interpret(ctx, program.Stmts)
}

// Get returns the value of a global variable as a native Go value.
func (s *Session) Get(name string) (any, bool) {
	obj, ok := s.interp.Global(name)
	if !ok {
		return nil, false
	}
	return toGo(obj), true
}

// Globals returns the names defined in the global scope, sorted.
func (s *Session) Globals() []string {
	return s.interp.GlobalNames()
}
