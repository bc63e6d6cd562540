// Package midas is the embedding API for the Midas scripting language.
//
// Eval runs a program from source in a fresh global scope:
//
//	result, err := midas.Eval(ctx, `print "hello" ++ ", world";`)
//
// A Session keeps its global scope between evaluations, which is what the
// REPL uses.
package midas

import (
	"context"
	"io"
	"maps"
	"os"

	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/builtins"
	"github.com/midas-lang/midas/internal/lexer"
	"github.com/midas-lang/midas/interpreter"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/parser"
	"github.com/midas-lang/midas/token"
	"github.com/rs/zerolog"
)

// Option describes a function used to configure a Midas evaluation.
type Option func(*config)

type config struct {
	globals               map[string]any
	withoutDefaultGlobals bool
	filename              string
	stdout                io.Writer
	logger                zerolog.Logger
	maxCallDepth          int
	maxParseDepth         int
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		globals: map[string]any{},
		stdout:  os.Stdout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithGlobals provides global variables that are made available to Midas
// programs. This option is additive, so multiple WithGlobals options may be
// supplied. If the same key is supplied multiple times, the last supplied
// value is used.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		maps.Copy(cfg.globals, globals)
	}
}

// WithGlobal supplies a single named global variable.
func WithGlobal(name string, value any) Option {
	return func(cfg *config) {
		cfg.globals[name] = value
	}
}

// WithoutDefaultGlobals opts out of the default builtins such as clock.
func WithoutDefaultGlobals() Option {
	return func(cfg *config) {
		cfg.withoutDefaultGlobals = true
	}
}

// WithFilename sets the filename for the source code being evaluated.
// It is used in error messages and stack traces.
func WithFilename(filename string) Option {
	return func(cfg *config) {
		cfg.filename = filename
	}
}

// WithStdout sets the writer that print statements write to.
func WithStdout(w io.Writer) Option {
	return func(cfg *config) {
		cfg.stdout = w
	}
}

// WithLogger sets the logger passed to the parser and interpreter.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxCallDepth limits the number of nested function calls.
func WithMaxCallDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxCallDepth = depth
	}
}

// WithMaxParseDepth limits how deeply statements and expressions may nest.
func WithMaxParseDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxParseDepth = depth
	}
}

func (cfg *config) parserOpts() []parser.Option {
	opts := []parser.Option{
		parser.WithFilename(cfg.filename),
		parser.WithLogger(cfg.logger),
	}
	if cfg.maxParseDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(cfg.maxParseDepth))
	}
	return opts
}

func (cfg *config) interpreterOpts() ([]interpreter.Option, error) {
	globals := map[string]object.Object{}
	if !cfg.withoutDefaultGlobals {
		maps.Copy(globals, builtins.Builtins())
	}
	custom, err := object.AsObjects(cfg.globals)
	if err != nil {
		return nil, err
	}
	maps.Copy(globals, custom)

	opts := []interpreter.Option{
		interpreter.WithGlobals(globals),
		interpreter.WithStdout(cfg.stdout),
		interpreter.WithLogger(cfg.logger),
	}
	if cfg.maxCallDepth > 0 {
		opts = append(opts, interpreter.WithMaxCallDepth(cfg.maxCallDepth))
	}
	return opts, nil
}

// Builtins returns the default global builtins.
func Builtins() map[string]any {
	env := map[string]any{}
	for k, v := range builtins.Builtins() {
		env[k] = v
	}
	return env
}

// Tokenize scans source into tokens, ending with an EOF token. Lexical
// errors are aggregated into a single multierror; the returned tokens omit
// the offending characters.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	cfg := newConfig(opts...)
	return lexer.Tokenize(source, lexer.WithFilename(cfg.filename))
}

// Parse parses source into a program. If there are errors, the returned
// error is a *parser.Errors and the program must not be executed.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	cfg := newConfig(opts...)
	return parser.Parse(ctx, source, cfg.parserOpts()...)
}

// Eval parses and runs source in a fresh global scope and returns the
// value of the last top-level expression statement as a native Go value.
// Values without a Go equivalent, such as functions, are returned as their
// display string.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	session, err := NewSession(opts...)
	if err != nil {
		return nil, err
	}
	return session.Eval(ctx, source)
}

// toGo converts a result object to the value returned by Eval.
func toGo(obj object.Object) any {
	value := obj.Interface()
	if value == nil {
		if _, isNil := obj.(*object.NilType); !isNil {
			return obj.String()
		}
	}
	return value
}
