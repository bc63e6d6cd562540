package object

import (
	"context"
	"fmt"

	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/scope"
)

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Builtin)(nil)
)

// Source is the program text a function was declared in. Errors raised
// while running the function body quote lines from it.
type Source struct {
	Filename string
	Text     string
}

// Function is a user-defined function paired with the scope it was
// declared in.
type Function struct {
	decl    *ast.Function
	closure scope.Handle
	source  Source
}

// NewFunction returns a function value for decl closing over the given
// scope. The caller is responsible for retaining the scope.
func NewFunction(decl *ast.Function, closure scope.Handle, source Source) *Function {
	return &Function{decl: decl, closure: closure, source: source}
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Decl() *ast.Function {
	return f.decl
}

// Closure returns the handle of the scope the function was declared in.
func (f *Function) Closure() scope.Handle {
	return f.closure
}

// Source returns the program the function was declared in.
func (f *Function) Source() Source {
	return f.source
}

func (f *Function) Name() string {
	return f.decl.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name())
}

func (f *Function) Inspect() string {
	return f.String()
}

func (f *Function) Interface() any {
	return nil
}

// Equals reports identity: two function values are equal only if they are
// the same declaration evaluated in the same scope.
func (f *Function) Equals(other Object) bool {
	o, ok := other.(*Function)
	return ok && f.decl == o.decl && f.closure == o.closure
}

func (f *Function) IsTruthy() bool {
	return true
}

// Builtin wraps a Go function and implements Object.
type Builtin struct {
	fn    BuiltinFunction
	name  string
	arity int
}

// NewBuiltin returns a native function taking exactly arity arguments.
func NewBuiltin(name string, arity int, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name, arity: arity}
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Arity() int {
	return b.arity
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) String() string {
	return "<native fn>"
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) Interface() any {
	return nil
}

func (b *Builtin) Equals(other Object) bool {
	return b == other
}

func (b *Builtin) IsTruthy() bool {
	return true
}
