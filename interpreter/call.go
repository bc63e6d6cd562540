package interpreter

import (
	"context"
	goerrors "errors"

	"github.com/midas-lang/midas/ast"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/object"
	"github.com/midas-lang/midas/scope"
)

func (in *Interpreter) evalCall(ctx context.Context, x *ast.Call, env scope.Handle) (object.Object, error) {
	callee, err := in.eval(ctx, x.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]object.Object, 0, len(x.Args))
	for _, arg := range x.Args {
		value, err := in.eval(ctx, arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, in.errorAt(x.Paren, errors.E3004, "Can only call functions.")
	}
	if len(args) != fn.Arity() {
		argsErr := object.NewArgsError(fn.Arity(), len(args))
		return nil, in.errorAt(x.Paren, errors.E3005, "%s", argsErr.Error()).withCause(argsErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, in.cancelled(x.Paren, err)
	}
	if len(in.frames) >= in.maxCallDepth {
		return nil, in.errorAt(x.Paren, errors.E3006, "Stack overflow.")
	}

	source := in.currentSource()
	if f, ok := fn.(*object.Function); ok {
		source = f.Source()
	}
	in.frames = append(in.frames, frame{name: fn.Name(), call: x.Paren, source: source})
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	in.logger.Trace().
		Str("function", fn.Name()).
		Int("args", len(args)).
		Int("depth", len(in.frames)).
		Msg("call")

	switch fn := fn.(type) {
	case *object.Function:
		return in.callFunction(ctx, fn, args)
	case *object.Builtin:
		result, err := fn.Call(ctx, args...)
		if err != nil {
			return nil, in.nativeError(x, err)
		}
		if result == nil {
			result = object.Nil
		}
		return result, nil
	}
	return nil, in.errorAt(x.Paren, errors.E3004, "Can only call functions.")
}

// callFunction runs the body of fn in a new scope enclosed by the scope fn
// was declared in.
func (in *Interpreter) callFunction(ctx context.Context, fn *object.Function, args []object.Object) (object.Object, error) {
	env := in.arena.New(fn.Closure())
	defer in.arena.Release(env)

	for i, param := range fn.Decl().Params {
		in.arena.Define(env, param.Lexeme, args[i])
	}
	c, err := in.execBlock(ctx, fn.Decl().Body, env)
	if err != nil {
		return nil, err
	}
	if c.kind == returnValue {
		return c.value, nil
	}
	return object.Nil, nil
}

// nativeError attributes an error returned by a builtin to the call site.
func (in *Interpreter) nativeError(x *ast.Call, err error) error {
	var rtErr *RuntimeError
	if goerrors.As(err, &rtErr) {
		return err
	}
	code := errors.E3007
	var argsErr *object.ArgsError
	switch {
	case goerrors.As(err, &argsErr):
		code = errors.E3005
	case goerrors.Is(err, object.ErrType):
		code = errors.E3001
	case goerrors.Is(err, context.Canceled), goerrors.Is(err, context.DeadlineExceeded):
		return in.cancelled(x.Paren, err)
	}
	return in.errorAt(x.Paren, code, "%s", err.Error()).withCause(err)
}
