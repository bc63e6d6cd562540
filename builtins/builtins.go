// Package builtins defines the default set of native functions.
package builtins

import (
	"context"
	"time"

	"github.com/midas-lang/midas/object"
)

// NewClock returns a clock builtin reading the time from now.
func NewClock(now func() time.Time) *object.Builtin {
	return object.NewBuiltin("clock", 0, func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) != 0 {
			return nil, object.NewArgsError(0, len(args))
		}
		t := now()
		return object.NewNumber(float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)), nil
	})
}

// Clock returns the current wall-clock time in seconds since the Unix
// epoch.
func Clock(ctx context.Context, args ...object.Object) (object.Object, error) {
	return NewClock(time.Now).Call(ctx, args...)
}

// Builtins returns the native functions every program starts with.
func Builtins() map[string]object.Object {
	return map[string]object.Object{
		"clock": NewClock(time.Now),
	}
}
