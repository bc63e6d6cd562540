// Package object provides the runtime values of Midas programs.
//
// Code that inspects values type-switches on the concrete types:
//
//	switch obj := obj.(type) {
//	case *object.Number:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get a string
// name of the object type, such as "number" or "string".
package object

import "context"

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	BUILTIN  Type = "builtin"
	FUNCTION Type = "function"
	NIL      Type = "nil"
	NUMBER   Type = "number"
	STRING   Type = "string"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all Midas values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// String returns the form written by print: strings are unquoted and
	// integral numbers have no fractional part.
	String() string

	// Inspect returns a developer-facing representation, which quotes
	// strings.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() any

	// Equals reports value equality. Values of different types are never
	// equal.
	Equals(other Object) bool

	// IsTruthy reports whether the object counts as true in a condition.
	// Only nil and false are falsy.
	IsTruthy() bool
}

// Callable is implemented by values that may appear as the callee of a
// call expression.
type Callable interface {
	Object

	// Name of the callable, used in stack traces.
	Name() string

	// Arity is the exact number of arguments the callable accepts.
	Arity() int
}

// Comparable is an interface used to order two objects of the same type.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Equals reports whether a and b are equal. Nil equals only Nil.
func Equals(a, b Object) bool {
	return a.Equals(b)
}

// Truthy reports whether obj is truthy. A nil interface is treated as Nil.
func Truthy(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.IsTruthy()
}
