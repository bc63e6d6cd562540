package object

import (
	goerrors "errors"
	"fmt"
)

// ErrType is wrapped by errors raised for operands of the wrong type.
var ErrType = goerrors.New("type error")

// TypeErrorf returns an error wrapping ErrType.
func TypeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

// ArgsError is returned when a callable receives the wrong number of
// arguments.
type ArgsError struct {
	Expected int
	Given    int
}

func NewArgsError(expected, given int) *ArgsError {
	return &ArgsError{Expected: expected, Given: given}
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("Expected %d arguments but got %d.", e.Expected, e.Given)
}
