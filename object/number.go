package object

import (
	"strconv"
)

// Number wraps float64 and implements Object. All Midas numbers are
// double-precision floats.
type Number struct {
	value float64
}

func NewNumber(value float64) *Number {
	return &Number{value: value}
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() float64 {
	return n.value
}

// String formats the number in its shortest decimal form, without a
// trailing ".0" for integral values.
func (n *Number) String() string {
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

func (n *Number) Inspect() string {
	return n.String()
}

func (n *Number) Interface() any {
	return n.value
}

func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && n.value == o.value
}

func (n *Number) IsTruthy() bool {
	return true
}

func (n *Number) Compare(other Object) (int, error) {
	o, ok := other.(*Number)
	if !ok {
		return 0, TypeErrorf("unable to compare number and %s", other.Type())
	}
	switch {
	case n.value < o.value:
		return -1, nil
	case n.value > o.value:
		return 1, nil
	}
	return 0, nil
}
