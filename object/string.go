package object

import (
	"strconv"
	"strings"
)

type String struct {
	value string
}

func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) String() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && s.value == o.value
}

func (s *String) IsTruthy() bool {
	return true
}

// Compare orders strings lexicographically by byte.
func (s *String) Compare(other Object) (int, error) {
	o, ok := other.(*String)
	if !ok {
		return 0, TypeErrorf("unable to compare string and %s", other.Type())
	}
	return strings.Compare(s.value, o.value), nil
}
