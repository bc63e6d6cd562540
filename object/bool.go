package object

type Bool struct {
	value bool
}

// NewBool returns the shared True or False object.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) String() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) Inspect() string {
	return b.String()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && b.value == o.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}
