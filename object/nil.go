package object

type NilType struct{}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) String() string {
	return "nil"
}

func (n *NilType) Inspect() string {
	return "nil"
}

func (n *NilType) Interface() any {
	return nil
}

func (n *NilType) Equals(other Object) bool {
	_, ok := other.(*NilType)
	return ok
}

func (n *NilType) IsTruthy() bool {
	return false
}
