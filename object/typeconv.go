package object

import "fmt"

// FromGo converts a Go value into an Object. Numeric types become Number,
// and an Object is returned unchanged.
func FromGo(v any) (Object, error) {
	switch v := v.(type) {
	case nil:
		return Nil, nil
	case Object:
		return v, nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case float64:
		return NewNumber(v), nil
	case float32:
		return NewNumber(float64(v)), nil
	case int:
		return NewNumber(float64(v)), nil
	case int32:
		return NewNumber(float64(v)), nil
	case int64:
		return NewNumber(float64(v)), nil
	case uint:
		return NewNumber(float64(v)), nil
	case uint32:
		return NewNumber(float64(v)), nil
	case uint64:
		return NewNumber(float64(v)), nil
	}
	return nil, TypeErrorf("unsupported go type %T", v)
}

// AsObjects converts a map of Go values with FromGo.
func AsObjects(m map[string]any) (map[string]Object, error) {
	result := make(map[string]Object, len(m))
	for k, v := range m {
		obj, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		result[k] = obj
	}
	return result, nil
}

func AsNumber(obj Object) (float64, error) {
	n, ok := obj.(*Number)
	if !ok {
		return 0, TypeErrorf("expected number (got %s)", obj.Type())
	}
	return n.value, nil
}

func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", TypeErrorf("expected string (got %s)", obj.Type())
	}
	return s.value, nil
}
