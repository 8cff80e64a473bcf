package document

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Value is a node in a document. See the package documentation for the
// possible concrete types.
type Value interface {
	isValue()
}

// String is a text scalar.
type String string

// Int is an integer scalar.
type Int int64

// Float is a floating point scalar.
type Float float64

// Bool is a boolean scalar.
type Bool bool

// List is an ordered sequence of values.
type List []Value

func (String) isValue()  {}
func (Int) isValue()     {}
func (Float) isValue()   {}
func (Bool) isValue()    {}
func (List) isValue()    {}
func (*Object) isValue() {}

// AsList returns v as a [List]. A list is returned unchanged; any other value
// is wrapped in a single-element list. A nil value yields a nil list.
//
// AsList is idempotent: AsList(AsList(v)) is equal to AsList(v).
func AsList(v Value) List {
	switch x := v.(type) {
	case nil:
		return nil
	case List:
		return x
	default:
		return List{v}
	}
}

// IsScalar reports whether v is a [String], [Int], [Float] or [Bool].
func IsScalar(v Value) bool {
	switch v.(type) {
	case String, Int, Float, Bool:
		return true
	}

	return false
}

// Text returns the textual form of a scalar. Booleans render as "1" and ""
// to match the agents that emitted them. Objects, lists and nil report false.
func Text(v Value) (string, bool) {
	switch x := v.(type) {
	case String:
		return string(x), true
	case Int:
		return strconv.FormatInt(int64(x), 10), true
	case Float:
		return strconv.FormatFloat(float64(x), 'f', -1, 64), true
	case Bool:
		if x {
			return "1", true
		}

		return "", true
	}

	return "", false
}

// Native converts v into plain Go values: string, int64, float64, bool,
// map[string]any and []any.
func Native(v Value) any {
	switch x := v.(type) {
	case String:
		return string(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Bool:
		return bool(x)
	case List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Native(item)
		}

		return out
	case *Object:
		if x == nil {
			return nil
		}

		out := make(map[string]any, x.Len())
		for key, item := range x.All() {
			out[key] = Native(item)
		}

		return out
	}

	return nil
}

// From converts plain Go values (as produced by encoding/json or written in
// tests) into a [Value]. Map keys are inserted in sorted order. Unsupported
// types and nil yield nil.
func From(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}

		if f, err := x.Float64(); err == nil {
			return Float(f)
		}

		return String(x.String())
	case []any:
		out := make(List, 0, len(x))
		for _, item := range x {
			if conv := From(item); conv != nil {
				out = append(out, conv)
			}
		}

		return out
	case map[string]any:
		obj := NewObject()
		for _, key := range slices.Sorted(maps.Keys(x)) {
			obj.Set(key, From(x[key]))
		}

		return obj
	}

	return nil
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Object:
		return x.Clone()
	case List:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}

		return out
	}

	return v
}
