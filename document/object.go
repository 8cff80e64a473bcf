package document

import (
	"iter"
	"slices"
	"strings"
)

// Object maps string keys to values and remembers insertion order.
//
// Read methods are safe to call on a nil *Object, which behaves as an empty
// object. Create instances with [NewObject].
type Object struct {
	fields map[string]Value
	keys   []string
}

// NewObject returns an empty [*Object].
func NewObject() *Object {
	return &Object{fields: map[string]Value{}}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All iterates over key/value pairs in insertion order. Mutating o during
// iteration is allowed; the iteration works on the keys present when it
// started and skips keys deleted since.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for _, key := range slices.Clone(o.keys) {
			v, ok := o.fields[key]
			if !ok {
				continue
			}

			if !yield(key, v) {
				return
			}
		}
	}
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}

	_, ok := o.fields[key]

	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}

	v, ok := o.fields[key]

	return v, ok
}

// Set stores v under key. An existing key keeps its position. A nil v
// deletes the key.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		o.Delete(key)

		return
	}

	if o.fields == nil {
		o.fields = map[string]Value{}
	}

	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.fields[key] = v
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}

	if _, ok := o.fields[key]; !ok {
		return false
	}

	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })

	return true
}

// Object returns the child object stored under key.
func (o *Object) Object(key string) (*Object, bool) {
	v, _ := o.Get(key)
	obj, ok := v.(*Object)

	return obj, ok && obj != nil
}

// List returns the child list stored under key.
func (o *Object) List(key string) (List, bool) {
	v, _ := o.Get(key)
	l, ok := v.(List)

	return l, ok
}

// Text returns the textual form of the scalar stored under key. See [Text].
func (o *Object) Text(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}

	return Text(v)
}

// Ensure returns the child object stored under key, creating it (and
// replacing any non-object value) when needed.
func (o *Object) Ensure(key string) *Object {
	if child, ok := o.Object(key); ok {
		return child
	}

	child := NewObject()
	o.Set(key, child)

	return child
}

// Lookup follows a path of object keys and returns the value at its end.
func (o *Object) Lookup(path ...string) (Value, bool) {
	cur := o
	for i, key := range path {
		v, ok := cur.Get(key)
		if !ok {
			return nil, false
		}

		if i == len(path)-1 {
			return v, true
		}

		cur, ok = v.(*Object)
		if !ok {
			return nil, false
		}
	}

	return cur, cur != nil
}

// Rename moves the value under from to to, unless to is already present.
// The from key is removed either way, so a legacy field never clobbers a
// modern one. Rename reports whether a value was moved.
func (o *Object) Rename(from, to string) bool {
	v, ok := o.Get(from)
	if !ok {
		return false
	}

	o.Delete(from)

	if o.Has(to) {
		return false
	}

	o.Set(to, v)

	return true
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}

	out := &Object{
		fields: make(map[string]Value, len(o.fields)),
		keys:   slices.Clone(o.keys),
	}

	for key, v := range o.fields {
		out.fields[key] = Clone(v)
	}

	return out
}

// LowercaseKeys returns a copy of v with every object key lowercased,
// recursively. When two keys collide after lowercasing, the later value
// wins and keeps the position of the first.
func LowercaseKeys(v Value) Value {
	switch x := v.(type) {
	case *Object:
		out := NewObject()
		for key, item := range x.All() {
			out.Set(strings.ToLower(key), LowercaseKeys(item))
		}

		return out
	case List:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = LowercaseKeys(item)
		}

		return out
	}

	return v
}
