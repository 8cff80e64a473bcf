package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEncode is returned when a document cannot be written as JSON.
var ErrEncode = errors.New("encode document")

// Encode writes v as JSON. HTML characters are not escaped. When indent is
// non-empty the output is pretty-printed with it. No trailing newline is
// written.
func Encode(v Value, indent string) ([]byte, error) {
	var buf bytes.Buffer

	err := encodeValue(&buf, v)
	if err != nil {
		return nil, err
	}

	if indent == "" {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer

	err = json.Indent(&out, buf.Bytes(), "", indent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return out.Bytes(), nil
}

// MarshalJSON implements [json.Marshaler], keeping key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Encode(o, "")
}

// MarshalJSON implements [json.Marshaler].
func (l List) MarshalJSON() ([]byte, error) {
	return Encode(l, "")
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			buf.WriteString("null")

			return nil
		}

		buf.WriteByte('{')

		i := 0
		for key, item := range x.All() {
			if i > 0 {
				buf.WriteByte(',')
			}

			i++

			err := encodeScalar(buf, key)
			if err != nil {
				return err
			}

			buf.WriteByte(':')

			err = encodeValue(buf, item)
			if err != nil {
				return fmt.Errorf("%q: %w", key, err)
			}
		}

		buf.WriteByte('}')

		return nil
	case List:
		if x == nil {
			buf.WriteString("[]")

			return nil
		}

		buf.WriteByte('[')

		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}

			err := encodeValue(buf, item)
			if err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}

		buf.WriteByte(']')

		return nil
	case nil:
		buf.WriteString("null")

		return nil
	}

	return encodeScalar(buf, Native(v))
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer

	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))

	return nil
}
