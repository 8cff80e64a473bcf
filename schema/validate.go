package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	jsv "github.com/santhosh-tekuri/jsonschema/v5"
)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Validator checks documents against a compiled schema. It is safe for
// concurrent use.
type Validator struct {
	compiled *jsv.Schema
	doc      any
}

// Compile prepares s for validation.
func Compile(s *jsonschema.Schema) (*Validator, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	c := jsv.NewCompiler()
	c.Draft = jsv.Draft7

	err = c.AddResource(ResourceURL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	compiled, err := c.Compile(ResourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	var doc any

	err = json.Unmarshal(b, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	return &Validator{compiled: compiled, doc: doc}, nil
}

// Validate checks a JSON document. Violations are reported in a single
// [ErrValidation] error with one line per violation.
func (v *Validator) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var instance any

	err := dec.Decode(&instance)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	err = v.compiled.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsv.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var msgs []string

	for _, leaf := range leaves(ve) {
		for _, msg := range v.describe(leaf, instance) {
			if !slices.Contains(msgs, msg) {
				msgs = append(msgs, msg)
			}
		}
	}

	return fmt.Errorf("%w: violations:\n%s", ErrValidation, strings.Join(msgs, "\n"))
}

// ValidateValue marshals v to JSON and validates it. Any value supported by
// encoding/json works, including *document.Object.
func (v *Validator) ValidateValue(value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.Validate(data)
}

// Validate checks a JSON document against s.
func Validate(s *jsonschema.Schema, data []byte) error {
	v, err := Compile(s)
	if err != nil {
		return err
	}

	return v.Validate(data)
}

func leaves(ve *jsv.ValidationError) []*jsv.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsv.ValidationError{ve}
	}

	var out []*jsv.ValidationError
	for _, cause := range ve.Causes {
		out = append(out, leaves(cause)...)
	}

	return out
}

// describe renders a violation in the wording inventory submitters know.
func (v *Validator) describe(ve *jsv.ValidationError, instance any) []string {
	_, fragment, _ := strings.Cut(ve.AbsoluteKeywordLocation, "#")
	parentPtr, keyword := splitPointer(fragment)

	node, nodeOK := lookupPointer(v.doc, parentPtr)
	value, valueOK := lookupPointer(instance, ve.InstanceLocation)
	schemaNode, _ := node.(map[string]any)
	object, _ := value.(map[string]any)

	fallback := []string{fmt.Sprintf("%s: %s", location(ve.InstanceLocation), ve.Message)}

	if !nodeOK || !valueOK {
		return fallback
	}

	switch keyword {
	case "required":
		required, _ := schemaNode["required"].([]any)

		var out []string

		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}

			if _, present := object[name]; !present && object != nil {
				out = append(out, "Required property missing: "+name)
			}
		}

		if len(out) > 0 {
			return out
		}
	case "additionalProperties":
		props, _ := schemaNode["properties"].(map[string]any)

		var extra []string

		for _, key := range slices.Sorted(maps.Keys(object)) {
			if _, known := props[key]; !known {
				extra = append(extra, key)
			}
		}

		if len(extra) > 0 {
			return []string{"Additional properties not allowed: " + strings.Join(extra, ", ")}
		}
	case "pattern":
		pattern, _ := schemaNode["pattern"].(string)
		if s, ok := value.(string); ok {
			return []string{fmt.Sprintf("%s does not match to %s", quote(s), pattern)}
		}
	}

	return fallback
}

// splitPointer splits a JSON pointer into its parent and last token.
func splitPointer(ptr string) (parent, last string) {
	i := strings.LastIndex(ptr, "/")
	if i < 0 {
		return "", ptr
	}

	return ptr[:i], pointerUnescaper.Replace(ptr[i+1:])
}

// lookupPointer resolves a JSON pointer in a decoded JSON document.
func lookupPointer(doc any, ptr string) (any, bool) {
	if ptr == "" || ptr == "/" {
		return doc, true
	}

	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		tok = pointerUnescaper.Replace(tok)

		switch x := doc.(type) {
		case map[string]any:
			next, ok := x[tok]
			if !ok {
				return nil, false
			}

			doc = next
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(x) {
				return nil, false
			}

			doc = x[i]
		default:
			return nil, false
		}
	}

	return doc, true
}

func location(ptr string) string {
	if ptr == "" {
		return "/"
	}

	return ptr
}

func quote(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
