package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

var alternationRe = regexp.MustCompile(`^\^\((.+)\)\$$`)

// Warning describes an extension that was skipped. Warnings never stop a
// build; the existing definition wins.
type Warning struct {
	// Property is the property path the warning is about, such as
	// "hardware/chassis_type".
	Property string
	Message  string
}

// String returns the warning message.
func (w Warning) String() string {
	return w.Message
}

// Operation modifies a schema in place and reports skipped changes.
type Operation func(s *jsonschema.Schema) []Warning

// Build applies ops in order to a deep copy of base. The base schema is never
// modified.
func Build(base *jsonschema.Schema, ops ...Operation) (*jsonschema.Schema, []Warning, error) {
	s, err := clone(base)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	if s == nil {
		return nil, nil, fmt.Errorf("%w: nil base schema", ErrBuild)
	}

	var warnings []Warning

	for _, op := range ops {
		warnings = append(warnings, op(s)...)
	}

	return s, warnings, nil
}

// AddItemtypes appends item types to the alternation in the itemtype
// pattern. Types already present are skipped and new ones are quoted for the
// regular expression. Nothing happens when the pattern is not of the form
// "^(A|B)$".
func AddItemtypes(itemtypes ...string) Operation {
	return func(s *jsonschema.Schema) []Warning {
		prop := s.Properties["itemtype"]
		if prop == nil {
			return nil
		}

		known := alternatives(prop.Pattern)
		if known == nil {
			return nil
		}

		for _, it := range itemtypes {
			quoted := regexp.QuoteMeta(it)
			if slices.Contains(known, it) || slices.Contains(known, quoted) {
				continue
			}

			known = append(known, quoted)
		}

		prop.Pattern = "^(" + strings.Join(known, "|") + ")$"

		return nil
	}
}

// AddProperty adds a section to the content schema.
func AddProperty(name string, def *jsonschema.Schema) Operation {
	return func(s *jsonschema.Schema) []Warning {
		c := content(s)
		if c == nil {
			return []Warning{missing("content")}
		}

		if _, ok := c.Properties[name]; ok {
			return []Warning{{
				Property: name,
				Message:  fmt.Sprintf("Property %s already exists in schema.", name),
			}}
		}

		if c.Properties == nil {
			c.Properties = map[string]*jsonschema.Schema{}
		}

		c.Properties[name] = copyDefinition(def)

		return nil
	}
}

// AddSubProperty adds a property inside an existing content section. Array
// sections receive it in their item schema and object sections in their own
// properties.
func AddSubProperty(parent, name string, def *jsonschema.Schema) Operation {
	return func(s *jsonschema.Schema) []Warning {
		c := content(s)
		if c == nil {
			return []Warning{missing("content")}
		}

		p := c.Properties[parent]
		if p == nil {
			return []Warning{missing(parent)}
		}

		var target *jsonschema.Schema

		switch p.Type {
		case "array":
			if p.Items == nil {
				p.Items = &jsonschema.Schema{Type: "object"}
			}

			target = p.Items
		case "object":
			target = p
		default:
			return []Warning{{
				Property: parent,
				Message:  fmt.Sprintf("Unknown type %s", p.Type),
			}}
		}

		if _, ok := target.Properties[name]; ok {
			return []Warning{{
				Property: parent + "/" + name,
				Message:  fmt.Sprintf("Property %s/%s already exists in schema.", parent, name),
			}}
		}

		if target.Properties == nil {
			target.Properties = map[string]*jsonschema.Schema{}
		}

		target.Properties[name] = copyDefinition(def)

		return nil
	}
}

// StripAdditionalProperties removes every boolean additionalProperties
// constraint from the content schema and its descendants. The document root
// keeps its own constraint.
func StripAdditionalProperties() Operation {
	return func(s *jsonschema.Schema) []Warning {
		strip(content(s))

		return nil
	}
}

func strip(s *jsonschema.Schema) {
	if s == nil {
		return
	}

	if isBoolSchema(s.AdditionalProperties) {
		s.AdditionalProperties = nil
	} else {
		strip(s.AdditionalProperties)
	}

	for _, child := range s.Properties {
		strip(child)
	}

	for _, child := range s.PatternProperties {
		strip(child)
	}

	strip(s.Items)

	for _, group := range [][]*jsonschema.Schema{s.AllOf, s.AnyOf, s.OneOf} {
		for _, child := range group {
			strip(child)
		}
	}
}

// isBoolSchema reports whether s marshals to a JSON boolean.
func isBoolSchema(s *jsonschema.Schema) bool {
	if s == nil {
		return false
	}

	b, err := s.MarshalJSON()
	if err != nil {
		return false
	}

	return string(b) == "true" || string(b) == "false"
}

// alternatives splits a "^(A|B)$" pattern into its alternatives.
func alternatives(pattern string) []string {
	m := alternationRe.FindStringSubmatch(pattern)
	if m == nil {
		return nil
	}

	return strings.Split(m[1], "|")
}

func copyDefinition(def *jsonschema.Schema) *jsonschema.Schema {
	if def == nil {
		return &jsonschema.Schema{}
	}

	out, err := clone(def)
	if err != nil {
		return def
	}

	return out
}

func missing(name string) Warning {
	return Warning{
		Property: name,
		Message:  fmt.Sprintf("Property %s does not exists in schema.", name),
	}
}
