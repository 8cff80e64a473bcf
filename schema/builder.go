package schema

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// Builder assembles the inventory schema from a base document and caller
// extensions. A Builder holds only configuration: every call to
// [Builder.Build] reads the base schema again and starts from scratch.
//
// Create instances with [NewBuilder].
type Builder struct {
	logger        *slog.Logger
	properties    map[string]*jsonschema.Schema
	subProperties map[string]map[string]*jsonschema.Schema
	path          string
	itemtypes     []string
	flexible      bool
}

// Option configures a [Builder].
type Option func(*Builder)

// NewBuilder creates a [Builder] with the given options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: slog.Default()}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// WithPath reads the base schema from path instead of the embedded
// canonical schema.
func WithPath(path string) Option {
	return func(b *Builder) {
		b.path = path
	}
}

// WithExtraItemtypes allows additional itemtype values.
func WithExtraItemtypes(itemtypes ...string) Option {
	return func(b *Builder) {
		b.itemtypes = append(b.itemtypes, itemtypes...)
	}
}

// WithExtraProperties adds content sections, keyed by section name.
func WithExtraProperties(props map[string]*jsonschema.Schema) Option {
	return func(b *Builder) {
		if b.properties == nil {
			b.properties = map[string]*jsonschema.Schema{}
		}

		maps.Copy(b.properties, props)
	}
}

// WithExtraSubProperties adds properties inside existing content sections,
// keyed by section name and then property name.
func WithExtraSubProperties(props map[string]map[string]*jsonschema.Schema) Option {
	return func(b *Builder) {
		if b.subProperties == nil {
			b.subProperties = map[string]map[string]*jsonschema.Schema{}
		}

		for parent, sub := range props {
			if b.subProperties[parent] == nil {
				b.subProperties[parent] = map[string]*jsonschema.Schema{}
			}

			maps.Copy(b.subProperties[parent], sub)
		}
	}
}

// WithFlexible removes additionalProperties constraints from the content
// schema when flexible is true.
func WithFlexible(flexible bool) Option {
	return func(b *Builder) {
		b.flexible = flexible
	}
}

// WithLogger sets the logger used to report warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Operations returns the extension operations in the order they are applied:
// item types, properties, sub-properties, then flexible mode. Properties are
// applied in name order.
func (b *Builder) Operations() []Operation {
	var ops []Operation

	if len(b.itemtypes) > 0 {
		ops = append(ops, AddItemtypes(b.itemtypes...))
	}

	for _, name := range slices.Sorted(maps.Keys(b.properties)) {
		ops = append(ops, AddProperty(name, b.properties[name]))
	}

	for _, parent := range slices.Sorted(maps.Keys(b.subProperties)) {
		sub := b.subProperties[parent]
		for _, name := range slices.Sorted(maps.Keys(sub)) {
			ops = append(ops, AddSubProperty(parent, name, sub[name]))
		}
	}

	if b.flexible {
		ops = append(ops, StripAdditionalProperties())
	}

	return ops
}

// Build loads the base schema and applies the configured extensions.
// Warnings are logged and returned.
func (b *Builder) Build() (*jsonschema.Schema, []Warning, error) {
	base, err := b.base()
	if err != nil {
		return nil, nil, err
	}

	s, warnings, err := Build(base, b.Operations()...)
	if err != nil {
		return nil, nil, err
	}

	for _, w := range warnings {
		b.logger.Warn("schema extension skipped",
			slog.String("property", w.Property),
			slog.String("reason", w.Message),
		)
	}

	return s, warnings, nil
}

// Validator builds the schema and compiles it.
func (b *Builder) Validator() (*Validator, error) {
	s, _, err := b.Build()
	if err != nil {
		return nil, err
	}

	return Compile(s)
}

// Validate builds the schema and validates a JSON document against it.
func (b *Builder) Validate(data []byte) error {
	v, err := b.Validator()
	if err != nil {
		return err
	}

	return v.Validate(data)
}

// ValidateValue builds the schema and validates value against it.
func (b *Builder) ValidateValue(value any) error {
	v, err := b.Validator()
	if err != nil {
		return err
	}

	return v.ValidateValue(value)
}

// Patterns builds the schema and extracts its [Patterns].
func (b *Builder) Patterns() (Patterns, error) {
	s, _, err := b.Build()
	if err != nil {
		return Patterns{}, err
	}

	return PatternsOf(s), nil
}

func (b *Builder) base() (*jsonschema.Schema, error) {
	if b.path != "" {
		return Load(b.path)
	}

	return Canonical(), nil
}
