package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Extensions describes schema extensions in a YAML file:
//
//	itemtypes:
//	  - \Glpi\Custom\Asset\Mine
//	properties:
//	  plugin_node:
//	    type: string
//	sub_properties:
//	  hardware:
//	    hw_plugin_node:
//	      type: string
//	flexible: false
type Extensions struct {
	Properties    map[string]any            `yaml:"properties"`
	SubProperties map[string]map[string]any `yaml:"sub_properties"`
	Itemtypes     []string                  `yaml:"itemtypes"`
	Flexible      bool                      `yaml:"flexible"`
}

// LoadExtensions reads an [Extensions] file.
func LoadExtensions(path string) (*Extensions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtensions, err)
	}

	return ParseExtensions(data)
}

// ParseExtensions decodes [Extensions] from YAML.
func ParseExtensions(data []byte) (*Extensions, error) {
	var ext Extensions

	err := yaml.Unmarshal(data, &ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtensions, err)
	}

	return &ext, nil
}

// Options converts e into [Builder] options.
func (e *Extensions) Options() ([]Option, error) {
	var opts []Option

	if len(e.Itemtypes) > 0 {
		opts = append(opts, WithExtraItemtypes(e.Itemtypes...))
	}

	if len(e.Properties) > 0 {
		props := make(map[string]*jsonschema.Schema, len(e.Properties))

		for name, def := range e.Properties {
			s, err := toSchema(def)
			if err != nil {
				return nil, fmt.Errorf("%w: property %s: %w", ErrExtensions, name, err)
			}

			props[name] = s
		}

		opts = append(opts, WithExtraProperties(props))
	}

	if len(e.SubProperties) > 0 {
		subs := make(map[string]map[string]*jsonschema.Schema, len(e.SubProperties))

		for parent, defs := range e.SubProperties {
			subs[parent] = make(map[string]*jsonschema.Schema, len(defs))

			for name, def := range defs {
				s, err := toSchema(def)
				if err != nil {
					return nil, fmt.Errorf("%w: property %s/%s: %w", ErrExtensions, parent, name, err)
				}

				subs[parent][name] = s
			}
		}

		opts = append(opts, WithExtraSubProperties(subs))
	}

	if e.Flexible {
		opts = append(opts, WithFlexible(true))
	}

	return opts, nil
}

// toSchema converts a decoded YAML value to a schema through JSON.
func toSchema(v any) (*jsonschema.Schema, error) {
	if v == nil {
		return &jsonschema.Schema{}, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var s jsonschema.Schema

	err = json.Unmarshal(b, &s)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
