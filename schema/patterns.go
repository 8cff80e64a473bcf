package schema

import "github.com/google/jsonschema-go/jsonschema"

// Patterns holds the value sets a schema enforces through "^(A|B)$" regular
// expressions.
type Patterns struct {
	// NetworkTypes are the accepted content.networks[].type values.
	NetworkTypes []string
	// Itemtypes are the accepted itemtype values, as written in the pattern.
	Itemtypes []string
}

// PatternsOf extracts [Patterns] from s. Missing or differently shaped
// patterns yield empty sets.
func PatternsOf(s *jsonschema.Schema) Patterns {
	var p Patterns

	if s == nil {
		return p
	}

	if it := s.Properties["itemtype"]; it != nil {
		p.Itemtypes = alternatives(it.Pattern)
	}

	networks := content(s)
	if networks != nil {
		networks = networks.Properties["networks"]
	}

	if networks != nil && networks.Items != nil {
		if typ := networks.Items.Properties["type"]; typ != nil {
			p.NetworkTypes = alternatives(typ.Pattern)
		}
	}

	return p
}
