package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
)

// Version is the inventory format version described by the canonical schema.
const Version = "0.1"

// ResourceURL identifies the schema when it is compiled for validation.
const ResourceURL = "https://go.jacobcolvin.com/invconv/inventory.schema.json"

// Sentinel errors returned by this package.
var (
	ErrSchemaLoad = errors.New("load schema")
	ErrBuild      = errors.New("build schema")
	ErrValidation = errors.New("json does not validate")
	ErrExtensions = errors.New("invalid extensions")
)

//go:embed inventory.schema.json
var canonical []byte

// Canonical returns a fresh copy of the embedded canonical schema.
func Canonical() *jsonschema.Schema {
	s, err := Parse(canonical)
	if err != nil {
		panic(fmt.Sprintf("embedded schema: %v", err))
	}

	return s
}

// CanonicalJSON returns the embedded canonical schema document.
func CanonicalJSON() []byte {
	out := make([]byte, len(canonical))
	copy(out, canonical)

	return out
}

// Load reads a schema document from path.
func Load(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaLoad, err)
	}

	return Parse(data)
}

// Parse decodes a schema document.
func Parse(data []byte) (*jsonschema.Schema, error) {
	var s jsonschema.Schema

	err := json.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaLoad, err)
	}

	return &s, nil
}

// clone deep-copies s by round-tripping it through JSON.
func clone(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}

	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	var out jsonschema.Schema

	err = json.Unmarshal(b, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// content returns the sub-schema of the content section, or nil.
func content(s *jsonschema.Schema) *jsonschema.Schema {
	if s == nil || s.Properties == nil {
		return nil
	}

	return s.Properties["content"]
}
