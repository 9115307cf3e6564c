// Package validate checks generated per-tag documents against an embedded JSON Schema
// before they are written.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://git.home.luguber.info/inful/specsplit/output.schema.json"

//go:embed output.schema.json
var outputSchema []byte

// Validator validates serialized output documents. A compiled Validator is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded output document schema.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(schemaURL, bytes.NewReader(outputSchema)); err != nil {
		return nil, fmt.Errorf("failed to add output schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid output schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Document validates one serialized document.
func (v *Validator) Document(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("document does not match output schema: %w", err)
	}
	return nil
}
