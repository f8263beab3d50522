// Package schema validates structured documents against the canonical
// output JSON schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var documentSchemaJSON string

const documentSchemaURL = "https://metastitch.dev/schemas/document.schema.json"

// Validator checks marshaled documents against the output schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded document schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchemaJSON)); err != nil {
		return nil, fmt.Errorf("schema.NewValidator: adding resource: %w", err)
	}
	compiled, err := compiler.Compile(documentSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema.NewValidator: compiling: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks the JSON document bytes against the schema.
func (v *Validator) Validate(doc []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(doc))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("schema.Validator.Validate: decoding: %w", err)
	}
	if err := v.schema.Validate(value); err != nil {
		return fmt.Errorf("schema.Validator.Validate: %w", err)
	}
	return nil
}
