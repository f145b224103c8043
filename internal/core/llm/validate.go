package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

// SchemaValidator checks documents against a schema compiled once.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the canonical payload schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	s, err := compileSchema(BuildPayloadJSONSchema())
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{schema: s}, nil
}

// ValidatePayload marshals p and validates it.
func (v *SchemaValidator) ValidatePayload(p entity.Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return v.Validate(data)
}

// Validate validates raw JSON.
func (v *SchemaValidator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
