package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validationSchema relaxes the provider-facing schema for local checks.
// The tool descriptions invite explicit null for the optional header
// fields, so the validated copy accepts null where the provider copy
// says string.
func validationSchema() map[string]any {
	schema := ExtractionSchema()
	props := schema["properties"].(map[string]any)
	for _, name := range []string{"patient_name", "date_of_service", "provider_name"} {
		props[name].(map[string]any)["type"] = []any{"string", "null"}
	}
	return schema
}

// ValidateExtraction checks raw tool output against the extraction schema
// and unmarshals it on success. A schema violation means the provider
// broke the tool contract, so the raw payload is never partially trusted.
func ValidateExtraction(raw json.RawMessage) (*ExtractionResult, error) {
	schemaJSON, err := json.Marshal(validationSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal extraction schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return nil, fmt.Errorf("compile extraction schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode extraction payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("extraction payload violates schema: %w", err)
	}

	var result ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unmarshal extraction payload: %w", err)
	}
	return &result, nil
}
