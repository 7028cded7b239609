package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildMedicineJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the inbound medicine-analysis payload. It is used
// to reject malformed requests before any field decoding happens.
func BuildMedicineJSONSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"medicine", "dosage", "patient"},
		"properties": map[string]any{
			"medicine": map[string]any{"type": "string", "minLength": 1},
			"dosage": map[string]any{
				"type":                 "object",
				"required":             []string{"morning", "evening", "night"},
				"additionalProperties": false,
				"properties": map[string]any{
					"morning": slotProp(),
					"evening": slotProp(),
					"night":   slotProp(),
				},
			},
			"patient": map[string]any{
				"type":                 "object",
				"required":             []string{"age", "gender"},
				"additionalProperties": false,
				"properties": map[string]any{
					"age":    map[string]any{"type": "integer", "minimum": 1},
					"gender": map[string]any{"type": "string", "enum": Genders},
				},
			},
		},
	}
}

func slotProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
