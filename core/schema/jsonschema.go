package schema

import (
	"encoding/json"
	"fmt"
)

// JSONSchema is the subset of JSON Schema used to describe record shapes to
// models and providers.
type JSONSchema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *JSONSchema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// MinItems is the minimum length of an array
	MinItems *int `json:"minItems,omitempty"`
	// Enum contains the list of allowed values
	Enum []any `json:"enum,omitempty"`
}

// JsonString converts the schema to its JSON representation.
// indent: optional bool parameter. If true, formats JSON with indentation. If false or omitted, returns compact JSON.
func (s *JSONSchema) JsonString(indent ...bool) (string, error) {
	shouldIndent := len(indent) > 0 && indent[0]

	var jsonBytes []byte
	var err error

	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
// Returns an error message if marshalling fails.
func (s *JSONSchema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
