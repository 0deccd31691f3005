package domain

import (
	"encoding/json"
	"fmt"
)

// StructuralSchema is the fixed nine-field abstraction of a document's system
// structure, stripped of domain vocabulary. It is produced only by schema
// extraction from validated model output.
//
// The four structural fields (OptimizationGoal, Constraints, StateVariables,
// FailureModes) feed embedding and explanation. Entities and
// PlainLanguageSummary are display fields and never influence similarity.
type StructuralSchema struct {
	SystemName               string   `json:"system_name"`
	Domain                   string   `json:"domain"`
	Entities                 []string `json:"entities"`
	StateVariables           []string `json:"state_variables"`
	OptimizationGoal         string   `json:"optimization_goal"`
	Constraints              []string `json:"constraints"`
	FailureModes             []string `json:"failure_modes"`
	KeyEquationsOrPrinciples []string `json:"key_equations_or_principles"`
	PlainLanguageSummary     string   `json:"plain_language_summary"`
}

// schemaStringFields are the keys that must hold non-null JSON strings.
var schemaStringFields = []string{
	"system_name",
	"domain",
	"optimization_goal",
	"plain_language_summary",
}

// schemaListFields are the keys that must hold arrays of strings.
var schemaListFields = []string{
	"entities",
	"state_variables",
	"constraints",
	"failure_modes",
	"key_equations_or_principles",
}

// SchemaFieldCount is the number of keys a valid schema object carries.
const SchemaFieldCount = 9

// ParseSchema validates raw JSON into a StructuralSchema.
// The object must carry exactly the nine required keys: string fields must be
// non-null strings (empty permitted), list fields must be arrays of strings.
// Extra keys, missing keys, and null values are all rejected.
func ParseSchema(raw []byte) (*StructuralSchema, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidInput, err)
	}

	if len(fields) != SchemaFieldCount {
		return nil, fmt.Errorf("%w: expected %d keys, got %d",
			ErrInvalidInput, SchemaFieldCount, len(fields))
	}

	for _, key := range schemaStringFields {
		rawVal, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrInvalidInput, key)
		}
		if _, err := parseString(rawVal); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidInput, key, err)
		}
	}

	for _, key := range schemaListFields {
		rawVal, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrInvalidInput, key)
		}
		if _, err := parseStringList(rawVal); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidInput, key, err)
		}
	}

	var schema StructuralSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	normalise(&schema)
	return &schema, nil
}

// parseString requires a non-null JSON string.
func parseString(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("not a string")
	}
	if s == nil {
		return "", fmt.Errorf("null is not a valid string")
	}
	return *s, nil
}

// parseStringList requires a non-null array whose elements are all strings.
func parseStringList(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("not an array")
	}
	if items == nil {
		// Unmarshal accepts JSON null into a slice without error.
		return nil, fmt.Errorf("null is not a valid array")
	}
	result := make([]string, 0, len(items))
	for i, item := range items {
		s, err := parseString(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %v", i, err)
		}
		result = append(result, s)
	}
	return result, nil
}

// normalise replaces nil slices with empty ones so re-serialisation always
// reproduces nine keys with the original value types.
func normalise(s *StructuralSchema) {
	if s.Entities == nil {
		s.Entities = []string{}
	}
	if s.StateVariables == nil {
		s.StateVariables = []string{}
	}
	if s.Constraints == nil {
		s.Constraints = []string{}
	}
	if s.FailureModes == nil {
		s.FailureModes = []string{}
	}
	if s.KeyEquationsOrPrinciples == nil {
		s.KeyEquationsOrPrinciples = []string{}
	}
}
