package validation

import (
	"fmt"

	"github.com/mojjammil/dokicasa-integration/pkg/registry"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages returns "field: message" strings for every error.
func (r *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return messages
}

// Validator checks documents against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator(schema map[string]interface{}) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks doc, which must be JSON-marshalable.
func (v *Validator) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// FieldNames names the submission properties in a given input shape.
type FieldNames struct {
	City           string
	ContractType   string
	Fields         string
	CreationFields string
	ExternalID     string
	// AllowAdditional accepts properties other than the named ones.
	AllowAdditional bool
}

// HTTPFieldNames is the JSON body of the submit endpoint.
var HTTPFieldNames = FieldNames{
	City:           "city",
	ContractType:   "contract_type",
	Fields:         "fields",
	CreationFields: "creation_fields",
	ExternalID:     "external_id",
}

// JobFieldNames are the Zeebe process variables; other process variables may
// be present.
var JobFieldNames = FieldNames{
	City:            "city",
	ContractType:    "contractType",
	Fields:          "fields",
	CreationFields:  "creationFields",
	ExternalID:      "externalId",
	AllowAdditional: true,
}

// SubmissionSchema builds the JSON schema of a submission request: city and
// contract type restricted to the supported values, fields a required object,
// creation fields and external id optional.
func SubmissionSchema(names FieldNames) map[string]interface{} {
	cities := make([]interface{}, 0, len(registry.Cities))
	for _, c := range registry.Cities {
		cities = append(cities, string(c))
	}
	contractTypes := make([]interface{}, 0, len(registry.ContractTypes))
	for _, ct := range registry.ContractTypes {
		contractTypes = append(contractTypes, string(ct))
	}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]interface{}{
			names.City:           map[string]interface{}{"type": "string", "enum": cities},
			names.ContractType:   map[string]interface{}{"type": "string", "enum": contractTypes},
			names.Fields:         map[string]interface{}{"type": "object"},
			names.CreationFields: map[string]interface{}{"type": []interface{}{"object", "null"}},
			names.ExternalID:     map[string]interface{}{"type": []interface{}{"string", "null"}},
		},
		"required":             []interface{}{names.City, names.ContractType, names.Fields},
		"additionalProperties": names.AllowAdditional,
	}
}

// NewSubmissionValidator compiles SubmissionSchema for names.
func NewSubmissionValidator(names FieldNames) (*Validator, error) {
	return NewValidator(SubmissionSchema(names))
}
