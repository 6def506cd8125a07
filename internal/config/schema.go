package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// GetSchemaJSON returns the JSON Schema for borg-helper configuration
func GetSchemaJSON() string {
	return schemaJSON
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// validateRaw validates an already-parsed config document against the
// embedded schema. Used by the loader to fail fast on malformed sources.
func validateRaw(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		messages = append(messages, resErr.String())
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

// ValidateWithSchema validates a config file's content against the JSON
// Schema and reports every violation. Used by the validate command.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	// Convert the content to a JSON-compatible structure first so YAML
	// configs from BORG_HELPER_CONFIGS get the same schema treatment.
	var data interface{}

	switch {
	case strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml"):
		if err := yaml.Unmarshal(content, &data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "syntax",
				Message: fmt.Sprintf("Invalid YAML syntax: %v", err),
			})
			return result, nil
		}
	case strings.HasSuffix(path, ".toml"):
		// TOML goes through the regular loader, which includes schema
		// validation of the parsed document.
		loader := New(nil)
		if _, err := loader.Load(path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "schema",
				Message: err.Error(),
			})
		}
		return result, nil
	default:
		if err := json.Unmarshal(content, &data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "syntax",
				Message: fmt.Sprintf("Invalid JSON syntax: %v", err),
			})
			return result, nil
		}
	}

	schemaResult, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if !schemaResult.Valid() {
		result.Valid = false
		for _, resErr := range schemaResult.Errors() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   resErr.Field(),
				Message: resErr.Description(),
			})
		}
	}

	return result, nil
}
