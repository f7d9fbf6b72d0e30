// Package schemas provides JSON Schema validation for structured model output.
// Schemas are embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// JobPostingSchema is the schema for job fields extracted from a posting.
const JobPostingSchema = "job_posting.schema.json"

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks jsonContent against one of the embedded schemas.
// Content that is not JSON at all is reported as a ValidationError on (root).
func Validate(schemaName, jsonContent string) error {
	schema, err := load(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return resultError(result)
}

func load(schemaName string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[schemaName]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(schemaName)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaName, Message: "schema not embedded", Cause: err}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaName, Message: "invalid schema", Cause: err}
	}
	compiled[schemaName] = schema
	return schema, nil
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
