// Package schemas validates decoded documents against JSON Schemas.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is a single violation at a document path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("%s schema validation failed: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError indicates a schema that could not be compiled.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to compile schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

// Compile parses schema content once for repeated validation.
func Compile(name, content string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on an invalid schema. Intended for
// schemas embedded in the binary.
func MustCompile(name, content string) *Schema {
	s, err := Compile(name, content)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string {
	return s.name
}

// ValidateJSON validates raw JSON bytes.
func (s *Schema) ValidateJSON(data []byte) error {
	return s.check(gojsonschema.NewBytesLoader(data))
}

// Validate validates an already decoded document: maps, slices and scalars as
// produced by encoding/json or yaml.v3.
func (s *Schema) Validate(doc interface{}) error {
	return s.check(gojsonschema.NewGoLoader(doc))
}

func (s *Schema) check(loader gojsonschema.JSONLoader) error {
	result, err := s.compiled.Validate(loader)
	if err != nil {
		return fmt.Errorf("%s schema: unreadable document: %w", s.name, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: s.name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
