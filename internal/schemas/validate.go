// Package schemas validates Career Hub data documents against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	rootschemas "github.com/jonathan/career-hub/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Names of the embedded schemas.
const (
	Deck       = "deck"
	WageReport = "wage_report"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:\n", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func load() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema)
		files, err := fs.Glob(rootschemas.FS, "*.schema.json")
		if err != nil {
			compileErr = &SchemaLoadError{Name: "*", Message: "failed to list schemas", Cause: err}
			return
		}
		for _, file := range files {
			name := strings.TrimSuffix(file, ".schema.json")
			data, err := fs.ReadFile(rootschemas.FS, file)
			if err != nil {
				compileErr = &SchemaLoadError{Name: name, Message: "failed to read", Cause: err}
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				compileErr = &SchemaLoadError{Name: name, Message: "invalid schema", Cause: err}
				return
			}
			compiled[name] = schema
		}
	})
	return compiled, compileErr
}

// Names lists the embedded schema names in sorted order.
func Names() ([]string, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateDocument validates a decoded document (maps, slices and scalars as
// produced by encoding/json or yaml.v3) against the named schema.
func ValidateDocument(name string, doc any) error {
	return validate(name, gojsonschema.NewGoLoader(doc))
}

// ValidateJSONString validates raw JSON content against the named schema.
func ValidateJSONString(name, jsonContent string) error {
	return validate(name, gojsonschema.NewStringLoader(jsonContent))
}

func validate(name string, documentLoader gojsonschema.JSONLoader) error {
	all, err := load()
	if err != nil {
		return err
	}
	schema, ok := all[name]
	if !ok {
		return &SchemaLoadError{Name: name, Message: "unknown schema"}
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Schema: name,
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
