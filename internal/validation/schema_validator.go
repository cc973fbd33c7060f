package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Schema names
const (
	SchemaProfile = "profile.schema.json"
)

const schemaBaseURL = "https://schemas.brandish-reveal.local/"

// SchemaValidator validates documents against the embedded JSON schemas
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaName string) error
	ValidateYAML(data []byte, schemaName string) error
}

type validator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes validates JSON data bytes against a schema
func (v *validator) ValidateBytes(data []byte, schemaName string) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return v.validate(doc, schemaName)
}

// ValidateYAML validates a YAML document against a schema. The document is
// normalised through JSON so numbers and keys have JSON types.
func (v *validator) ValidateYAML(data []byte, schemaName string) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML data: %w", err)
	}
	if raw == nil {
		// empty documents are valid layers
		return nil
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert YAML data: %w", err)
	}
	return v.ValidateBytes(asJSON, schemaName)
}

func (v *validator) validate(doc interface{}, schemaName string) error {
	schema, err := v.loadSchema(schemaName)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
	}
	if err := schema.Validate(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// loadSchema loads and compiles an embedded schema, caching the result
func (v *validator) loadSchema(schemaName string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[schemaName]; ok {
		return schema, nil
	}

	schemaData, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaJSON interface{}
	if err := json.Unmarshal(schemaData, &schemaJSON); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	url := schemaBaseURL + schemaName
	if err := v.compiler.AddResource(url, schemaJSON); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := v.compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[schemaName] = schema
	return schema, nil
}

// formatValidationError formats validation errors to be user-friendly
func formatValidationError(err error) error {
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		var errors []string
		collectErrors(validationErr, &errors)
		return fmt.Errorf("schema validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return fmt.Errorf("validation error: %w", err)
}

// collectErrors recursively collects all validation errors
func collectErrors(err *jsonschema.ValidationError, errors *[]string) {
	if msg := formatError(err); msg != "" && len(err.Causes) == 0 {
		*errors = append(*errors, msg)
	}
	for _, cause := range err.Causes {
		collectErrors(cause, errors)
	}
}

// formatError formats a single validation error
func formatError(err *jsonschema.ValidationError) string {
	location := strings.Join(err.InstanceLocation, "/")
	if location == "" {
		location = "(root)"
	} else {
		location = "/" + location
	}

	keywords := ""
	if err.ErrorKind != nil {
		if keywordPath := err.ErrorKind.KeywordPath(); len(keywordPath) > 0 {
			keywords = strings.Join(keywordPath, ".")
		}
	}

	if keywords != "" {
		return fmt.Sprintf("  - at %s: %s validation failed", location, keywords)
	}
	return fmt.Sprintf("  - at %s: validation failed", location)
}
