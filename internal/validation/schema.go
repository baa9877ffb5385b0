package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Schema is a compiled option schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile normalises and compiles schema. A nil Schema is returned for an
// empty definition and validates every payload.
func Compile(schema map[string]any) (*Schema, error) {
	normalized := NormalizeSchema(schema)
	if normalized == nil {
		return nil, nil
	}
	compiled, err := compileSchema(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks payload against the compiled schema.
func (s *Schema) Validate(payload map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	doc, err := toJSONDocument(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// ValidatePayload compiles schema and validates payload in one step.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	compiled, err := Compile(schema)
	if err != nil {
		return err
	}
	return compiled.Validate(payload)
}

// toJSONDocument re-encodes payload so Go-native numeric types reach the
// validator as JSON numbers.
func toJSONDocument(payload map[string]any) (any, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NormalizeSchema accepts either a JSON schema or the short
// {"fields": [{"name", "type", "required"}]} form and returns a JSON schema.
func NormalizeSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	if isJSONSchema(schema) {
		return schema
	}
	fields, ok := schema["fields"]
	if !ok {
		return nil
	}
	properties, required := normalizeFields(fields)
	if len(properties) == 0 {
		return nil
	}
	normalized := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if allowed, ok := schema["additionalProperties"].(bool); ok {
		normalized["additionalProperties"] = allowed
	}
	if len(required) > 0 {
		normalized["required"] = required
	}
	return normalized
}

func isJSONSchema(schema map[string]any) bool {
	for _, key := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf"} {
		if _, ok := schema[key]; ok {
			return true
		}
	}
	return false
}

func normalizeFields(fields any) (map[string]any, []string) {
	properties := make(map[string]any)
	var required []string

	add := func(field map[string]any) {
		name, _ := field["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		prop := map[string]any{}
		if nested, ok := field["schema"].(map[string]any); ok {
			prop = nested
		} else if fieldType, ok := field["type"].(string); ok {
			if jsonType := normalizeJSONType(fieldType); jsonType != "" {
				prop["type"] = jsonType
			}
		}
		properties[name] = prop
		if flag, ok := field["required"].(bool); ok && flag {
			required = append(required, name)
		}
	}

	switch typed := fields.(type) {
	case []any:
		for _, entry := range typed {
			switch v := entry.(type) {
			case map[string]any:
				add(v)
			case string:
				add(map[string]any{"name": v})
			}
		}
	case []map[string]any:
		for _, field := range typed {
			add(field)
		}
	}
	return properties, required
}

func normalizeJSONType(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "string", "number", "integer", "boolean", "object", "array", "null":
		return v
	default:
		return ""
	}
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("options.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("options.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
