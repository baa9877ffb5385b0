package validation

import (
	"errors"
	"testing"
)

func TestValidatePayload_FieldsShorthand(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "disable-module-styles", "type": "boolean"},
			map[string]any{"name": "default-number", "type": "integer", "required": true},
		},
	}

	if err := ValidatePayload(schema, map[string]any{"default-number": 5}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err := ValidatePayload(schema, map[string]any{"disable-module-styles": "yes"})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if len(Issues(err)) == 0 {
		t.Fatal("expected issues to be reported")
	}
}

func TestCompile_EmptySchemaAcceptsEverything(t *testing.T) {
	compiled, err := Compile(nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := compiled.Validate(map[string]any{"any": 1}); err != nil {
		t.Fatalf("expected nil schema to accept payload, got %v", err)
	}
}

func TestCompile_RejectsBrokenSchema(t *testing.T) {
	_, err := Compile(map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestPayloadValidationErrorMessage(t *testing.T) {
	err := &PayloadValidationError{Issues: []ValidationIssue{{Location: "/a", Message: "bad"}, {Location: ""}}}
	if got := err.Error(); got != "#/a: bad; #" {
		t.Fatalf("unexpected message %q", got)
	}
}
