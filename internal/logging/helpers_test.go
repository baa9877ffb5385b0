package logging

import (
	"context"
	"testing"
)

func TestForOperationScopesContextAndTagsFields(t *testing.T) {
	rec := &recordingLogger{}
	ctx := ContextWithFields(context.Background(), map[string]any{"current": "docs"})
	fields := map[string]any{"page": "docs"}

	_ = ForOperation(ctx, rec, "pagelist.child_pages", fields)

	if len(rec.contexts) != 1 || rec.contexts[0] != ctx {
		t.Fatalf("expected logger scoped to ctx, got %v", rec.contexts)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got["operation"] != "pagelist.child_pages" || got["page"] != "docs" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := fields["operation"]; ok {
		t.Fatalf("caller fields mutated: %v", fields)
	}

	if _, ok := ForOperation(ctx, nil, "noop", nil).(noopLogger); !ok {
		t.Fatalf("expected noop logger for nil input")
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "r1", "current": "docs"})
	ctx = ContextWithFields(ctx, map[string]any{"current": "about"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "r1" || fields["current"] != "about" {
		t.Fatalf("unexpected merged fields %v", fields)
	}
	fields["request_id"] = "changed"
	if ContextFields(ctx)["request_id"] != "r1" {
		t.Fatalf("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatalf("expected nil fields for bare context")
	}
}
