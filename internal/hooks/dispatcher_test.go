package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDispatcher_ActionsRunInPriorityOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string
	record := func(label string) func(context.Context, ...any) error {
		return func(context.Context, ...any) error {
			order = append(order, label)
			return nil
		}
	}

	d.AddAction("init", record("late"), WithPriority(20))
	d.AddAction("init", record("first"))
	d.AddAction("init", record("early"), WithPriority(1))
	d.AddAction("init", record("second"))

	if err := d.DoAction(context.Background(), "init"); err != nil {
		t.Fatalf("DoAction: %v", err)
	}
	want := "early,first,second,late"
	if got := strings.Join(order, ","); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if d.DidAction("init") != 1 {
		t.Fatalf("expected init to be counted once, got %d", d.DidAction("init"))
	}
}

func TestDispatcher_ActionErrorsAreJoined(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	ran := 0
	d.AddAction("save", func(context.Context, ...any) error { ran++; return boom })
	d.AddAction("save", func(context.Context, ...any) error { ran++; return nil })

	err := d.DoAction(context.Background(), "save")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran != 2 {
		t.Fatalf("expected every callback to run, ran %d", ran)
	}
}

func TestDispatcher_FiltersChainValues(t *testing.T) {
	d := NewDispatcher()
	d.AddFilter("title", func(_ context.Context, v any, _ ...any) (any, error) {
		return v.(string) + "!", nil
	})
	d.AddFilter("title", func(_ context.Context, v any, args ...any) (any, error) {
		return strings.ToUpper(v.(string)) + args[0].(string), nil
	})

	out, err := d.ApplyFilters(context.Background(), "title", "hi", "?")
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if out != "HI!?" {
		t.Fatalf("unexpected value %v", out)
	}
}

func TestDispatcher_FilterErrorKeepsInput(t *testing.T) {
	d := NewDispatcher()
	d.AddFilter("n", func(_ context.Context, v any, _ ...any) (any, error) { return 2, nil })
	d.AddFilter("n", func(_ context.Context, v any, _ ...any) (any, error) { return nil, errors.New("nope") })

	out, err := d.ApplyFilters(context.Background(), "n", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if out != 2 {
		t.Fatalf("expected last good value 2, got %v", out)
	}
}

func TestDispatcher_HasAndRemoveByKey(t *testing.T) {
	d := NewDispatcher()
	noop := func(context.Context, ...any) error { return nil }
	d.AddAction("admin_notices", noop, WithKey("compat"))

	if !d.HasAction("admin_notices") || !d.HasAction("admin_notices", "compat") {
		t.Fatal("expected keyed action to be present")
	}
	if d.HasAction("admin_notices", "other") {
		t.Fatal("unexpected match for unknown key")
	}

	d.RemoveAction("admin_notices", "compat")
	if d.HasAction("admin_notices") {
		t.Fatal("expected action to be removed")
	}

	d.AddFilter("f", func(_ context.Context, v any, _ ...any) (any, error) { return v, nil })
	d.RemoveAll("f")
	if d.HasFilter("f") {
		t.Fatal("expected filters to be cleared")
	}
}

func TestDispatcher_EmptyName(t *testing.T) {
	d := NewDispatcher()
	if err := d.DoAction(context.Background(), " "); !errors.Is(err, ErrEmptyHookName) {
		t.Fatalf("expected ErrEmptyHookName, got %v", err)
	}
}

func TestFilterHelpers(t *testing.T) {
	d := NewDispatcher()
	d.AddFilter("order", func(_ context.Context, _ any, _ ...any) (any, error) { return "DESC", nil })
	d.AddFilter("bad", func(_ context.Context, _ any, _ ...any) (any, error) { return 42, nil })
	d.AddFilter("disable", func(_ context.Context, v any, _ ...any) (any, error) { return "1", nil })

	ctx := context.Background()
	if got := FilterString(ctx, d, "order", "ASC"); got != "DESC" {
		t.Fatalf("expected DESC, got %s", got)
	}
	if got := FilterString(ctx, d, "bad", "ASC"); got != "ASC" {
		t.Fatalf("expected fallback, got %s", got)
	}
	if !FilterBool(ctx, d, "disable", false) {
		t.Fatal("expected truthy filter result")
	}
	if FilterString(ctx, nil, "order", "x") != "x" {
		t.Fatal("expected nil dispatcher to return default")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"", false},
		{"0", false},
		{"false", false},
		{"yes", true},
		{1, true},
		{0, false},
		{0.0, false},
		{[]any{}, false},
		{map[string]any{"a": 1}, true},
		{uint8(3), true},
	}
	for _, tc := range cases {
		if got := Truthy(tc.in); got != tc.want {
			t.Fatalf("Truthy(%#v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
