package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

type noopValidator struct{}

func (noopValidator) ValidateDefinition(def interfaces.ShortcodeDefinition) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	def := interfaces.ShortcodeDefinition{
		Name: "demo",
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{Name: "id", Type: interfaces.ShortcodeParamString, Required: true},
			},
		},
	}

	if err := registry.Register(def); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	got, ok := registry.Get("demo")
	if !ok {
		t.Fatalf("Get() expected definition")
	}
	if got.Name != def.Name {
		t.Fatalf("Get() wrong definition, got %s", got.Name)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	def := interfaces.ShortcodeDefinition{Name: "demo"}
	if err := registry.Register(def); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if err := registry.Register(def); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("Register() expected ErrDuplicateDefinition, got %v", err)
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	registry := NewRegistry(noopValidator{})
	defs := []string{"beta", "alpha", "gamma"}
	for _, name := range defs {
		if err := registry.Register(interfaces.ShortcodeDefinition{Name: name}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := registry.List()
	if len(got) != len(defs) {
		t.Fatalf("List() expected %d definitions, got %d", len(defs), len(got))
	}

	expectOrder := []string{"alpha", "beta", "gamma"}
	for i, want := range expectOrder {
		if got[i].Name != want {
			t.Fatalf("List() order mismatch at %d: got %s, want %s", i, got[i].Name, want)
		}
	}
}

func TestRegistry_ReplaceRefreshesDefaults(t *testing.T) {
	registry := NewRegistry(NewValidator())
	withDefault := func(n int) interfaces.ShortcodeDefinition {
		return interfaces.ShortcodeDefinition{
			Name: "IPageList",
			Schema: interfaces.ShortcodeSchema{
				Params: []interfaces.ShortcodeParam{{Name: "num", Type: interfaces.ShortcodeParamInt, Default: n}},
			},
		}
	}

	if err := registry.Register(withDefault(5)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Replace(withDefault(2)); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, ok := registry.Get(" ipagelist ")
	if !ok {
		t.Fatalf("expected case insensitive lookup")
	}
	if got.Schema.Params[0].Default != 2 {
		t.Fatalf("expected replaced default 2, got %v", got.Schema.Params[0].Default)
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "ipagelist" {
		t.Fatalf("unexpected names %v", names)
	}

	if err := registry.Replace(interfaces.ShortcodeDefinition{Name: "  "}); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}

	registry.Remove("IPAGELIST")
	if _, ok := registry.Get("ipagelist"); ok {
		t.Fatalf("expected definition removed")
	}
}
