package options

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-pagelist/internal/validation"
)

func TestSettings_LayersDefaultsStoredAndForced(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Update(ctx, "pagelist", map[string]any{"depth": 2, "title": "Stored"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	settings := NewSettings(store, WithForced(map[string]map[string]any{
		"pagelist": {"disable-admin-page": true},
	}))
	if err := settings.SetDefaults(ctx, "pagelist", map[string]any{"depth": 0, "number": 5}); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}

	if got := settings.Get("pagelist", "depth", nil); got != float64(2) {
		t.Fatalf("expected stored depth 2, got %#v", got)
	}
	if got := settings.Get("pagelist", "number", nil); got != 5 {
		t.Fatalf("expected default number 5, got %#v", got)
	}
	if got := settings.Get("pagelist", "missing", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %#v", got)
	}
	if !settings.IsForced("pagelist", "disable-admin-page") || settings.IsForced("pagelist", "depth") {
		t.Fatal("unexpected forced state")
	}

	all := settings.All("pagelist")
	if all["disable-admin-page"] != true || all["title"] != "Stored" {
		t.Fatalf("unexpected merged options %#v", all)
	}
}

func TestSettings_ForcedValueWinsOverUpdate(t *testing.T) {
	ctx := context.Background()
	settings := NewSettings(nil, WithForced(map[string]map[string]any{"m": {"a": "admin"}}))
	if err := settings.SetDefaults(ctx, "m", nil); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}
	if err := settings.Update(ctx, "m", "a", "user"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := settings.Get("m", "a", nil); got != "admin" {
		t.Fatalf("expected forced value, got %v", got)
	}
	stored, ok, err := settings.Store().Get(ctx, "m")
	if err != nil || !ok {
		t.Fatalf("expected stored blob, got %v %v", ok, err)
	}
	if stored.(map[string]any)["a"] != "user" {
		t.Fatalf("expected user value persisted, got %#v", stored)
	}
}

func TestSettings_UpdateUnknownModule(t *testing.T) {
	settings := NewSettings(nil)
	err := settings.Update(context.Background(), "ghost", "a", 1)
	if !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestSettings_ReplaceAndSave(t *testing.T) {
	ctx := context.Background()
	settings := NewSettings(nil)
	if err := settings.SetDefaults(ctx, "m", map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}
	if err := settings.Replace(ctx, "m", map[string]any{"c": 3}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if settings.Get("m", "a", nil) != nil || settings.Get("m", "c", nil) != 3 {
		t.Fatalf("expected replaced blob, got %#v", settings.All("m"))
	}
	if err := settings.Save(ctx, "m"); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestSettings_SchemaRejectsInvalidWrites(t *testing.T) {
	ctx := context.Background()
	settings := NewSettings(nil)
	if err := settings.SetSchema("m", map[string]any{
		"fields": []any{map[string]any{"name": "number", "type": "integer"}},
	}); err != nil {
		t.Fatalf("SetSchema: %v", err)
	}
	if err := settings.SetDefaults(ctx, "m", map[string]any{"number": 5}); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}

	err := settings.Update(ctx, "m", "number", "five")
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	if settings.Get("m", "number", nil) != 5 {
		t.Fatal("expected rejected write to leave settings untouched")
	}
}

func TestLoadForcedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forced.yaml")
	content := "pagelist:\n  disable-module-styles: true\n  number: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	forced, err := LoadForcedFile(path)
	if err != nil {
		t.Fatalf("LoadForcedFile: %v", err)
	}
	if forced["pagelist"]["number"] != 3 || forced["pagelist"]["disable-module-styles"] != true {
		t.Fatalf("unexpected forced values %#v", forced)
	}

	if _, err := LoadForcedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMemoryStore_AddIsAddOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	added, err := store.Add(ctx, "pagelist_version", "1.0")
	if err != nil || !added {
		t.Fatalf("expected first add to succeed, got %v %v", added, err)
	}
	added, err = store.Add(ctx, "pagelist_version", "2.0")
	if err != nil || added {
		t.Fatalf("expected second add to be ignored, got %v %v", added, err)
	}
	value, ok, _ := store.Get(ctx, "pagelist_version")
	if !ok || value != "1.0" {
		t.Fatalf("expected original value, got %v", value)
	}
	if _, _, err := store.Get(ctx, " "); !errors.Is(err, ErrOptionNameRequired) {
		t.Fatalf("expected ErrOptionNameRequired, got %v", err)
	}
}
