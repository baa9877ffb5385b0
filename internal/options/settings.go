package options

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagelist/internal/validation"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// Settings layers per-module option blobs: registered defaults, then the
// stored blob, then values forced by the administrator. Each module blob is
// persisted under its module key.
type Settings struct {
	store interfaces.OptionStore

	mu      sync.RWMutex
	modules map[string]map[string]any
	forced  map[string]map[string]any
	schemas map[string]*validation.Schema
}

// SettingsOption customises Settings construction.
type SettingsOption func(*Settings)

// WithForced installs administrator-forced values keyed by module then option.
func WithForced(forced map[string]map[string]any) SettingsOption {
	return func(s *Settings) {
		for module, values := range forced {
			s.forced[module] = maps.Clone(values)
		}
	}
}

// NewSettings constructs a settings layer over store.
func NewSettings(store interfaces.OptionStore, opts ...SettingsOption) *Settings {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Settings{
		store:   store,
		modules: make(map[string]map[string]any),
		forced:  make(map[string]map[string]any),
		schemas: make(map[string]*validation.Schema),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LoadForcedFile reads a YAML document of module -> option -> value pairs
// and adds them to the forced set.
func LoadForcedFile(path string) (map[string]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("options: read forced settings: %w", err)
	}
	var forced map[string]map[string]any
	if err := yaml.Unmarshal(raw, &forced); err != nil {
		return nil, fmt.Errorf("options: parse forced settings: %w", err)
	}
	return forced, nil
}

// Store exposes the underlying option store.
func (s *Settings) Store() interfaces.OptionStore {
	return s.store
}

// SetSchema attaches a JSON schema that every write for module must satisfy.
func (s *Settings) SetSchema(module string, schema map[string]any) error {
	compiled, err := validation.Compile(schema)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.schemas[module] = compiled
	s.mu.Unlock()
	return nil
}

// SetDefaults registers defaults for module and merges the stored blob on top.
func (s *Settings) SetDefaults(ctx context.Context, module string, defaults map[string]any) error {
	module = strings.TrimSpace(module)
	if module == "" {
		return ErrModuleRequired
	}
	merged := maps.Clone(defaults)
	if merged == nil {
		merged = map[string]any{}
	}
	stored, ok, err := s.store.Get(ctx, module)
	if err != nil {
		return err
	}
	if ok {
		if blob, isMap := stored.(map[string]any); isMap {
			maps.Copy(merged, blob)
		}
	}
	s.mu.Lock()
	s.modules[module] = merged
	s.mu.Unlock()
	return nil
}

// Get returns a single option, def when absent. Forced values win.
func (s *Settings) Get(module, name string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if forced, ok := s.forced[module][name]; ok {
		return forced
	}
	if value, ok := s.modules[module][name]; ok {
		return value
	}
	return def
}

// All returns every option of module with forced values applied.
func (s *Settings) All(module string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := maps.Clone(s.modules[module])
	if out == nil {
		out = map[string]any{}
	}
	maps.Copy(out, s.forced[module])
	return out
}

// IsForced reports whether the administrator pinned name for module.
func (s *Settings) IsForced(module, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.forced[module][name]
	return ok
}

// Update changes one option and persists the module blob.
func (s *Settings) Update(ctx context.Context, module, name string, value any) error {
	if strings.TrimSpace(name) == "" {
		return ErrOptionNameRequired
	}
	s.mu.Lock()
	current, ok := s.modules[module]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	next := maps.Clone(current)
	next[name] = value
	s.mu.Unlock()
	return s.commit(ctx, module, next)
}

// Replace swaps the whole module blob for values and persists it.
func (s *Settings) Replace(ctx context.Context, module string, values map[string]any) error {
	if strings.TrimSpace(module) == "" {
		return ErrModuleRequired
	}
	next := maps.Clone(values)
	if next == nil {
		next = map[string]any{}
	}
	return s.commit(ctx, module, next)
}

// Save persists the current module blob.
func (s *Settings) Save(ctx context.Context, module string) error {
	s.mu.RLock()
	current, ok := s.modules[module]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	return s.commit(ctx, module, maps.Clone(current))
}

func (s *Settings) commit(ctx context.Context, module string, values map[string]any) error {
	s.mu.RLock()
	schema := s.schemas[module]
	s.mu.RUnlock()
	if err := schema.Validate(values); err != nil {
		return err
	}
	if err := s.store.Update(ctx, module, values); err != nil {
		return err
	}
	s.mu.Lock()
	s.modules[module] = values
	s.mu.Unlock()
	return nil
}
