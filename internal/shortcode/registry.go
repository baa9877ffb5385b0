package shortcode

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// Registry holds shortcode definitions keyed by lower case name. It is safe
// for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ShortcodeDefinition
	validator   DefinitionValidator
}

// DefinitionValidator checks a definition before it is stored.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ShortcodeDefinition) error
}

func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.ShortcodeDefinition),
		validator:   validator,
	}
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) check(def interfaces.ShortcodeDefinition) (string, error) {
	key := registryKey(def.Name)
	if key == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return "", err
		}
	}
	return key, nil
}

// Register stores def. A name already taken fails with ErrDuplicateDefinition.
func (r *Registry) Register(def interfaces.ShortcodeDefinition) error {
	key, err := r.check(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, key)
	}
	r.definitions[key] = def
	return nil
}

// Replace stores def, overwriting any definition with the same name. Plugins
// call it on reload so changed option defaults reach the schema.
func (r *Registry) Replace(def interfaces.ShortcodeDefinition) error {
	key, err := r.check(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[key] = def
	return nil
}

func (r *Registry) Get(name string) (interfaces.ShortcodeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[registryKey(name)]
	return def, ok
}

// List returns the definitions ordered by name.
func (r *Registry) List() []interfaces.ShortcodeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Collect(maps.Values(r.definitions))
	slices.SortFunc(out, func(a, b interfaces.ShortcodeDefinition) int {
		return cmp.Compare(registryKey(a.Name), registryKey(b.Name))
	})
	return out
}

// Names returns the registered keys in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.definitions))
}

func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, registryKey(name))
}

var _ interfaces.ShortcodeRegistry = (*Registry)(nil)
