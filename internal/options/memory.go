package options

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// MemoryStore keeps options in process. Values are stored as JSON so callers
// never share mutable state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ interfaces.OptionStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (any, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrOptionNameRequired
	}
	s.mu.RLock()
	raw, ok := s.values[name]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	value, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *MemoryStore) Add(_ context.Context, name string, value any) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrOptionNameRequired
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[name]; exists {
		return false, nil
	}
	s.values[name] = raw
	return true, nil
}

func (s *MemoryStore) Update(_ context.Context, name string, value any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrOptionNameRequired
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[name] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.values, strings.TrimSpace(name))
	s.mu.Unlock()
	return nil
}

func decode(raw []byte) (any, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, ErrInvalidValue
	}
	return value, nil
}
