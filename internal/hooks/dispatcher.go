package hooks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// DefaultPriority is applied when a callback does not set one.
const DefaultPriority = 10

var (
	// ErrEmptyHookName is reported through DoAction/ApplyFilters for blank names.
	ErrEmptyHookName = errors.New("hooks: hook name is required")
)

type callback struct {
	key      string
	priority int
	seq      int
	action   interfaces.ActionFunc
	filter   interfaces.FilterFunc
}

// Dispatcher is the in-process implementation of interfaces.HookDispatcher.
// Callbacks run in ascending priority; equal priorities run in registration order.
type Dispatcher struct {
	mu      sync.RWMutex
	actions map[string][]callback
	filters map[string][]callback
	fired   map[string]int
	seq     int
}

var _ interfaces.HookDispatcher = (*Dispatcher)(nil)

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		actions: make(map[string][]callback),
		filters: make(map[string][]callback),
		fired:   make(map[string]int),
	}
}

// WithKey names a callback so it can be detected or removed later.
func WithKey(key string) interfaces.HookOption {
	return func(o *interfaces.HookOptions) {
		o.Key = strings.TrimSpace(key)
	}
}

// WithPriority sets the callback priority.
func WithPriority(priority int) interfaces.HookOption {
	return func(o *interfaces.HookOptions) {
		o.Priority = priority
	}
}

func resolve(opts []interfaces.HookOption) interfaces.HookOptions {
	out := interfaces.HookOptions{Priority: DefaultPriority}
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// AddAction registers fn for the named action.
func (d *Dispatcher) AddAction(name string, fn interfaces.ActionFunc, opts ...interfaces.HookOption) {
	if fn == nil {
		return
	}
	o := resolve(opts)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.actions[name] = insert(d.actions[name], callback{key: o.Key, priority: o.Priority, seq: d.seq, action: fn})
}

// AddFilter registers fn for the named filter.
func (d *Dispatcher) AddFilter(name string, fn interfaces.FilterFunc, opts ...interfaces.HookOption) {
	if fn == nil {
		return
	}
	o := resolve(opts)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.filters[name] = insert(d.filters[name], callback{key: o.Key, priority: o.Priority, seq: d.seq, filter: fn})
}

func insert(list []callback, cb callback) []callback {
	idx, _ := slices.BinarySearchFunc(list, cb, func(a, b callback) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		return a.seq - b.seq
	})
	return slices.Insert(list, idx, cb)
}

// DoAction runs every callback registered for name. All callbacks run even
// when one fails; the joined error is returned.
func (d *Dispatcher) DoAction(ctx context.Context, name string, args ...any) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyHookName
	}
	d.mu.Lock()
	d.fired[name]++
	list := slices.Clone(d.actions[name])
	d.mu.Unlock()

	var errs []error
	for _, cb := range list {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := cb.action(ctx, args...); err != nil {
			errs = append(errs, fmt.Errorf("hooks: action %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ApplyFilters passes value through every filter registered for name. The
// first failing filter stops the chain and its input value is returned.
func (d *Dispatcher) ApplyFilters(ctx context.Context, name string, value any, args ...any) (any, error) {
	if strings.TrimSpace(name) == "" {
		return value, ErrEmptyHookName
	}
	d.mu.RLock()
	list := slices.Clone(d.filters[name])
	d.mu.RUnlock()

	for _, cb := range list {
		next, err := cb.filter(ctx, value, args...)
		if err != nil {
			return value, fmt.Errorf("hooks: filter %s: %w", name, err)
		}
		value = next
	}
	return value, nil
}

// HasAction reports whether name has callbacks. With a key it reports
// whether that specific callback is registered.
func (d *Dispatcher) HasAction(name string, key ...string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return has(d.actions[name], key)
}

// HasFilter mirrors HasAction for filters.
func (d *Dispatcher) HasFilter(name string, key ...string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return has(d.filters[name], key)
}

func has(list []callback, key []string) bool {
	if len(key) == 0 {
		return len(list) > 0
	}
	want := strings.TrimSpace(key[0])
	return slices.ContainsFunc(list, func(cb callback) bool { return cb.key == want })
}

// DidAction returns how many times name has fired.
func (d *Dispatcher) DidAction(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fired[name]
}

// RemoveAction drops the keyed callback from name.
func (d *Dispatcher) RemoveAction(name, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions[name] = slices.DeleteFunc(d.actions[name], func(cb callback) bool { return cb.key == key })
}

// RemoveFilter drops the keyed callback from name.
func (d *Dispatcher) RemoveFilter(name, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filters[name] = slices.DeleteFunc(d.filters[name], func(cb callback) bool { return cb.key == key })
}

// RemoveAll clears every action and filter registered under name.
func (d *Dispatcher) RemoveAll(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.actions, name)
	delete(d.filters, name)
}
