package interfaces

import "context"

// ActionFunc runs when an action fires.
type ActionFunc func(ctx context.Context, args ...any) error

// FilterFunc transforms value and returns the replacement.
type FilterFunc func(ctx context.Context, value any, args ...any) (any, error)

// HookOptions configures a registered callback.
type HookOptions struct {
	Key      string
	Priority int
}

// HookOption mutates HookOptions.
type HookOption func(*HookOptions)

// HookDispatcher maps named extension points to ordered callbacks.
type HookDispatcher interface {
	AddAction(name string, fn ActionFunc, opts ...HookOption)
	DoAction(ctx context.Context, name string, args ...any) error
	HasAction(name string, key ...string) bool
	AddFilter(name string, fn FilterFunc, opts ...HookOption)
	ApplyFilters(ctx context.Context, name string, value any, args ...any) (any, error)
	HasFilter(name string, key ...string) bool
}
