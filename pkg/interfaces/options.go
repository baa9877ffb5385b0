package interfaces

import "context"

// OptionStore persists named option values. Values must be JSON encodable.
type OptionStore interface {
	Get(ctx context.Context, name string) (any, bool, error)
	// Add stores value only when name is not present yet.
	Add(ctx context.Context, name string, value any) (bool, error)
	Update(ctx context.Context, name string, value any) error
	Delete(ctx context.Context, name string) error
}
