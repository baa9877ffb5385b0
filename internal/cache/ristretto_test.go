package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-pagelist/internal/cache"
)

func TestProviderRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider, err := cache.New(cache.Config{})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(provider.Close)

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	if err := provider.Set(ctx, "list", "<ul></ul>", -1); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := provider.Get(ctx, "list")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "<ul></ul>" {
		t.Fatalf("unexpected value %v", value)
	}

	if err := provider.Delete(ctx, "list"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := provider.Get(ctx, "list"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestProviderClosed(t *testing.T) {
	provider, err := cache.New(cache.Config{})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	provider.Close()
	if err := provider.Set(context.Background(), "k", "v", 0); !errors.Is(err, cache.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
