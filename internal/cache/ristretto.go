package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

var (
	ErrMiss     = errors.New("cache: miss")
	ErrRejected = errors.New("cache: value rejected")
	ErrClosed   = errors.New("cache: closed")
)

// Config sizes the ristretto cache.
type Config struct {
	NumCounters int64
	MaxCost     int64
	DefaultTTL  time.Duration
}

// Provider is a ristretto-backed interfaces.CacheProvider. Each entry costs one.
type Provider struct {
	cache      *ristretto.Cache
	defaultTTL time.Duration
}

var _ interfaces.CacheProvider = (*Provider)(nil)

// New builds a Provider. Zero sizes fall back to small defaults.
func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 10_000
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1_000
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Provider{cache: c, defaultTTL: cfg.DefaultTTL}, nil
}

func (p *Provider) Get(_ context.Context, key string) (any, error) {
	if p == nil || p.cache == nil {
		return nil, ErrClosed
	}
	value, ok := p.cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMiss, key)
	}
	return value, nil
}

// Set stores value. A zero ttl uses the provider default; a negative ttl never expires.
func (p *Provider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if p == nil || p.cache == nil {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = p.defaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}
	if !p.cache.SetWithTTL(key, value, 1, ttl) {
		return ErrRejected
	}
	p.cache.Wait()
	return nil
}

func (p *Provider) Delete(_ context.Context, key string) error {
	if p == nil || p.cache == nil {
		return ErrClosed
	}
	p.cache.Del(key)
	return nil
}

func (p *Provider) Clear(_ context.Context) error {
	if p == nil || p.cache == nil {
		return ErrClosed
	}
	p.cache.Clear()
	return nil
}

// Close releases the cache goroutines.
func (p *Provider) Close() {
	if p != nil && p.cache != nil {
		p.cache.Close()
		p.cache = nil
	}
}
