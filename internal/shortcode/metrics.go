package shortcode

import (
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// NoOpMetrics returns a recorder that drops every observation.
func NoOpMetrics() interfaces.ShortcodeMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRenderDuration(string, time.Duration) {}
func (noopMetrics) IncrementRenderError(string)                 {}
func (noopMetrics) IncrementCacheHit(string)                    {}

// RenderStat is the running total for one shortcode.
type RenderStat struct {
	Renders   int
	Errors    int
	CacheHits int
	Elapsed   time.Duration
}

// RenderStats keeps per shortcode totals in memory. It is safe for
// concurrent use and serves both the service and renderer metrics hooks.
type RenderStats struct {
	mu    sync.Mutex
	stats map[string]RenderStat
}

func NewRenderStats() *RenderStats {
	return &RenderStats{stats: make(map[string]RenderStat)}
}

func (r *RenderStats) update(shortcode string, fn func(*RenderStat)) {
	key := strings.ToLower(shortcode)
	r.mu.Lock()
	defer r.mu.Unlock()
	stat := r.stats[key]
	fn(&stat)
	r.stats[key] = stat
}

func (r *RenderStats) ObserveRenderDuration(shortcode string, d time.Duration) {
	r.update(shortcode, func(s *RenderStat) {
		s.Renders++
		s.Elapsed += d
	})
}

func (r *RenderStats) IncrementRenderError(shortcode string) {
	r.update(shortcode, func(s *RenderStat) { s.Errors++ })
}

func (r *RenderStats) IncrementCacheHit(shortcode string) {
	r.update(shortcode, func(s *RenderStat) { s.CacheHits++ })
}

// Stat returns the totals recorded for shortcode.
func (r *RenderStats) Stat(shortcode string) RenderStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats[strings.ToLower(shortcode)]
}

var _ interfaces.ShortcodeMetrics = (*RenderStats)(nil)
