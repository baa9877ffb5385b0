package module

import (
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/internal/runtimeconfig"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// StaticHost serves host details from configuration.
type StaticHost struct {
	cfg runtimeconfig.HostConfig
}

var _ interfaces.Host = (*StaticHost)(nil)

// NewStaticHost wraps cfg. Trailing slashes are stripped from paths and URLs.
func NewStaticHost(cfg runtimeconfig.HostConfig) *StaticHost {
	trim := func(v string) string { return strings.TrimRight(strings.TrimSpace(v), "/") }
	cfg.PluginsDir = trim(cfg.PluginsDir)
	cfg.PluginsURL = trim(cfg.PluginsURL)
	cfg.TemplateDir = trim(cfg.TemplateDir)
	cfg.TemplateURL = trim(cfg.TemplateURL)
	cfg.StylesheetDir = trim(cfg.StylesheetDir)
	cfg.StylesheetURL = trim(cfg.StylesheetURL)
	cfg.FrameworkStylesURL = trim(cfg.FrameworkStylesURL)
	if cfg.StylesheetDir == "" {
		cfg.StylesheetDir = cfg.TemplateDir
	}
	if cfg.StylesheetURL == "" {
		cfg.StylesheetURL = cfg.TemplateURL
	}
	return &StaticHost{cfg: cfg}
}

func (h *StaticHost) Version() string            { return h.cfg.Version }
func (h *StaticHost) IsAdmin() bool              { return h.cfg.Admin }
func (h *StaticHost) SupportsWidgets() bool      { return h.cfg.Widgets }
func (h *StaticHost) PluginsDir() string         { return h.cfg.PluginsDir }
func (h *StaticHost) PluginsURL() string         { return h.cfg.PluginsURL }
func (h *StaticHost) TemplateDir() string        { return h.cfg.TemplateDir }
func (h *StaticHost) TemplateURL() string        { return h.cfg.TemplateURL }
func (h *StaticHost) StylesheetDir() string      { return h.cfg.StylesheetDir }
func (h *StaticHost) StylesheetURL() string      { return h.cfg.StylesheetURL }
func (h *StaticHost) FrameworkStylesURL() string { return h.cfg.FrameworkStylesURL }

// Style is a registered stylesheet.
type Style struct {
	Handle  string
	URL     string
	Deps    []string
	Version string
}

// StyleQueue is an in-memory interfaces.StyleRegistry.
type StyleQueue struct {
	mu         sync.Mutex
	registered map[string]Style
	queue      []string
}

var _ interfaces.StyleRegistry = (*StyleQueue)(nil)

func NewStyleQueue() *StyleQueue {
	return &StyleQueue{registered: make(map[string]Style)}
}

func (q *StyleQueue) Register(handle, url string, deps []string, version string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.registered[handle] = Style{Handle: handle, URL: url, Deps: slices.Clone(deps), Version: version}
}

func (q *StyleQueue) Enqueue(handle string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.registered[handle]; !ok || slices.Contains(q.queue, handle) {
		return
	}
	q.queue = append(q.queue, handle)
}

// Queued returns enqueued styles in order.
func (q *StyleQueue) Queued() []Style {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Style, 0, len(q.queue))
	for _, handle := range q.queue {
		out = append(out, q.registered[handle])
	}
	return out
}
