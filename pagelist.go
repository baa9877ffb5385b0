// Package pagelist embeds the Inline Page List plugin: child page and post
// lists rendered inline through the ipagelist shortcode, the deprecated
// [pagelist], [catlist] and [taglist] tags, and template helpers.
package pagelist

import (
	"context"

	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/di"
	"github.com/goliatone/go-pagelist/internal/options"
	"github.com/goliatone/go-pagelist/internal/pagelist"
	"github.com/goliatone/go-pagelist/internal/pipeline"
	"github.com/goliatone/go-pagelist/internal/plugin"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// ContentRef names the page or post a body belongs to.
type ContentRef = interfaces.ContentRef

// RenderOptions describe one pass through the content pipeline.
type RenderOptions = pipeline.RenderOptions

// Attributes are the resolved ipagelist shortcode attributes.
type Attributes = pagelist.Attributes

// ChildPagesRequest describes a child page list.
type ChildPagesRequest = pagelist.ChildPagesRequest

// PostsRequest describes a category or tag post list.
type PostsRequest = pagelist.PostsRequest

// Helpers are the template helpers bound to the content being rendered.
type Helpers = pagelist.Helpers

// Fixture is a YAML content document used to seed the content store.
type Fixture = content.Fixture

// Option customises the container built by New.
type Option = di.Option

var (
	WithFixture           = di.WithFixture
	WithFixtureFile       = di.WithFixtureFile
	WithLoggerProvider    = di.WithLoggerProvider
	WithHost              = di.WithHost
	WithTranslator        = di.WithTranslator
	WithOptionStore       = di.WithOptionStore
	WithBunDB             = di.WithBunDB
	WithCache             = di.WithCache
	WithPermalinkResolver = di.WithPermalinkResolver
	WithMarkdownParser    = di.WithMarkdownParser
)

// Module is the runtime façade over the plugin and its host.
type Module struct {
	container *di.Container
}

// New builds the plugin host described by cfg. The plugin is loaded but the
// host lifecycle actions only run on Boot.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Boot fires plugins_loaded, init and widgets_init.
func (m *Module) Boot(ctx context.Context) error {
	return m.container.Boot(ctx)
}

// Close releases storage and caches.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Render runs body through Markdown (when requested) and the_content filters.
func (m *Module) Render(ctx context.Context, body string, opts RenderOptions) (string, error) {
	return m.container.Render(ctx, body, opts)
}

// ChildPages renders the child page list for req.
func (m *Module) ChildPages(ctx context.Context, req ChildPagesRequest) (string, error) {
	return m.container.PageList().ChildPages(ctx, req)
}

// Posts renders the category or tag post list for req.
func (m *Module) Posts(ctx context.Context, req PostsRequest) (string, error) {
	return m.container.PageList().Posts(ctx, req)
}

// Shortcode renders one ipagelist invocation for current.
func (m *Module) Shortcode(ctx context.Context, attrs Attributes, current ContentRef) (string, error) {
	return m.container.PageList().Shortcode(ctx, attrs, current)
}

// Helpers returns the template helpers for current.
func (m *Module) Helpers(current ContentRef) Helpers {
	return m.container.PageList().Helpers(current)
}

// Shortcodes returns the shortcode processor.
func (m *Module) Shortcodes() interfaces.ShortcodeService {
	return m.container.Shortcodes()
}

// Settings returns the layered option settings.
func (m *Module) Settings() *options.Settings {
	return m.container.Settings()
}

// Plugin returns the loaded Inline Page List plugin.
func (m *Module) Plugin() *plugin.Plugin {
	return m.container.Plugin()
}

// Hooks returns the action and filter dispatcher shared by every module.
func (m *Module) Hooks() interfaces.HookDispatcher {
	return m.container.Hooks()
}
