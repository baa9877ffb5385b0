// Package pipeline renders post content the way a host theme would: Markdown
// first, then every the_content filter, with shortcodes expanded after the
// deprecated bracket tags.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

const (
	// ContentFilter is the filter applied to every rendered body.
	ContentFilter = "the_content"
	// ShortcodePriority runs shortcodes after filters at the default priority.
	ShortcodePriority = hooks.DefaultPriority + 1
	shortcodeKey      = "pipeline.shortcodes"
)

var ErrHooksRequired = errors.New("pipeline: hook dispatcher is required")

// RenderOptions describe one render. Current is the content the body belongs
// to and is passed to every the_content filter.
type RenderOptions struct {
	Current  interfaces.ContentRef
	Locale   string
	Markdown bool
	// Parse overrides the parser defaults when any field is set.
	Parse interfaces.ParseOptions
}

// Pipeline chains Markdown conversion and the_content filters.
type Pipeline struct {
	hooks      interfaces.HookDispatcher
	markdown   interfaces.MarkdownParser
	shortcodes interfaces.ShortcodeService
	wordpress  bool
	logger     interfaces.Logger
}

type Option func(*Pipeline)

func WithMarkdown(parser interfaces.MarkdownParser) Option {
	return func(p *Pipeline) { p.markdown = parser }
}

// WithShortcodes expands shortcodes as a the_content filter. wordpress enables
// the bracket syntax for registered shortcodes.
func WithShortcodes(svc interfaces.ShortcodeService, wordpress bool) Option {
	return func(p *Pipeline) {
		p.shortcodes = svc
		p.wordpress = wordpress
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a pipeline on d and registers the shortcode filter.
func New(d interfaces.HookDispatcher, opts ...Option) (*Pipeline, error) {
	if d == nil {
		return nil, ErrHooksRequired
	}
	p := &Pipeline{hooks: d, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.shortcodes != nil && !d.HasFilter(ContentFilter, shortcodeKey) {
		d.AddFilter(ContentFilter, p.expandShortcodes, hooks.WithKey(shortcodeKey), hooks.WithPriority(ShortcodePriority))
	}
	return p, nil
}

// Render converts body and runs it through the_content.
func (p *Pipeline) Render(ctx context.Context, body string, opts RenderOptions) (string, error) {
	if label := currentLabel(opts.Current); label != "" {
		ctx = logging.ContextWithFields(ctx, map[string]any{"current": label})
	}
	logger := logging.ForOperation(ctx, p.logger, "pipeline.render", nil)

	if opts.Markdown && p.markdown != nil {
		var html []byte
		var err error
		if isZeroParse(opts.Parse) {
			html, err = p.markdown.Parse([]byte(body))
		} else {
			html, err = p.markdown.ParseWithOptions([]byte(body), opts.Parse)
		}
		if err != nil {
			logger.Error("pipeline.markdown_failed", "error", err)
			return "", fmt.Errorf("pipeline: markdown: %w", err)
		}
		body = string(html)
	}

	out, err := p.hooks.ApplyFilters(ctx, ContentFilter, body, opts.Current, opts)
	if err != nil {
		logger.Error("pipeline.filters_failed", "error", err)
		return "", err
	}
	rendered, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("pipeline: %s returned %T", ContentFilter, out)
	}
	logger.Debug("pipeline.rendered", "bytes", len(rendered))
	return rendered, nil
}

func (p *Pipeline) expandShortcodes(ctx context.Context, value any, args ...any) (any, error) {
	body, ok := value.(string)
	if !ok || !strings.ContainsAny(body, "[{") {
		return value, nil
	}
	opts := renderOptions(args)
	return p.shortcodes.Process(ctx, body, interfaces.ShortcodeProcessOptions{
		Locale:          opts.Locale,
		Current:         opts.Current,
		EnableWordPress: p.wordpress,
	})
}

func renderOptions(args []any) RenderOptions {
	for _, arg := range args {
		if opts, ok := arg.(RenderOptions); ok {
			return opts
		}
	}
	for _, arg := range args {
		if ref, ok := arg.(interfaces.ContentRef); ok {
			return RenderOptions{Current: ref}
		}
	}
	return RenderOptions{}
}

func currentLabel(ref interfaces.ContentRef) string {
	if ref.Slug != "" {
		return ref.Slug
	}
	if ref.IsZero() {
		return ""
	}
	return ref.ID.String()
}

func isZeroParse(opts interfaces.ParseOptions) bool {
	return len(opts.Extensions) == 0 && !opts.Sanitize && !opts.HardWraps && !opts.SafeMode
}
