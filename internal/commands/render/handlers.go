package rendercmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagelist/internal/commands"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/internal/pipeline"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/google/uuid"
)

const renderOperation = "content.render"

// ErrMarkdownDisabled is returned when Markdown rendering is requested but the
// feature is off.
var ErrMarkdownDisabled = errors.New("render command: markdown feature disabled")

var _ command.Commander[RenderContentCommand] = (*RenderContentHandler)(nil)

// Renderer renders content bodies.
type Renderer interface {
	Render(ctx context.Context, body string, opts pipeline.RenderOptions) (string, error)
}

// FeatureGates exposes runtime toggles read on every execution.
type FeatureGates struct {
	MarkdownEnabled func() bool
}

func (g FeatureGates) markdownEnabled() bool {
	if g.MarkdownEnabled == nil {
		return true
	}
	return g.MarkdownEnabled()
}

// RenderContentHandler renders a body and hands the result to the command callback.
type RenderContentHandler struct {
	inner *commands.Handler[RenderContentCommand]
}

func NewRenderContentHandler(renderer Renderer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenderContentCommand]) *RenderContentHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg RenderContentCommand) error {
		if msg.Markdown && !gates.markdownEnabled() {
			return ErrMarkdownDisabled
		}
		out, err := renderer.Render(ctx, msg.Body, pipeline.RenderOptions{
			Current:  interfaces.ContentRef{ID: msg.ContentID, Slug: msg.Slug},
			Locale:   msg.Locale,
			Markdown: msg.Markdown,
		})
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{"bytes": len(out)}).Debug("content.command.render.completed")
		if msg.Result != nil {
			msg.Result(out)
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[RenderContentCommand]{
		commands.WithLogger[RenderContentCommand](logger),
		commands.WithOperation[RenderContentCommand](renderOperation),
		commands.WithMessageFields[RenderContentCommand](func(msg RenderContentCommand) map[string]any {
			fields := map[string]any{"markdown": msg.Markdown}
			if msg.ContentID != uuid.Nil {
				fields["content_id"] = msg.ContentID
			}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			if msg.Locale != "" {
				fields["locale"] = msg.Locale
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &RenderContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *RenderContentHandler) Execute(ctx context.Context, msg RenderContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegisterRenderCommands builds the render handler and registers it with reg when set.
func RegisterRenderCommands(reg commands.CommandRegistry, renderer Renderer, provider interfaces.LoggerProvider, gates FeatureGates) (*RenderContentHandler, error) {
	if renderer == nil {
		return nil, errors.New("render command registration: renderer is nil")
	}
	handler := NewRenderContentHandler(renderer, commands.CommandLogger(provider, "render"), gates)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
