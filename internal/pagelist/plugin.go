package pagelist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/module"
	"github.com/goliatone/go-pagelist/internal/plugin"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// Module option names.
const (
	OptionNumber     = "num"
	OptionDepth      = "depth"
	OptionLegacyTags = "legacy_tags"

	// ContentFilterHook is the filter the deprecated bracket tags run on.
	ContentFilterHook = "the_content"
)

// Extension binds the list service to a plugin module.
type Extension struct {
	svc      *Service
	registry interfaces.ShortcodeRegistry
}

// NewExtension builds the plugin extension. registry may be nil when the
// shortcode is registered elsewhere.
func NewExtension(svc *Service, registry interfaces.ShortcodeRegistry) (*Extension, error) {
	if svc == nil {
		return nil, fmt.Errorf("pagelist: service is required")
	}
	return &Extension{svc: svc, registry: registry}, nil
}

// NewPlugin builds the pagelist plugin for file.
func NewPlugin(ctx context.Context, file string, svc *Service, registry interfaces.ShortcodeRegistry, opts ...plugin.Option) (*plugin.Plugin, error) {
	ext, err := NewExtension(svc, registry)
	if err != nil {
		return nil, err
	}
	return plugin.New(ctx, file, ID, ext, opts...)
}

func (e *Extension) DefaultOptions() map[string]any {
	cfg := e.svc.cfg
	return map[string]any{
		OptionNumber:     cfg.DefaultNumber,
		OptionDepth:      cfg.DefaultDepth,
		OptionLegacyTags: cfg.LegacyTags,
	}
}

// ModuleLoad adopts the module's hooks, translator and stored options, then
// registers the shortcode and the legacy content filter.
func (e *Extension) ModuleLoad(ctx context.Context, m *module.Module) error {
	s := e.svc
	s.hooks = m.Hooks()
	if t := m.Translator(); t != nil {
		s.translator = t
	}
	s.domain = m.ID
	if l := m.Logger(); l != nil {
		s.logger = l
	}

	if n := toInt(m.Option(OptionNumber, s.cfg.DefaultNumber)); n > 0 {
		s.cfg.DefaultNumber = n
	}
	if d := toInt(m.Option(OptionDepth, s.cfg.DefaultDepth)); d >= 0 {
		s.cfg.DefaultDepth = d
	}
	s.cfg.LegacyTags = hooks.Truthy(m.Option(OptionLegacyTags, s.cfg.LegacyTags))

	if err := e.registerShortcode(); err != nil {
		return fmt.Errorf("pagelist: register shortcode: %w", err)
	}

	s.hooks.AddFilter(ContentFilterHook, func(ctx context.Context, value any, args ...any) (any, error) {
		body, ok := value.(string)
		if !ok {
			return value, nil
		}
		return s.ContentFilter(ctx, body, currentFromArgs(args))
	}, hooks.WithKey(m.ID+"."+OptionLegacyTags))

	s.logger.Debug("pagelist.loaded", "num", s.cfg.DefaultNumber, "depth", s.cfg.DefaultDepth, "legacy_tags", s.cfg.LegacyTags)
	return nil
}

// definitionReplacer is implemented by registries that can overwrite a
// definition in place.
type definitionReplacer interface {
	Replace(def interfaces.ShortcodeDefinition) error
}

// registerShortcode stores the ipagelist definition with the loaded option
// defaults. Registries that cannot replace keep the first definition.
func (e *Extension) registerShortcode() error {
	if e.registry == nil {
		return nil
	}
	def := e.svc.Definition()
	if r, ok := e.registry.(definitionReplacer); ok {
		return r.Replace(def)
	}
	if _, exists := e.registry.Get(ShortcodeName); exists {
		return nil
	}
	return e.registry.Register(def)
}

// currentFromArgs picks the content reference passed to the_content.
func currentFromArgs(args []any) interfaces.ContentRef {
	for _, arg := range args {
		switch v := arg.(type) {
		case interfaces.ContentRef:
			return v
		case *interfaces.ContentRef:
			if v != nil {
				return *v
			}
		}
	}
	return interfaces.ContentRef{}
}

func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return -1
		}
		return n
	default:
		return -1
	}
}
