package module

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/internal/options"
	"github.com/goliatone/go-pagelist/internal/readme"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// Option names shared by every module.
const (
	OptionDisableAdminPage    = "disable-admin-page"
	OptionDisableModuleStyles = "disable-module-styles"
	// FrameworkVersionOption stores the installed framework version.
	FrameworkVersionOption = "ak_framework_version"
)

// Options configures New.
type Options struct {
	Kind Kind
	ID   string
	File string
	// Parent is the owning plugin id; components store their options under
	// <Parent>_<ID> and compare versions against ParentVersion.
	Parent        string
	ParentVersion string

	Host       interfaces.Host
	Hooks      interfaces.HookDispatcher
	Settings   *options.Settings
	Translator interfaces.Translator
	Styles     interfaces.StyleRegistry
	Logger     interfaces.Logger

	// Extension may implement any of the behaviour interfaces in this package.
	Extension any
}

// Module is a loaded plugin, component, theme or child theme.
type Module struct {
	ID      string
	Kind    Kind
	File    string
	BaseURL string

	Data      readme.Metadata
	ChildData readme.Metadata

	Installing  bool
	NeedsUpdate bool

	parent        string
	parentVersion string
	optionKey     string
	storedVersion string
	compatible    bool

	host       interfaces.Host
	hooks      interfaces.HookDispatcher
	settings   *options.Settings
	translator interfaces.Translator
	styles     interfaces.StyleRegistry
	logger     interfaces.Logger
	ext        any
}

// New loads module data, registers its options and, when compatible, wires
// the lifecycle hooks before calling the extension's ModuleLoad.
func New(ctx context.Context, opts Options) (*Module, error) {
	if opts.Host == nil {
		return nil, ErrHostRequired
	}
	if opts.Hooks == nil {
		return nil, ErrHooksRequired
	}
	if opts.Settings == nil {
		return nil, ErrSettingsRequired
	}

	m := &Module{
		Kind:          opts.Kind,
		parent:        strings.TrimSpace(opts.Parent),
		parentVersion: strings.TrimSpace(opts.ParentVersion),
		host:          opts.Host,
		hooks:         opts.Hooks,
		settings:      opts.Settings,
		translator:    opts.Translator,
		styles:        opts.Styles,
		logger:        opts.Logger,
		ext:           opts.Extension,
	}
	if m.translator == nil {
		m.translator = i18n.NoOp()
	}
	if m.logger == nil {
		m.logger = logging.NoOp()
	}

	id := strings.TrimSpace(opts.ID)
	if m.IsTheme() {
		m.File = filepath.Join(opts.Host.StylesheetDir(), "style.css")
		m.BaseURL = opts.Host.StylesheetURL()
		if id == "" {
			id = strings.ToLower(filepath.Base(opts.Host.TemplateDir()))
		}
	} else {
		m.File = strings.TrimSpace(opts.File)
		if m.File == "" {
			return nil, ErrFileRequired
		}
		m.BaseURL = joinURL(opts.Host.PluginsURL(), filepath.Base(filepath.Dir(m.File)))
		if id == "" {
			base := filepath.Base(m.File)
			id = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		}
	}
	m.ID = id

	if err := m.loadModuleData(ctx); err != nil {
		return nil, err
	}
	if m.ID == "" || m.ID == "." {
		return nil, ErrIDRequired
	}
	m.logger = logging.WithModuleContext(m.logger, m.ID, m.Kind.String(), "")

	m.compatible = m.checkCompatible(ctx)
	if !m.compatible {
		m.logger.Warn("module.incompatible", "requires", m.Data.Requires, "host_version", opts.Host.Version())
		return m, nil
	}

	m.registerHooks(ctx)
	if loader, ok := m.ext.(Loader); ok {
		if err := loader.ModuleLoad(ctx, m); err != nil {
			return nil, fmt.Errorf("module %s: load: %w", m.ID, err)
		}
	}
	m.logger.Debug("module.loaded", "installing", m.Installing, "needs_update", m.NeedsUpdate)
	return m, nil
}

func (m *Module) checkCompatible(ctx context.Context) bool {
	if checker, ok := m.ext.(CompatibilityChecker); ok {
		return checker.IsCompatible(ctx, m)
	}
	return true
}

func (m *Module) registerHooks(ctx context.Context) {
	m.hooks.AddAction("init", func(ctx context.Context, _ ...any) error {
		return m.SystemInit(ctx)
	}, hooks.WithKey(m.hookKey("system_init")))

	m.hooks.AddAction("widgets_init", func(ctx context.Context, _ ...any) error {
		return m.WidgetsInit(ctx)
	}, hooks.WithKey(m.hookKey("widgets_init")))

	disabled := hooks.FilterBool(ctx, m.hooks, "ak_"+m.ID+"_disable_admin", m.Option(OptionDisableAdminPage, false))
	if !disabled {
		m.hooks.AddAction("admin_menu", func(ctx context.Context, _ ...any) error {
			return m.AdminMenus(ctx)
		}, hooks.WithKey(m.hookKey("admin_menus")))
	}

	if m.host.IsAdmin() {
		m.hooks.AddAction("admin_print_styles", func(ctx context.Context, _ ...any) error {
			return m.AdminStyles(ctx)
		}, hooks.WithKey(m.hookKey("admin_styles")))
	} else {
		m.hooks.AddAction("wp_print_styles", func(ctx context.Context, _ ...any) error {
			return m.EnqueueStyles(ctx)
		}, hooks.WithKey(m.hookKey("enqueue_styles")))
	}
}

func (m *Module) hookKey(name string) string {
	return m.ID + "." + name
}

// SystemInit loads translations then runs the extension's Init.
func (m *Module) SystemInit(ctx context.Context) error {
	if err := m.LoadTranslations(); err != nil {
		m.logger.Warn("module.translations.failed", "error", err)
	}
	if init, ok := m.ext.(Initializer); ok {
		return init.Init(ctx)
	}
	return nil
}

// WidgetsInit runs the extension's widgets hook.
func (m *Module) WidgetsInit(ctx context.Context) error {
	if w, ok := m.ext.(WidgetsInitializer); ok {
		return w.WidgetsInit(ctx)
	}
	return nil
}

// AdminMenus runs the extension's admin menu hook.
func (m *Module) AdminMenus(ctx context.Context) error {
	if r, ok := m.ext.(AdminMenuRegistrar); ok {
		return r.AdminMenus(ctx)
	}
	return nil
}

// LoadTranslations loads the text domains that belong to the module kind.
func (m *Module) LoadTranslations() error {
	switch m.Kind {
	case KindPlugin:
		return m.translator.LoadDomain(m.ID, filepath.Join(filepath.Dir(m.File), "lang"))
	case KindComponent:
		return nil
	case KindChildTheme:
		if err := m.translator.LoadDomain("akchild", filepath.Join(m.host.StylesheetDir(), "lang")); err != nil {
			return err
		}
		return m.translator.LoadDomain("aktheme", filepath.Join(m.host.TemplateDir(), "lang"))
	case KindTheme:
		return m.translator.LoadDomain("aktheme", filepath.Join(m.host.TemplateDir(), "lang"))
	}
	return nil
}

func (m *Module) IsPlugin() bool     { return m.Kind == KindPlugin }
func (m *Module) IsComponent() bool  { return m.Kind == KindComponent }
func (m *Module) IsTheme() bool      { return m.Kind == KindTheme || m.Kind == KindChildTheme }
func (m *Module) IsChildTheme() bool { return m.Kind == KindChildTheme }

// Compatible reports whether the module passed its compatibility check.
func (m *Module) Compatible() bool { return m.compatible }

// OptionKey is the settings key holding the module's option blob.
func (m *Module) OptionKey() string { return m.optionKey }

// StoredVersion is the version recorded by the last install or update.
func (m *Module) StoredVersion() string { return m.storedVersion }

func (m *Module) Host() interfaces.Host             { return m.host }
func (m *Module) Hooks() interfaces.HookDispatcher  { return m.hooks }
func (m *Module) Settings() *options.Settings       { return m.settings }
func (m *Module) Translator() interfaces.Translator { return m.translator }
func (m *Module) Logger() interfaces.Logger         { return m.logger }
func (m *Module) Extension() any                    { return m.ext }

// Translate looks key up in the module's own text domain.
func (m *Module) Translate(key string, args ...any) string {
	return m.translator.Translate(m.ID, key, args...)
}

// Option returns a single module option.
func (m *Module) Option(name string, def any) any {
	return m.settings.Get(m.optionKey, name, def)
}

// Options returns every module option with forced values applied.
func (m *Module) Options() map[string]any {
	return m.settings.All(m.optionKey)
}

func (m *Module) UpdateOption(ctx context.Context, name string, value any) error {
	return m.settings.Update(ctx, m.optionKey, name, value)
}

func (m *Module) ReplaceOptions(ctx context.Context, values map[string]any) error {
	return m.settings.Replace(ctx, m.optionKey, values)
}

// SaveOptions persists the current option blob.
func (m *Module) SaveOptions(ctx context.Context) error {
	return m.settings.Save(ctx, m.optionKey)
}

// ModData returns a metadata field; ok is false for unknown or empty keys.
func (m *Module) ModData(name string) (any, bool) {
	return m.Data.Value(name)
}

// ChildDataValue returns a child theme metadata field.
func (m *Module) ChildDataValue(name string) (any, bool) {
	return m.ChildData.Value(name)
}

// AllowAdmin reports whether the option may be edited. Options forced by the
// administrator are blocked and a notice is written to w when w is not nil.
func (m *Module) AllowAdmin(w io.Writer, option string) bool {
	if !m.settings.IsForced(m.optionKey, option) {
		return true
	}
	if w != nil {
		fmt.Fprintf(w, "<em>%s</em>", m.translator.Translate(i18n.FrameworkDomain, "Option blocked by administrator."))
	}
	return false
}

// URL is the public base URL of the module, with a trailing slash for
// plugins and components.
func (m *Module) URL() string {
	switch m.Kind {
	case KindPlugin, KindComponent:
		dir := filepath.ToSlash(filepath.Dir(m.File))
		root := filepath.ToSlash(m.host.PluginsDir())
		if root != "" && strings.HasPrefix(dir, root) {
			return m.host.PluginsURL() + strings.TrimPrefix(dir, root) + "/"
		}
		return m.BaseURL + "/"
	case KindTheme:
		return m.host.TemplateURL()
	case KindChildTheme:
		return m.host.StylesheetURL()
	default:
		return ""
	}
}

func joinURL(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(segment, "/")
}
