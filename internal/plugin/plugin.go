package plugin

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/internal/module"
	"github.com/goliatone/go-pagelist/internal/options"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// ActivePluginsOption lists the files of every active plugin.
const ActivePluginsOption = "active_plugins"

var ErrNotLoaded = errors.New("plugin: module not loaded")

// Activator runs before options and version are persisted on activation.
type Activator interface {
	PluginActivate(ctx context.Context) error
}

// Deactivator runs on deactivation.
type Deactivator interface {
	PluginDeactivate(ctx context.Context) error
}

// Updater migrates state from oldVersion.
type Updater interface {
	PluginUpdate(ctx context.Context, oldVersion string) error
}

// PluginsLoadedHandler runs on every plugins_loaded after any update.
type PluginsLoadedHandler interface {
	PluginsLoaded(ctx context.Context) error
}

// WidgetRegistrar registers widgets when the host supports them.
type WidgetRegistrar interface {
	RegisterWidgets(ctx context.Context) error
}

// Option adjusts the module options a plugin is built with.
type Option func(*module.Options)

func WithHost(host interfaces.Host) Option {
	return func(o *module.Options) { o.Host = host }
}

func WithHooks(d interfaces.HookDispatcher) Option {
	return func(o *module.Options) { o.Hooks = d }
}

func WithSettings(s *options.Settings) Option {
	return func(o *module.Options) { o.Settings = s }
}

func WithTranslator(t interfaces.Translator) Option {
	return func(o *module.Options) { o.Translator = t }
}

func WithStyles(s interfaces.StyleRegistry) Option {
	return func(o *module.Options) { o.Styles = s }
}

func WithLogger(l interfaces.Logger) Option {
	return func(o *module.Options) { o.Logger = l }
}

// Plugin adds activation, deactivation and update handling to a module.
type Plugin struct {
	*module.Module
	ext any
}

// New builds a plugin module for file. When compatible it registers the
// activation and deactivation hooks and runs Update on plugins_loaded.
func New(ctx context.Context, file, id string, ext any, opts ...Option) (*Plugin, error) {
	p := &Plugin{ext: ext}
	cfg := module.Options{Kind: module.KindPlugin, ID: id, File: file, Extension: p}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	m, err := module.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.Module = m
	if !m.Compatible() {
		return p, nil
	}

	d := m.Hooks()
	d.AddAction(ActivationHook(m), func(ctx context.Context, _ ...any) error {
		return p.Activate(ctx)
	}, hooks.WithKey(m.ID+".activate"))
	d.AddAction(DeactivationHook(m), func(ctx context.Context, _ ...any) error {
		return p.Deactivate(ctx)
	}, hooks.WithKey(m.ID+".deactivate"))
	d.AddAction("plugins_loaded", func(ctx context.Context, _ ...any) error {
		return p.Update(ctx)
	}, hooks.WithKey(m.ID+".update"))
	return p, nil
}

// ActivationHook is the action fired when the plugin file is activated.
func ActivationHook(m *module.Module) string {
	return "activate_" + Basename(m)
}

// DeactivationHook is the action fired when the plugin file is deactivated.
func DeactivationHook(m *module.Module) string {
	return "deactivate_" + Basename(m)
}

// Basename is the plugin file relative to the plugins directory, the name
// stored in the active plugins list.
func Basename(m *module.Module) string {
	file := filepath.ToSlash(m.File)
	root := strings.TrimRight(filepath.ToSlash(m.Host().PluginsDir()), "/")
	if root != "" && strings.HasPrefix(file, root+"/") {
		return strings.TrimPrefix(file, root+"/")
	}
	return filepath.Base(filepath.Dir(m.File)) + "/" + filepath.Base(m.File)
}

// Activate persists options and the installed version, then fires
// ak_activate_<ID>_plugin.
func (p *Plugin) Activate(ctx context.Context) error {
	if p.Module == nil {
		return ErrNotLoaded
	}
	if a, ok := p.ext.(Activator); ok {
		if err := a.PluginActivate(ctx); err != nil {
			return fmt.Errorf("plugin %s: activate: %w", p.ID, err)
		}
	}
	if err := p.SaveOptions(ctx); err != nil {
		return fmt.Errorf("plugin %s: save options: %w", p.ID, err)
	}
	if _, err := p.Settings().Store().Add(ctx, module.VersionOption(p.ID), p.Data.Version); err != nil {
		return fmt.Errorf("plugin %s: record version: %w", p.ID, err)
	}
	p.Logger().Info("plugin.activated", "version", p.Data.Version)
	return p.Hooks().DoAction(ctx, "ak_activate_"+p.ID+"_plugin")
}

// Deactivate runs the extension hook and fires ak_deactivate_<ID>_plugin.
func (p *Plugin) Deactivate(ctx context.Context) error {
	if p.Module == nil {
		return ErrNotLoaded
	}
	if d, ok := p.ext.(Deactivator); ok {
		if err := d.PluginDeactivate(ctx); err != nil {
			return fmt.Errorf("plugin %s: deactivate: %w", p.ID, err)
		}
	}
	p.Logger().Info("plugin.deactivated")
	return p.Hooks().DoAction(ctx, "ak_deactivate_"+p.ID+"_plugin")
}

// Update migrates a plugin whose stored version differs from its data
// version, then always runs PluginsLoaded.
func (p *Plugin) Update(ctx context.Context) error {
	if p.Module == nil {
		return ErrNotLoaded
	}
	if p.NeedsUpdate {
		store := p.Settings().Store()
		old := p.StoredVersion()
		if raw, ok, err := store.Get(ctx, module.VersionOption(p.ID)); err == nil && ok {
			old = fmt.Sprint(raw)
		}
		if u, ok := p.ext.(Updater); ok {
			if err := u.PluginUpdate(ctx, old); err != nil {
				return fmt.Errorf("plugin %s: update from %s: %w", p.ID, old, err)
			}
		}
		if err := p.SaveOptions(ctx); err != nil {
			return fmt.Errorf("plugin %s: save options: %w", p.ID, err)
		}
		if err := store.Update(ctx, module.VersionOption(p.ID), p.Data.Version); err != nil {
			return fmt.Errorf("plugin %s: record version: %w", p.ID, err)
		}
		p.NeedsUpdate = false
		p.Logger().Info("plugin.updated", "from", old, "to", p.Data.Version)
		if err := p.Hooks().DoAction(ctx, "ak_"+p.ID+"_updated"); err != nil {
			return err
		}
	}
	if l, ok := p.ext.(PluginsLoadedHandler); ok {
		return l.PluginsLoaded(ctx)
	}
	return nil
}

// ModuleLoad binds the module before the extension loads.
func (p *Plugin) ModuleLoad(ctx context.Context, m *module.Module) error {
	p.Module = m
	if l, ok := p.ext.(module.Loader); ok {
		return l.ModuleLoad(ctx, m)
	}
	return nil
}

func (p *Plugin) DefaultOptions() map[string]any {
	if d, ok := p.ext.(module.DefaultOptioner); ok {
		return d.DefaultOptions()
	}
	return nil
}

func (p *Plugin) Init(ctx context.Context) error {
	if i, ok := p.ext.(module.Initializer); ok {
		return i.Init(ctx)
	}
	return nil
}

func (p *Plugin) AdminMenus(ctx context.Context) error {
	if a, ok := p.ext.(module.AdminMenuRegistrar); ok {
		return a.AdminMenus(ctx)
	}
	return nil
}

// WidgetsInit registers widgets, or queues an admin notice when the host has
// no widget support.
func (p *Plugin) WidgetsInit(ctx context.Context) error {
	if p.Module == nil {
		return ErrNotLoaded
	}
	if p.Host().SupportsWidgets() {
		if r, ok := p.ext.(WidgetRegistrar); ok {
			return r.RegisterWidgets(ctx)
		}
		return nil
	}
	key := p.ID + ".no_sidebar_warning"
	if !p.Hooks().HasAction("admin_notices", key) {
		m := p.Module
		p.Hooks().AddAction("admin_notices", func(_ context.Context, args ...any) error {
			return writeNotice(args, noSidebarWarning(m))
		}, hooks.WithKey(key))
	}
	return nil
}

// IsCompatible checks the host version against the Requires header. An
// incompatible plugin queues a single admin notice.
func (p *Plugin) IsCompatible(_ context.Context, m *module.Module) bool {
	if module.VersionAtLeast(m.Host().Version(), m.Data.Requires) {
		return true
	}
	key := m.ID + ".no_compatible_warning"
	if !m.Hooks().HasAction("admin_notices", key) {
		m.Hooks().AddAction("admin_notices", func(_ context.Context, args ...any) error {
			return writeNotice(args, noCompatibleWarning(m))
		}, hooks.WithKey(key))
	}
	return false
}

func noCompatibleWarning(m *module.Module) string {
	_ = m.LoadTranslations()
	t := m.Translator()
	label := "&laquo;" + html.EscapeString(m.Data.Name+" "+m.Data.Version) + "&raquo;"
	return `<div class="error"><p><strong>` + t.Translate(i18n.FrameworkDomain, "Warning:") + `</strong> ` +
		t.Translate(i18n.FrameworkDomain, "The active plugin %s is not compatible with your host version.", label) +
		`</p><p>` + t.Translate(i18n.FrameworkDomain, "Version %s is required to run this plugin.", html.EscapeString(m.Data.Requires)) +
		`</p></div>`
}

func noSidebarWarning(m *module.Module) string {
	_ = m.LoadTranslations()
	label := "&laquo;" + html.EscapeString(m.Data.Name+" "+m.Data.Version) + "&raquo;"
	return `<div class="error"><p><strong>` + m.Translate("Warning:") + `</strong> ` +
		m.Translate("Standard sidebar functions are not present.") + `</p><p>` +
		m.Translate("It is required to use the standard sidebar to run %s", label) +
		`</p></div>`
}

// writeNotice writes body to the first io.Writer argument of admin_notices.
func writeNotice(args []any, body string) error {
	for _, arg := range args {
		if w, ok := arg.(io.Writer); ok {
			_, err := io.WriteString(w, body)
			return err
		}
	}
	return nil
}

// ActivePlugins returns the active plugins list.
func ActivePlugins(ctx context.Context, store interfaces.OptionStore) ([]string, error) {
	raw, ok, err := store.Get(ctx, ActivePluginsOption)
	if err != nil {
		return nil, fmt.Errorf("plugin: read active plugins: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var active []string
	switch list := raw.(type) {
	case []string:
		active = list
	case []any:
		for _, item := range list {
			active = append(active, fmt.Sprint(item))
		}
	}
	return active, nil
}

// ActivateByName appends name to the active plugins list once.
func ActivateByName(ctx context.Context, store interfaces.OptionStore, name string) error {
	active, err := ActivePlugins(ctx, store)
	if err != nil {
		return err
	}
	if slices.Contains(active, name) {
		return nil
	}
	return store.Update(ctx, ActivePluginsOption, append(slices.Clone(active), name))
}

// DeactivateByName removes name from the active plugins list.
func DeactivateByName(ctx context.Context, store interfaces.OptionStore, name string) error {
	active, err := ActivePlugins(ctx, store)
	if err != nil {
		return err
	}
	for i, entry := range active {
		if entry == name {
			next := append(active[:i:i], active[i+1:]...)
			return store.Update(ctx, ActivePluginsOption, next)
		}
	}
	return nil
}
