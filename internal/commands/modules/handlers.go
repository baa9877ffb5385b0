package modulecmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagelist/internal/commands"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/internal/plugin"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

const (
	activateOperation   = "module.activate"
	deactivateOperation = "module.deactivate"
	updateOperation     = "module.update"
)

var (
	ErrUnknownModule      = errors.New("module command: unknown module")
	ErrIncompatibleModule = errors.New("module command: module is not compatible with the host")
)

var (
	_ command.Commander[ActivateModuleCommand]   = (*ActivateHandler)(nil)
	_ command.Commander[DeactivateModuleCommand] = (*DeactivateHandler)(nil)
	_ command.Commander[UpdateModuleCommand]     = (*UpdateHandler)(nil)
)

// DefaultUpdateCron is the schedule on which every loaded plugin is checked
// for a pending version migration.
const DefaultUpdateCron = "@hourly"

// Plugins resolves loaded plugins by module id.
type Plugins interface {
	Plugin(id string) (*plugin.Plugin, bool)
	IDs() []string
}

// PluginSet is a Plugins backed by a map.
type PluginSet map[string]*plugin.Plugin

func (s PluginSet) Plugin(id string) (*plugin.Plugin, bool) {
	p, ok := s[id]
	return p, ok && p != nil
}

func (s PluginSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func lookup(plugins Plugins, id string) (*plugin.Plugin, error) {
	p, ok := plugins.Plugin(id)
	if !ok || p.Module == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}
	if !p.Compatible() {
		return nil, fmt.Errorf("%w: %s", ErrIncompatibleModule, id)
	}
	return p, nil
}

func moduleFields[T interface{ moduleID() string }](msg T) map[string]any {
	return map[string]any{"module": msg.moduleID()}
}

func (cmd ActivateModuleCommand) moduleID() string   { return cmd.Module }
func (cmd DeactivateModuleCommand) moduleID() string { return cmd.Module }
func (cmd UpdateModuleCommand) moduleID() string     { return cmd.Module }

// ActivateHandler fires the plugin activation hook and records the plugin as active.
type ActivateHandler struct {
	inner *commands.Handler[ActivateModuleCommand]
}

func NewActivateHandler(plugins Plugins, logger interfaces.Logger, opts ...commands.HandlerOption[ActivateModuleCommand]) *ActivateHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ActivateModuleCommand) error {
		p, err := lookup(plugins, msg.Module)
		if err != nil {
			return err
		}
		if err := p.Hooks().DoAction(ctx, plugin.ActivationHook(p.Module)); err != nil {
			return err
		}
		if err := plugin.ActivateByName(ctx, p.Settings().Store(), plugin.Basename(p.Module)); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{"version": p.Data.Version}).Info("module.command.activated")
		return nil
	}
	handlerOpts := []commands.HandlerOption[ActivateModuleCommand]{
		commands.WithLogger[ActivateModuleCommand](logger),
		commands.WithOperation[ActivateModuleCommand](activateOperation),
		commands.WithMessageFields[ActivateModuleCommand](moduleFields[ActivateModuleCommand]),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &ActivateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *ActivateHandler) Execute(ctx context.Context, msg ActivateModuleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeactivateHandler fires the plugin deactivation hook and drops the plugin
// from the active list.
type DeactivateHandler struct {
	inner *commands.Handler[DeactivateModuleCommand]
}

func NewDeactivateHandler(plugins Plugins, logger interfaces.Logger, opts ...commands.HandlerOption[DeactivateModuleCommand]) *DeactivateHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg DeactivateModuleCommand) error {
		p, err := lookup(plugins, msg.Module)
		if err != nil {
			return err
		}
		if err := p.Hooks().DoAction(ctx, plugin.DeactivationHook(p.Module)); err != nil {
			return err
		}
		return plugin.DeactivateByName(ctx, p.Settings().Store(), plugin.Basename(p.Module))
	}
	handlerOpts := []commands.HandlerOption[DeactivateModuleCommand]{
		commands.WithLogger[DeactivateModuleCommand](logger),
		commands.WithOperation[DeactivateModuleCommand](deactivateOperation),
		commands.WithMessageFields[DeactivateModuleCommand](moduleFields[DeactivateModuleCommand]),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &DeactivateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *DeactivateHandler) Execute(ctx context.Context, msg DeactivateModuleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateHandler runs a plugin's version migration outside plugins_loaded. As a
// cron command it checks every loaded plugin.
type UpdateHandler struct {
	inner   *commands.Handler[UpdateModuleCommand]
	plugins Plugins
	logger  interfaces.Logger
	cron    command.HandlerConfig
}

func NewUpdateHandler(plugins Plugins, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateModuleCommand]) *UpdateHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg UpdateModuleCommand) error {
		p, err := lookup(plugins, msg.Module)
		if err != nil {
			return err
		}
		return p.Update(ctx)
	}
	handlerOpts := []commands.HandlerOption[UpdateModuleCommand]{
		commands.WithLogger[UpdateModuleCommand](logger),
		commands.WithOperation[UpdateModuleCommand](updateOperation),
		commands.WithMessageFields[UpdateModuleCommand](moduleFields[UpdateModuleCommand]),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &UpdateHandler{
		inner:   commands.NewHandler(exec, handlerOpts...),
		plugins: plugins,
		logger:  logger,
		cron:    command.HandlerConfig{Expression: DefaultUpdateCron},
	}
}

func (h *UpdateHandler) Execute(ctx context.Context, msg UpdateModuleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// WithCronExpression overrides DefaultUpdateCron.
func (h *UpdateHandler) WithCronExpression(expression string) *UpdateHandler {
	if trimmed := strings.TrimSpace(expression); trimmed != "" {
		h.cron.Expression = trimmed
	}
	return h
}

// CronHandler satisfies command.CronCommand. Incompatible plugins are skipped.
func (h *UpdateHandler) CronHandler() func() error {
	return func() error {
		var errs error
		for _, id := range h.plugins.IDs() {
			if p, ok := h.plugins.Plugin(id); !ok || !p.Compatible() {
				continue
			}
			if err := h.Execute(context.Background(), UpdateModuleCommand{Module: id}); err != nil {
				h.logger.Warn("module.command.cron_update_failed", "module", id, "error", err)
				errs = errors.Join(errs, err)
			}
		}
		return errs
	}
}

// CronOptions satisfies command.CronCommand.
func (h *UpdateHandler) CronOptions() command.HandlerConfig {
	return h.cron
}

// HandlerSet groups the module lifecycle handlers.
type HandlerSet struct {
	Activate   *ActivateHandler
	Deactivate *DeactivateHandler
	Update     *UpdateHandler
}

// RegisterModuleCommands builds the lifecycle handlers and registers them with reg when set.
func RegisterModuleCommands(reg commands.CommandRegistry, plugins Plugins, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if plugins == nil {
		return nil, errors.New("module command registration: plugins are nil")
	}
	logger := commands.CommandLogger(provider, "modules")
	set := &HandlerSet{
		Activate:   NewActivateHandler(plugins, logger),
		Deactivate: NewDeactivateHandler(plugins, logger),
		Update:     NewUpdateHandler(plugins, logger),
	}
	if reg != nil {
		for _, handler := range []any{set.Activate, set.Deactivate, set.Update} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
