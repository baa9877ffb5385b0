package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

const (
	rootModule      = "pagelist"
	moduleModule    = "pagelist.module"
	pluginModule    = "pagelist.plugin"
	shortcodeModule = "pagelist.shortcode"
	contentModule   = "pagelist.content"
	commandsModule  = "pagelist.commands"
)

const (
	fieldModuleID   = "module_id"
	fieldModuleKind = "module_kind"
	fieldHook       = "hook"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LifecycleLogger returns the logger used by the module lifecycle shim.
func LifecycleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, moduleModule)
}

// PluginLogger returns the logger used for activation and update flows.
func PluginLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pluginModule)
}

// ShortcodeLogger returns the logger used while expanding shortcodes.
func ShortcodeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, shortcodeModule)
}

// ContentLogger returns the logger used by content queries.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithModuleContext enriches logger with the extension id, kind and hook
// being executed. Empty values are ignored.
func WithModuleContext(logger interfaces.Logger, id, kind, hook string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldModuleID] = trimmed
	}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldModuleKind] = trimmed
	}
	if trimmed := strings.TrimSpace(hook); trimmed != "" {
		fields[fieldHook] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
