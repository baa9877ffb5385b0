package commands

import (
	"strings"

	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// CommandLogger returns the logger for a command group such as "modules" or
// "render". Entries are tagged with the group; an empty group logs under
// the root commands logger.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		return logging.CommandsLogger(provider)
	}
	logger := logging.ModuleLogger(provider, "pagelist.commands."+group)
	return logging.WithFields(logger, map[string]any{"command_group": group})
}
