package commands

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	modulecmd "github.com/goliatone/go-pagelist/internal/commands/modules"
	rendercmd "github.com/goliatone/go-pagelist/internal/commands/render"
)

// Dispatcher subscribes the container's handlers to the go-command dispatcher.
type Dispatcher struct {
	opts []runner.Option
}

// NewDispatcher returns a Dispatcher that passes opts to every subscription.
func NewDispatcher(opts ...runner.Option) *Dispatcher {
	return &Dispatcher{opts: opts}
}

// RegisterCommand satisfies CommandDispatcher for the handler types this
// module builds.
func (d *Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *modulecmd.ActivateHandler:
		return dispatcher.SubscribeCommand[modulecmd.ActivateModuleCommand](h, d.opts...), nil
	case *modulecmd.DeactivateHandler:
		return dispatcher.SubscribeCommand[modulecmd.DeactivateModuleCommand](h, d.opts...), nil
	case *modulecmd.UpdateHandler:
		return dispatcher.SubscribeCommand[modulecmd.UpdateModuleCommand](h, d.opts...), nil
	case *rendercmd.RenderContentHandler:
		return dispatcher.SubscribeCommand[rendercmd.RenderContentCommand](h, d.opts...), nil
	default:
		return nil, fmt.Errorf("commands: cannot dispatch %T", handler)
	}
}
