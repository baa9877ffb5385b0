package fixtures

import (
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagelist/internal/commands"
)

// RecordingRegistry captures registered command handlers.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

// RegisterCommand satisfies commands.CommandRegistry while recording the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration captures a single cron wiring invocation.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler any
}

// CronRecorder records calls to a commands.CronRegistrar.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

func NewCronRecorder() *CronRecorder {
	return &CronRecorder{Registrations: make([]CronRegistration, 0)}
}

// Fail makes every later registration return err.
func (c *CronRecorder) Fail(err error) {
	c.err = err
}

func (c *CronRecorder) Registrar() commands.CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: handler})
		return nil
	}
}
