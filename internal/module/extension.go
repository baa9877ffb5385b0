package module

import "context"

// Loader runs once the module is known to be compatible.
type Loader interface {
	ModuleLoad(ctx context.Context, m *Module) error
}

// DefaultOptioner supplies the option defaults registered with the settings layer.
type DefaultOptioner interface {
	DefaultOptions() map[string]any
}

// Initializer runs on the init hook after translations are loaded.
type Initializer interface {
	Init(ctx context.Context) error
}

// WidgetsInitializer runs on widgets_init.
type WidgetsInitializer interface {
	WidgetsInit(ctx context.Context) error
}

// AdminMenuRegistrar runs on admin_menu.
type AdminMenuRegistrar interface {
	AdminMenus(ctx context.Context) error
}

// CompatibilityChecker decides whether the module may hook into the host.
// Incompatible modules are loaded but never wired.
type CompatibilityChecker interface {
	IsCompatible(ctx context.Context, m *Module) bool
}
