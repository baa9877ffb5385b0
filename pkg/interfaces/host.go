package interfaces

// Host describes the runtime that loads modules.
type Host interface {
	Version() string
	IsAdmin() bool
	SupportsWidgets() bool
	PluginsDir() string
	PluginsURL() string
	TemplateDir() string
	TemplateURL() string
	StylesheetDir() string
	StylesheetURL() string
	FrameworkStylesURL() string
}

// StyleRegistry collects stylesheets queued for output.
type StyleRegistry interface {
	Register(handle, url string, deps []string, version string)
	Enqueue(handle string)
}
