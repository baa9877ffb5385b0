package module

import "errors"

var (
	ErrHostRequired     = errors.New("module: host is required")
	ErrHooksRequired    = errors.New("module: hook dispatcher is required")
	ErrSettingsRequired = errors.New("module: settings are required")
	ErrFileRequired     = errors.New("module: file is required for plugins and components")
	ErrIDRequired       = errors.New("module: id could not be determined")
	ErrParentRequired   = errors.New("module: components require a parent plugin id")
	ErrComponentID      = errors.New("module: component header is missing the Component field")
)
