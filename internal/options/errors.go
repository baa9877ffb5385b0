package options

import "errors"

var (
	// ErrOptionNameRequired indicates a blank option name.
	ErrOptionNameRequired = errors.New("options: option name is required")
	// ErrModuleRequired indicates a blank module key on a settings call.
	ErrModuleRequired = errors.New("options: module key is required")
	// ErrUnknownModule indicates settings were requested before defaults were registered.
	ErrUnknownModule = errors.New("options: module defaults not registered")
	// ErrInvalidValue indicates a stored value could not be decoded.
	ErrInvalidValue = errors.New("options: stored value is not valid json")
)
