package shortcode

import "errors"

var (
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	ErrInvalidDefinition   = errors.New("shortcode: invalid definition")
	// ErrUnknownParameter is returned for attributes the schema does not declare.
	ErrUnknownParameter = errors.New("shortcode: unknown parameter")
	// ErrMissingParameter is returned when a required attribute is absent.
	ErrMissingParameter = errors.New("shortcode: missing required parameter")
	// ErrParameterType is returned when an attribute cannot take its declared type.
	ErrParameterType = errors.New("shortcode: parameter type mismatch")
)
