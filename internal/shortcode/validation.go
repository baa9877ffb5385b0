package shortcode

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// coercers convert raw attribute values, usually strings from post content,
// into the declared parameter type.
var coercers = map[interfaces.ShortcodeParamType]func(any) (any, error){
	interfaces.ShortcodeParamString: func(v any) (any, error) { return toString(v), nil },
	interfaces.ShortcodeParamInt:    func(v any) (any, error) { return toInt(v) },
	interfaces.ShortcodeParamBool:   func(v any) (any, error) { return toBool(v) },
	interfaces.ShortcodeParamArray:  func(v any) (any, error) { return toList(v) },
	interfaces.ShortcodeParamURL:    func(v any) (any, error) { return toURL(v) },
}

// Validator checks definitions at registration and coerces attributes at render time.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition requires a name and a schema whose parameters are
// uniquely named and of a known type.
func (v *Validator) ValidateDefinition(def interfaces.ShortcodeDefinition) error {
	if err := validation.Validate(strings.TrimSpace(def.Name), validation.Required.Error("name is required")); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	seen := make(map[string]struct{}, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: schema parameter name required", ErrInvalidDefinition)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate schema parameter %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}
		if _, ok := coercers[param.Type]; !ok {
			return fmt.Errorf("%w: parameter %q unknown type %q", ErrInvalidDefinition, name, param.Type)
		}
	}
	return nil
}

// CoerceParams starts from the schema defaults, overlays the supplied
// attributes converted to their declared types, then checks required ones.
func (v *Validator) CoerceParams(def interfaces.ShortcodeDefinition, supplied map[string]any) (map[string]any, error) {
	if err := v.ValidateDefinition(def); err != nil {
		return nil, err
	}

	params := make(map[string]interfaces.ShortcodeParam, len(def.Schema.Params))
	out := make(map[string]any, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		params[param.Name] = param
		if def.Schema.Defaults != nil {
			if value, ok := def.Schema.Defaults[param.Name]; ok {
				out[param.Name] = value
			}
			continue
		}
		if param.Default != nil {
			out[param.Name] = param.Default
		}
	}

	for key, raw := range supplied {
		param, ok := params[key]
		if !ok {
			if def.IgnoreUnknown {
				continue
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}
		value, err := coercers[param.Type](raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrParameterType, key, err)
		}
		if param.Validate != nil {
			if err := param.Validate(value); err != nil {
				return nil, err
			}
		}
		out[key] = value
	}

	for _, param := range def.Schema.Params {
		if _, ok := out[param.Name]; param.Required && !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
		}
	}
	return out, nil
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}

// toInt accepts numbers of any width. Strings are read like a loose integer
// cast: the leading signed digits count and anything else reads as 0, so
// depth="all" is 0 and num="3rd" is 3.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		return leadingInt(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return int(rv.Float()), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// leadingInt parses the optionally signed leading digits of value, returning
// 0 when there are none.
func leadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "", "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return false, fmt.Errorf("cannot convert %q to bool", v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// toList splits comma separated strings and flattens slices.
func toList(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		var out []any
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot convert %T to array", value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toURL(value any) (string, error) {
	raw := strings.TrimSpace(toString(value))
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", err
	}
	return raw, nil
}
