package hooks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// FilterString applies name and coerces the result back to a string. A
// non-string result falls back to def.
func FilterString(ctx context.Context, d interfaces.HookDispatcher, name, def string, args ...any) string {
	if d == nil {
		return def
	}
	out, err := d.ApplyFilters(ctx, name, def, args...)
	if err != nil {
		return def
	}
	switch v := out.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return def
	}
}

// FilterBool applies name and reports the truthiness of the result.
func FilterBool(ctx context.Context, d interfaces.HookDispatcher, name string, def any, args ...any) bool {
	if d == nil {
		return Truthy(def)
	}
	out, err := d.ApplyFilters(ctx, name, def, args...)
	if err != nil {
		return Truthy(def)
	}
	return Truthy(out)
}

// Truthy mirrors the loose boolean rules stored options follow: empty strings,
// "0", "false", zero numbers and nil are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		return s != "" && s != "0" && s != "false" && s != "off" && s != "no"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		if n, err := strconv.ParseFloat(fmt.Sprint(v), 64); err == nil {
			return n != 0
		}
		return true
	}
}
