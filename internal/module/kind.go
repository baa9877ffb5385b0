package module

import "strings"

// Kind distinguishes the module variants sharing one lifecycle.
type Kind int

const (
	KindUnknown    Kind = 0
	KindPlugin     Kind = 10
	KindComponent  Kind = 15
	KindTheme      Kind = 20
	KindChildTheme Kind = 25
)

// ParseKind maps a kind name onto Kind. Child themes are detected at load
// time, so only plugin, component and theme are accepted here.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plugin":
		return KindPlugin
	case "component":
		return KindComponent
	case "theme":
		return KindTheme
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindPlugin:
		return "plugin"
	case KindComponent:
		return "component"
	case KindTheme:
		return "theme"
	case KindChildTheme:
		return "child-theme"
	default:
		return "unknown"
	}
}
