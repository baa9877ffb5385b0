package module

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// CompareVersions orders two version strings. Unparseable input falls back
// to a plain string comparison.
func CompareVersions(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// VersionAtLeast reports whether have >= want. An empty requirement is met.
func VersionAtLeast(have, want string) bool {
	if strings.TrimSpace(want) == "" {
		return true
	}
	return CompareVersions(have, want) >= 0
}
