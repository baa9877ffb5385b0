package readme

import "strings"

// Metadata is the merged description of a module gathered from its header,
// readme.txt and optional README.md front matter.
type Metadata struct {
	Name        string
	Title       string
	Description string
	Author      string
	AuthorURI   string
	Version     string
	PluginURI   string
	ThemeURI    string
	Template    string
	TextDomain  string
	DomainPath  string
	Component   string
	File        string

	Contributors []string
	Tags         []string
	DonateURI    string
	HelpURI      string
	DocsURI      string
	Requires     string
	Tested       string
	Stable       string
}

// Value returns the field stored under key. Keys follow the field names.
func (m Metadata) Value(key string) (any, bool) {
	switch key {
	case "Contributors":
		return m.Contributors, len(m.Contributors) > 0
	case "Tags":
		return m.Tags, len(m.Tags) > 0
	}
	value := m.stringField(key)
	if value == nil {
		return nil, false
	}
	return *value, *value != ""
}

// IsZero reports whether no field has been populated.
func (m Metadata) IsZero() bool {
	return m.Name == "" && m.Version == "" && m.Description == "" && m.Requires == "" &&
		m.Component == "" && len(m.Tags) == 0 && len(m.Contributors) == 0
}

func (m *Metadata) stringField(key string) *string {
	switch key {
	case "Name":
		return &m.Name
	case "Title":
		return &m.Title
	case "Description":
		return &m.Description
	case "Author":
		return &m.Author
	case "AuthorURI":
		return &m.AuthorURI
	case "Version":
		return &m.Version
	case "PluginURI":
		return &m.PluginURI
	case "ThemeURI", "URI":
		return &m.ThemeURI
	case "Template":
		return &m.Template
	case "TextDomain":
		return &m.TextDomain
	case "DomainPath":
		return &m.DomainPath
	case "Component":
		return &m.Component
	case "File":
		return &m.File
	case "DonateURI":
		return &m.DonateURI
	case "HelpURI":
		return &m.HelpURI
	case "DocsURI":
		return &m.DocsURI
	case "Requires":
		return &m.Requires
	case "Tested":
		return &m.Tested
	case "Stable":
		return &m.Stable
	}
	return nil
}

var stringKeys = []string{
	"Name", "Title", "Description", "Author", "AuthorURI", "Version", "PluginURI",
	"ThemeURI", "Template", "TextDomain", "DomainPath", "Component", "File",
	"DonateURI", "HelpURI", "DocsURI", "Requires", "Tested", "Stable",
}

// Merge folds the supplied metadata left to right. Non-empty fields on the
// right replace those on the left.
func Merge(base Metadata, others ...Metadata) Metadata {
	out := base
	out.Contributors = append([]string(nil), base.Contributors...)
	out.Tags = append([]string(nil), base.Tags...)
	for _, other := range others {
		for _, key := range stringKeys {
			if value := *other.stringField(key); strings.TrimSpace(value) != "" {
				*out.stringField(key) = value
			}
		}
		if len(other.Contributors) > 0 {
			out.Contributors = append([]string(nil), other.Contributors...)
		}
		if len(other.Tags) > 0 {
			out.Tags = append([]string(nil), other.Tags...)
		}
	}
	return out
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
