package readme

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// headerLimit bounds how much of a file is scanned for metadata.
const headerLimit = 8 << 10

type field struct {
	label  string
	assign func(*Metadata, string)
}

func stringSetter(key string) func(*Metadata, string) {
	return func(m *Metadata, value string) { *m.stringField(key) = value }
}

var readmeFields = []field{
	{"Contributors", func(m *Metadata, v string) { m.Contributors = splitList(v) }},
	{"Donate link", stringSetter("DonateURI")},
	{"Help link", stringSetter("HelpURI")},
	{"Docs link", stringSetter("DocsURI")},
	{"Tags", func(m *Metadata, v string) { m.Tags = splitList(v) }},
	{"Requires at least", stringSetter("Requires")},
	{"Tested up to", stringSetter("Tested")},
	{"Stable tag", stringSetter("Stable")},
}

var pluginFields = []field{
	{"Plugin Name", stringSetter("Name")},
	{"Plugin URI", stringSetter("PluginURI")},
	{"Description", stringSetter("Description")},
	{"Version", stringSetter("Version")},
	{"Author", stringSetter("Author")},
	{"Author URI", stringSetter("AuthorURI")},
	{"Text Domain", stringSetter("TextDomain")},
	{"Domain Path", stringSetter("DomainPath")},
}

var themeFields = []field{
	{"Theme Name", stringSetter("Name")},
	{"Theme URI", stringSetter("ThemeURI")},
	{"Description", stringSetter("Description")},
	{"Author", stringSetter("Author")},
	{"Author URI", stringSetter("AuthorURI")},
	{"Version", stringSetter("Version")},
	{"Template", stringSetter("Template")},
	{"Tags", func(m *Metadata, v string) { m.Tags = splitList(v) }},
}

var componentFields = []field{
	{"Component", stringSetter("Component")},
	{"Name", stringSetter("Name")},
	{"Description", stringSetter("Description")},
}

var (
	patternCache   = map[string]*regexp.Regexp{}
	closingComment = regexp.MustCompile(`\s*(?:\*/|-->|\?>).*$`)
)

func init() {
	for _, set := range [][]field{readmeFields, pluginFields, themeFields, componentFields} {
		for _, f := range set {
			if _, ok := patternCache[f.label]; ok {
				continue
			}
			// Header lines may be prefixed by comment markers such as "//", "#" or " * ".
			patternCache[f.label] = regexp.MustCompile(`(?mi)^[ \t/*#@]*` + regexp.QuoteMeta(f.label) + `:(.*)$`)
		}
	}
}

// ReadmeData parses <dir(moduleFile)>/readme.txt. An unreadable file yields
// empty metadata.
func ReadmeData(moduleFile string) Metadata {
	return ReadmeFile(filepath.Join(filepath.Dir(moduleFile), "readme.txt"))
}

// ReadmeFile parses the readme at path.
func ReadmeFile(path string) Metadata {
	data, err := readHead(path)
	if err != nil {
		return Metadata{}
	}
	return parseFields(data, readmeFields)
}

// PluginHeader parses the plugin header of file.
func PluginHeader(file string) (Metadata, error) {
	data, err := readHead(file)
	if err != nil {
		return Metadata{}, err
	}
	meta := parseFields(data, pluginFields)
	meta.Title = meta.Name
	return meta, nil
}

// ThemeHeader parses the header of a theme's style.css.
func ThemeHeader(styleCSS string) (Metadata, error) {
	data, err := readHead(styleCSS)
	if err != nil {
		return Metadata{}, err
	}
	meta := parseFields(data, themeFields)
	meta.Title = meta.Name
	return meta, nil
}

// ComponentHeader parses the header of a plugin component file.
func ComponentHeader(file string) (Metadata, error) {
	data, err := readHead(file)
	if err != nil {
		return Metadata{}, err
	}
	meta := parseFields(data, componentFields)
	meta.File = filepath.Base(file)
	return meta, nil
}

func parseFields(data string, fields []field) Metadata {
	var meta Metadata
	for _, f := range fields {
		match := patternCache[f.label].FindStringSubmatch(data)
		if len(match) < 2 {
			continue
		}
		value := strings.TrimSpace(closingComment.ReplaceAllString(match[1], ""))
		f.assign(&meta, value)
	}
	return meta
}

func readHead(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, headerLimit)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.ReplaceAll(string(buf[:n]), "\r", "\n"), nil
}
