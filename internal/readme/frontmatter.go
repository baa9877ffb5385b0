package readme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	gotheme "github.com/goliatone/go-theme"
)

type frontMatterEnvelope struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Version      string   `yaml:"version"`
	Author       string   `yaml:"author"`
	Contributors []string `yaml:"contributors"`
	Tags         []string `yaml:"tags"`
	DonateLink   string   `yaml:"donate_link"`
	HelpLink     string   `yaml:"help_link"`
	DocsLink     string   `yaml:"docs_link"`
	Requires     string   `yaml:"requires"`
	Tested       string   `yaml:"tested"`
	Stable       string   `yaml:"stable"`
}

// FrontMatterData reads the YAML front matter of <dir(moduleFile)>/README.md.
// A missing file yields empty metadata.
func FrontMatterData(moduleFile string) (Metadata, error) {
	path := filepath.Join(filepath.Dir(moduleFile), "README.md")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, nil
		}
		return Metadata{}, fmt.Errorf("readme: read %s: %w", path, err)
	}

	var env frontMatterEnvelope
	if _, err := frontmatter.Parse(bytes.NewReader(raw), &env); err != nil {
		return Metadata{}, fmt.Errorf("readme: parse front matter: %w", err)
	}
	return Metadata{
		Name:         strings.TrimSpace(env.Name),
		Description:  strings.TrimSpace(env.Description),
		Version:      strings.TrimSpace(env.Version),
		Author:       strings.TrimSpace(env.Author),
		Contributors: trimAll(env.Contributors),
		Tags:         trimAll(env.Tags),
		DonateURI:    strings.TrimSpace(env.DonateLink),
		HelpURI:      strings.TrimSpace(env.HelpLink),
		DocsURI:      strings.TrimSpace(env.DocsLink),
		Requires:     strings.TrimSpace(env.Requires),
		Tested:       strings.TrimSpace(env.Tested),
		Stable:       strings.TrimSpace(env.Stable),
	}, nil
}

// ThemeManifestData loads a go-theme manifest from dir when one is present.
// Only the name and version are carried over; a missing manifest yields
// empty metadata.
func ThemeManifestData(dir string) Metadata {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Metadata{}
	}
	manifest, err := gotheme.LoadDir(os.DirFS(dir), ".")
	if err != nil || manifest == nil {
		return Metadata{}
	}
	return Metadata{
		Name:    strings.TrimSpace(manifest.Name),
		Version: strings.TrimSpace(manifest.Version),
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
