package module

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-pagelist/internal/readme"
)

// VersionOption is the option name recording the installed version of id.
func VersionOption(id string) string {
	return id + "_version"
}

func (m *Module) loadModuleData(ctx context.Context) error {
	switch {
	case m.IsPlugin():
		m.loadPluginData()
	case m.IsComponent():
		if err := m.loadComponentData(); err != nil {
			return err
		}
	default:
		m.loadThemeData()
	}

	if m.optionKey == "" {
		m.optionKey = m.ID
	}
	var defaults map[string]any
	if d, ok := m.ext.(DefaultOptioner); ok {
		defaults = d.DefaultOptions()
	}
	if err := m.settings.SetDefaults(ctx, m.optionKey, defaults); err != nil {
		return fmt.Errorf("module %s: defaults: %w", m.ID, err)
	}

	if m.IsComponent() {
		m.readComponentVersion()
		return nil
	}

	stored, ok, err := m.settings.Store().Get(ctx, VersionOption(m.ID))
	if err != nil {
		return fmt.Errorf("module %s: read version: %w", m.ID, err)
	}
	if !ok {
		m.Installing = true
		return nil
	}
	m.storedVersion = fmt.Sprint(stored)
	if CompareVersions(m.storedVersion, m.Data.Version) != 0 {
		m.NeedsUpdate = true
	}
	return nil
}

// loadPluginData merges readme.txt, README.md front matter and the plugin
// header, the header winning.
func (m *Module) loadPluginData() {
	header, err := readme.PluginHeader(m.File)
	if err != nil {
		m.logger.Debug("module.plugin_header.unreadable", "file", m.File, "error", err)
	}
	front, err := readme.FrontMatterData(m.File)
	if err != nil {
		m.logger.Debug("module.front_matter.invalid", "file", m.File, "error", err)
	}
	m.Data = readme.Merge(readme.ReadmeData(m.File), front, header)
}

// loadThemeData reads the parent theme and switches to a child theme when the
// stylesheet directory differs from the template directory.
func (m *Module) loadThemeData() {
	templateDir := m.host.TemplateDir()
	stylesheetDir := m.host.StylesheetDir()

	parentReadme := readme.ReadmeFile(filepath.Join(templateDir, "readme.txt"))
	header, err := readme.ThemeHeader(filepath.Join(templateDir, "style.css"))
	if err != nil {
		m.logger.Debug("module.theme_header.unreadable", "dir", templateDir, "error", err)
	}
	m.Data = readme.Merge(parentReadme, readme.ThemeManifestData(templateDir), header)

	if filepath.Clean(templateDir) == filepath.Clean(stylesheetDir) {
		return
	}
	m.Kind = KindChildTheme
	childHeader, err := readme.ThemeHeader(filepath.Join(stylesheetDir, "style.css"))
	if err != nil {
		m.logger.Debug("module.child_header.unreadable", "dir", stylesheetDir, "error", err)
	}
	childReadme := readme.ReadmeFile(filepath.Join(stylesheetDir, "readme.txt"))
	m.ChildData = readme.Merge(parentReadme, childReadme, childHeader)
}

// loadComponentData takes the id from the component header and scopes the
// option blob under the parent plugin.
func (m *Module) loadComponentData() error {
	if m.parent == "" {
		return ErrParentRequired
	}
	header, err := readme.ComponentHeader(m.File)
	if err != nil {
		return fmt.Errorf("module: component header: %w", err)
	}
	component := strings.TrimSpace(header.Component)
	if component == "" {
		return fmt.Errorf("%w: %s", ErrComponentID, m.File)
	}
	m.Data = header
	m.ID = component
	m.optionKey = m.parent + "_" + component
	return nil
}

func (m *Module) readComponentVersion() {
	stored := m.settings.Get(m.optionKey, "version", nil)
	if stored == nil {
		m.Installing = true
		return
	}
	m.storedVersion = fmt.Sprint(stored)
	want := m.parentVersion
	if want == "" {
		want = m.Data.Version
	}
	if CompareVersions(m.storedVersion, want) != 0 {
		m.NeedsUpdate = true
	}
}
