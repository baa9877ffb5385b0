package module

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-pagelist/internal/hooks"
)

const frameworkAdminHandle = "ak_framework_admin"

// AdminStyles queues the framework admin sheet and the module's admin.css.
// The module sheet is looked up in the child theme, then the theme, then the
// module directory.
func (m *Module) AdminStyles(ctx context.Context) error {
	if m.styles == nil {
		return nil
	}
	frameworkURL := ""
	if base := m.host.FrameworkStylesURL(); base != "" {
		frameworkURL = joinURL(base, "admin.css")
	}
	if url := hooks.FilterString(ctx, m.hooks, "ak_framework_style_admin", frameworkURL); url != "" {
		version, err := m.frameworkVersion(ctx)
		if err != nil {
			return err
		}
		m.styles.Register(frameworkAdminHandle, url, nil, version)
		m.styles.Enqueue(frameworkAdminHandle)
	}

	url := ""
	switch {
	case m.IsChildTheme() && fileExists(filepath.Join(m.host.StylesheetDir(), "admin.css")):
		url = joinURL(m.host.StylesheetURL(), "admin.css")
	case m.IsTheme() && fileExists(filepath.Join(m.host.TemplateDir(), "admin.css")):
		url = joinURL(m.host.TemplateURL(), "admin.css")
	case fileExists(filepath.Join(filepath.Dir(m.File), "admin.css")):
		url = joinURL(m.BaseURL, "admin.css")
	}
	url = hooks.FilterString(ctx, m.hooks, "ak_"+m.ID+"_style_admin", url)
	if url != "" {
		handle := "ak_" + m.ID + "_admin"
		m.styles.Register(handle, url, []string{frameworkAdminHandle}, m.Data.Version)
		m.styles.Enqueue(handle)
	}
	return nil
}

// EnqueueStyles queues the module's public style.css. Themes and modules
// with disable-module-styles set are skipped.
func (m *Module) EnqueueStyles(ctx context.Context) error {
	if m.styles == nil || m.IsTheme() || hooks.Truthy(m.Option(OptionDisableModuleStyles, false)) {
		return nil
	}
	url := ""
	if fileExists(filepath.Join(filepath.Dir(m.File), "style.css")) {
		url = joinURL(m.BaseURL, "style.css")
	}
	url = hooks.FilterString(ctx, m.hooks, "ak_"+m.ID+"_style_url", url)
	if url != "" {
		handle := "ak_" + m.ID
		m.styles.Register(handle, url, nil, m.Data.Version)
		m.styles.Enqueue(handle)
	}
	return nil
}

func (m *Module) frameworkVersion(ctx context.Context) (string, error) {
	value, ok, err := m.settings.Store().Get(ctx, FrameworkVersionOption)
	if err != nil {
		return "", fmt.Errorf("module %s: framework version: %w", m.ID, err)
	}
	if !ok || value == nil {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
