package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrSiteURLInvalid            = errors.New("pagelist config: site url must be absolute")
	ErrStorageProviderUnknown    = errors.New("pagelist config: storage provider is invalid")
	ErrStorageDSNRequired        = errors.New("pagelist config: storage dsn is required for the bun provider")
	ErrStorageDriverUnknown      = errors.New("pagelist config: storage driver is invalid")
	ErrCacheTTLInvalid           = errors.New("pagelist config: cache ttl must be zero or positive")
	ErrCacheCapacityInvalid      = errors.New("pagelist config: cache capacity must be positive when cache is enabled")
	ErrListNumberInvalid         = errors.New("pagelist config: default post number must be positive")
	ErrListDepthInvalid          = errors.New("pagelist config: default depth must be zero or positive")
	ErrPermalinkResolverUnknown  = errors.New("pagelist config: permalink resolver is invalid")
	ErrPermalinkRoutesRequired   = errors.New("pagelist config: urlkit resolver requires route config")
	ErrLoggingProviderRequired   = errors.New("pagelist config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("pagelist config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("pagelist config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("pagelist config: logging format is invalid")
	ErrMarkdownFeatureRequired   = errors.New("pagelist config: markdown feature must be enabled to configure the markdown stage")
	ErrShortcodeFeatureRequired  = errors.New("pagelist config: shortcodes feature must be enabled to expand wordpress syntax")
	ErrTranslationLocaleRequired = errors.New("pagelist config: translation locale is required")
)

// Config aggregates the runtime wiring for the page list plugin and its host.
type Config struct {
	SiteURL    string
	Host       HostConfig
	I18N       I18NConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Options    OptionsConfig
	PageList   PageListConfig
	Permalinks PermalinkConfig
	Shortcodes ShortcodeConfig
	Markdown   MarkdownConfig
	Features   Features
	Logging    LoggingConfig
}

// HostConfig describes the runtime directories and capabilities modules see.
type HostConfig struct {
	Version            string
	Admin              bool
	Widgets            bool
	PluginsDir         string
	PluginsURL         string
	TemplateDir        string
	TemplateURL        string
	StylesheetDir      string
	StylesheetURL      string
	FrameworkStylesURL string
}

// I18NConfig selects the active locale for text domains.
type I18NConfig struct {
	Locale string
}

// StorageConfig selects the content and option stores.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig controls the shortcode render cache.
type CacheConfig struct {
	Enabled     bool
	DefaultTTL  time.Duration
	NumCounters int64
	MaxCost     int64
}

// OptionsConfig points at administrator-forced settings.
type OptionsConfig struct {
	ForcedFile string
	SchemaFile string
}

// PageListConfig holds list defaults applied before shortcode attributes.
type PageListConfig struct {
	DefaultNumber int
	DefaultDepth  int
	LegacyTags    bool
}

// PermalinkConfig selects how content URLs are built.
type PermalinkConfig struct {
	Resolver     string
	PagePrefix   string
	PostPrefix   string
	RouteConfig  *urlkit.Config
	RouteGroup   string
	PageRoute    string
	PostRoute    string
	SlugParam    string
	CategoryBase string
	TagBase      string
}

// ShortcodeConfig toggles the shortcode processor.
type ShortcodeConfig struct {
	EnableWordPress bool
	Sanitize        bool
}

// MarkdownConfig configures the optional markdown stage of the content pipeline.
type MarkdownConfig struct {
	Enabled    bool
	Extensions []string
	HardWraps  bool
	Unsafe     bool
}

// Features toggles optional behaviour.
type Features struct {
	Shortcodes bool
	Markdown   bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns an in-memory setup with the page list defaults.
func DefaultConfig() Config {
	return Config{
		SiteURL: "http://localhost",
		Host: HostConfig{
			Version: "6.4",
			Widgets: true,
		},
		I18N: I18NConfig{
			Locale: "en_US",
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			Enabled:     true,
			DefaultTTL:  time.Minute,
			NumCounters: 10_000,
			MaxCost:     1 << 20,
		},
		PageList: PageListConfig{
			DefaultNumber: 5,
			LegacyTags:    true,
		},
		Permalinks: PermalinkConfig{
			Resolver:  "path",
			SlugParam: "slug",
		},
		Shortcodes: ShortcodeConfig{
			EnableWordPress: true,
			Sanitize:        true,
		},
		Features: Features{
			Shortcodes: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if raw := strings.TrimSpace(cfg.SiteURL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrSiteURLInvalid, raw)
		}
	}
	if strings.TrimSpace(cfg.I18N.Locale) == "" {
		return ErrTranslationLocaleRequired
	}

	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
		switch normalize(cfg.Storage.Driver) {
		case "", "sqlite", "sqlite3", "postgres":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Cache.Enabled && (cfg.Cache.NumCounters <= 0 || cfg.Cache.MaxCost <= 0) {
		return ErrCacheCapacityInvalid
	}
	if cfg.PageList.DefaultNumber <= 0 {
		return ErrListNumberInvalid
	}
	if cfg.PageList.DefaultDepth < 0 {
		return ErrListDepthInvalid
	}

	switch normalize(cfg.Permalinks.Resolver) {
	case "", "path":
	case "urlkit":
		if cfg.Permalinks.RouteConfig == nil {
			return ErrPermalinkRoutesRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrPermalinkResolverUnknown, cfg.Permalinks.Resolver)
	}

	if cfg.Markdown.Enabled && !cfg.Features.Markdown {
		return ErrMarkdownFeatureRequired
	}
	if cfg.Shortcodes.EnableWordPress && !cfg.Features.Shortcodes {
		return ErrShortcodeFeatureRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
