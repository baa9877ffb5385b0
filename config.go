package pagelist

import "github.com/goliatone/go-pagelist/internal/runtimeconfig"

var (
	ErrSiteURLInvalid            = runtimeconfig.ErrSiteURLInvalid
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrCacheTTLInvalid           = runtimeconfig.ErrCacheTTLInvalid
	ErrCacheCapacityInvalid      = runtimeconfig.ErrCacheCapacityInvalid
	ErrListNumberInvalid         = runtimeconfig.ErrListNumberInvalid
	ErrListDepthInvalid          = runtimeconfig.ErrListDepthInvalid
	ErrPermalinkResolverUnknown  = runtimeconfig.ErrPermalinkResolverUnknown
	ErrPermalinkRoutesRequired   = runtimeconfig.ErrPermalinkRoutesRequired
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrMarkdownFeatureRequired   = runtimeconfig.ErrMarkdownFeatureRequired
	ErrShortcodeFeatureRequired  = runtimeconfig.ErrShortcodeFeatureRequired
	ErrTranslationLocaleRequired = runtimeconfig.ErrTranslationLocaleRequired
)

type (
	Config          = runtimeconfig.Config
	HostConfig      = runtimeconfig.HostConfig
	I18NConfig      = runtimeconfig.I18NConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	OptionsConfig   = runtimeconfig.OptionsConfig
	PageListConfig  = runtimeconfig.PageListConfig
	PermalinkConfig = runtimeconfig.PermalinkConfig
	ShortcodeConfig = runtimeconfig.ShortcodeConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
