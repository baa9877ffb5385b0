package pagelist_test

import (
	"errors"
	"testing"

	pagelist "github.com/goliatone/go-pagelist"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := pagelist.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfigValidateMarkdownRequiresFeature(t *testing.T) {
	cfg := pagelist.DefaultConfig()
	cfg.Markdown.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, pagelist.ErrMarkdownFeatureRequired) {
		t.Fatalf("expected ErrMarkdownFeatureRequired, got %v", err)
	}
}

func TestConfigValidateBunRequiresDSN(t *testing.T) {
	cfg := pagelist.DefaultConfig()
	cfg.Storage.Provider = "bun"
	if err := cfg.Validate(); !errors.Is(err, pagelist.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateUnknownLoggingProvider(t *testing.T) {
	cfg := pagelist.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, pagelist.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateURLKitRequiresRoutes(t *testing.T) {
	cfg := pagelist.DefaultConfig()
	cfg.Permalinks.Resolver = "urlkit"
	if err := cfg.Validate(); !errors.Is(err, pagelist.ErrPermalinkRoutesRequired) {
		t.Fatalf("expected ErrPermalinkRoutesRequired, got %v", err)
	}
}
