package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("pagelist.shortcode")
	logger = logging.WithFields(logger, map[string]any{"module": "pagelist.shortcode"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"request_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	pageID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("shortcode.rendered", "page_id", pageID, "title", "Related Posts")

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO shortcode.rendered logger=pagelist.shortcode module=pagelist.shortcode page_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 request_id=req-1234 title="Related Posts"`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("pagelist.test")
	logger.Debug("ignored.debug")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info foo=bar") {
		t.Fatalf("expected info entry, got %s", lines[0])
	}
}

func TestConsoleLogger_UnpairedArgument(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Warn("odd", "key", 1, "dangling")

	if !strings.Contains(buf.String(), "field_2=dangling") {
		t.Fatalf("expected positional field, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", input, got, ok)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
