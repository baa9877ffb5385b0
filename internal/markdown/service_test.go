package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc, err := NewService(Config{BasePath: "testdata"}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	doc, err := svc.Load(context.Background(), "basic.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.FrontMatter.Slug != "sample-document" {
		t.Fatalf("expected slug sample-document, got %s", doc.FrontMatter.Slug)
	}
	html := string(doc.BodyHTML)
	if !strings.Contains(html, "<h1") {
		t.Fatalf("expected BodyHTML to be populated, got %q", html)
	}
	if !strings.Contains(html, "[ipagelist page=&quot;docs&quot; title=&quot;Read more&quot;]") {
		t.Fatalf("expected shortcode text to pass through escaped, got %q", html)
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
}

func TestServiceLoadMissingFile(t *testing.T) {
	svc, err := NewService(Config{BasePath: "testdata"}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.Load(context.Background(), "missing.md"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestServiceRenderDocumentRequiresDocument(t *testing.T) {
	svc, err := NewService(Config{BasePath: "testdata"}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.RenderDocument(context.Background(), nil, interfaces.ParseOptions{}); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

func TestNewServiceRejectsMissingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: "testdata/nope"}, nil); err == nil {
		t.Fatalf("expected error for missing base path")
	}
}
