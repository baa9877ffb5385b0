package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// ErrNilDocument is returned when RenderDocument receives no document.
var ErrNilDocument = errors.New("markdown service: document is nil")

// Config controls where documents are read from and how they are parsed.
type Config struct {
	BasePath string
	Parser   interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	fs     fs.FS
}

var _ interfaces.MarkdownService = (*Service)(nil)

// NewService constructs a Markdown service rooted at cfg.BasePath. When parser
// is nil, a Goldmark parser with the configured default options is created.
func NewService(cfg Config, parser interfaces.MarkdownParser) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	return &Service{
		cfg:    cfg,
		parser: parser,
		fs:     filesystem,
	}, nil
}

// Load reads a single document relative to the base path and renders its body.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel := s.normalisePath(path)
	data, err := fs.ReadFile(s.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown service: read %s: %w", rel, err)
	}
	info, err := fs.Stat(s.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown service: %s: %w", rel, err)
	}
	if _, err := s.RenderDocument(ctx, doc, interfaces.ParseOptions{}); err != nil {
		return nil, err
	}
	return doc, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document's Markdown body into HTML using the configured parser.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) {
		base := s.cfg.BasePath
		if strings.TrimSpace(base) == "" {
			base = "."
		}
		if absBase, err := filepath.Abs(base); err == nil {
			if rel, err := filepath.Rel(absBase, clean); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
