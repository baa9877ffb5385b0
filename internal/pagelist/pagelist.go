// Package pagelist renders inline lists of child pages and of posts filtered
// by category or tag, through the ipagelist shortcode, the deprecated bracket
// tags and template helpers.
package pagelist

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	// ID is the plugin identifier and text domain.
	ID = "pagelist"
	// ShortcodeName is the tag handled by the shortcode processor.
	ShortcodeName = "ipagelist"

	FilterPageSortColumn = "ak_pagelist_page_sort_column"
	FilterPageOrder      = "ak_pagelist_page_order"
	FilterPostOrder      = "ak_pagelist_post_order"
	FilterPostOrderBy    = "ak_pagelist_post_orderby"

	DefaultPageSortColumn = "menu_order, post_title"
	DefaultPageOrder      = "ASC"
	DefaultPostOrder      = "DESC"
	DefaultPostOrderBy    = "date"

	// RelatedPostsTitle is the translated fallback title for post lists.
	RelatedPostsTitle = "Related Posts"

	statusPublish = "publish"
	wrapperOpen   = `<div id="inline_pagelist">`
	wrapperClose  = `</div>`
)

var (
	ErrContentRequired   = errors.New("pagelist: content query is required")
	ErrPermalinkRequired = errors.New("pagelist: permalink resolver is required")
)

// Config holds list defaults and archive bases.
type Config struct {
	CategoryBase  string
	TagBase       string
	DefaultNumber int
	DefaultDepth  int
	LegacyTags    bool
	CacheTTL      time.Duration
}

// DefaultConfig mirrors the shortcode attribute defaults.
func DefaultConfig() Config {
	return Config{
		CategoryBase:  "category",
		TagBase:       "tag",
		DefaultNumber: 5,
		LegacyTags:    true,
	}
}

// Service renders page and post lists.
type Service struct {
	content    interfaces.ContentQuery
	links      interfaces.PermalinkResolver
	hooks      interfaces.HookDispatcher
	translator interfaces.Translator
	domain     string
	logger     interfaces.Logger
	cfg        Config
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

func WithHooks(d interfaces.HookDispatcher) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.hooks = d
		}
	}
}

// WithTranslator sets the translator and text domain used for default titles.
func WithTranslator(t interfaces.Translator, domain string) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.translator = t
		}
		if strings.TrimSpace(domain) != "" {
			s.domain = domain
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithConfig(cfg Config) ServiceOption {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// NewService builds the list renderer.
func NewService(query interfaces.ContentQuery, links interfaces.PermalinkResolver, opts ...ServiceOption) (*Service, error) {
	if query == nil {
		return nil, ErrContentRequired
	}
	if links == nil {
		return nil, ErrPermalinkRequired
	}
	s := &Service{
		content:    query,
		links:      links,
		hooks:      hooks.NewDispatcher(),
		translator: i18n.NoOp(),
		domain:     ID,
		logger:     logging.NoOp(),
		cfg:        DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cfg.DefaultNumber <= 0 {
		s.cfg.DefaultNumber = DefaultConfig().DefaultNumber
	}
	return s, nil
}

// Config returns the active defaults.
func (s *Service) Config() Config {
	return s.cfg
}

// resolveCurrent returns the id of the content being rendered. A slug-only
// reference is looked up as a page, then as a post.
func (s *Service) resolveCurrent(ctx context.Context, ref interfaces.ContentRef) (uuid.UUID, error) {
	if ref.ID != uuid.Nil || ref.Slug == "" {
		return ref.ID, nil
	}
	page, err := s.content.Page(ctx, ref.Slug)
	if err == nil {
		return page.ID, nil
	}
	if !content.IsNotFound(err) {
		return uuid.Nil, err
	}
	post, err := s.content.Post(ctx, ref.Slug)
	if err == nil {
		return post.ID, nil
	}
	if content.IsNotFound(err) {
		return uuid.Nil, nil
	}
	return uuid.Nil, err
}

func (s *Service) translate(key string) string {
	return s.translator.Translate(s.domain, key)
}

func titleBlock(title, link string) string {
	if link == "" {
		return "<p><strong>" + title + "</strong></p>"
	}
	return "<p><a href='" + html.EscapeString(link) + "'><strong>" + title + "</strong></a></p>"
}

// isUnset reports whether a page or category reference means "none".
func isUnset(ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref == "" || ref == "0"
}

// leadingInt parses the leading digits of value, returning 0 when there are none.
func leadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

// titleArg maps template helper titles: true shows the default title, false hides it.
func titleArg(title any) string {
	switch v := title.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return ""
		}
		return "0"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
