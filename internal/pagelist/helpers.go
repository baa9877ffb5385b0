package pagelist

import (
	"context"
	htmltemplate "html/template"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/google/uuid"
)

// Meta keys read by FromMeta.
const (
	MetaCategory = "pagelist_category"
	MetaTag      = "pagelist_tag"
	MetaPage     = "pagelist_page"
	MetaDepth    = "pagelist_depth"
	MetaNumber   = "pagelist_number"
	MetaTitle    = "pagelist_title"
)

// Helpers are the template functions bound to the content being rendered.
// Titles accept a string, or a bool where true shows the default title and
// false hides it.
type Helpers struct {
	svc     *Service
	current interfaces.ContentRef
}

// Helpers binds template helpers to current.
func (s *Service) Helpers(current interfaces.ContentRef) Helpers {
	return Helpers{svc: s, current: current}
}

// ShowPages lists the children of page. Titles are always linked.
func (h Helpers) ShowPages(ctx context.Context, page string, depth int, title any) (string, error) {
	return h.svc.ChildPages(ctx, ChildPagesRequest{
		Page:    page,
		Depth:   max(depth, 0),
		Title:   titleArg(title),
		Link:    true,
		Current: h.current,
	})
}

// ShowTag lists number posts tagged tag.
func (h Helpers) ShowTag(ctx context.Context, tag string, number int, title any, link bool) (string, error) {
	return h.svc.Posts(ctx, PostsRequest{
		Tag:     tag,
		Number:  max(number, 0),
		Title:   titleArg(title),
		Link:    link,
		Current: h.current,
	})
}

// ShowCategory lists number posts in category and its descendants.
func (h Helpers) ShowCategory(ctx context.Context, category string, number int, title any, link bool) (string, error) {
	return h.svc.Posts(ctx, PostsRequest{
		Category: category,
		Number:   max(number, 0),
		Title:    titleArg(title),
		Link:     link,
		Current:  h.current,
	})
}

// FromMeta renders the list configured in the current content's meta. The
// source is pagelist_category, then pagelist_tag, then pagelist_page where
// "this" names the current content. pagelist_depth ("all" for every level),
// pagelist_number and pagelist_title ("hide" to hide it) override the
// arguments. Without a source the output is empty.
func (h Helpers) FromMeta(ctx context.Context, depth, number int, title any, link bool) (string, error) {
	id, err := h.svc.resolveCurrent(ctx, h.current)
	if err != nil || id == uuid.Nil {
		return "", err
	}
	meta := func(key string) (string, error) {
		value, _, err := h.svc.content.PostMeta(ctx, id, key)
		return strings.TrimSpace(value), err
	}

	var source, ref string
	for _, key := range []string{MetaCategory, MetaTag, MetaPage} {
		value, err := meta(key)
		if err != nil {
			return "", err
		}
		if value != "" && value != "0" {
			source, ref = key, value
			break
		}
	}
	if source == "" {
		return "", nil
	}
	if source == MetaPage && strings.EqualFold(ref, "this") {
		ref = id.String()
	}

	text := titleArg(title)
	if value, err := meta(MetaDepth); err != nil {
		return "", err
	} else if value != "" && value != "0" {
		depth = 0
		if !strings.EqualFold(value, "all") {
			depth = leadingInt(value)
		}
	}
	if value, err := meta(MetaNumber); err != nil {
		return "", err
	} else if value != "" && value != "0" {
		number = leadingInt(value)
	}
	if value, err := meta(MetaTitle); err != nil {
		return "", err
	} else if value != "" && value != "0" {
		text = value
		if strings.EqualFold(value, "hide") {
			text = "0"
		}
	}

	switch source {
	case MetaCategory:
		return h.ShowCategory(ctx, ref, number, text, link)
	case MetaTag:
		return h.ShowTag(ctx, ref, number, text, link)
	default:
		return h.ShowPages(ctx, ref, depth, text)
	}
}

// FuncMap exposes the helpers to html/template as ipagelist_show_pages,
// ipagelist_show_tag, ipagelist_show_category and ipagelist.
func (h Helpers) FuncMap(ctx context.Context) htmltemplate.FuncMap {
	wrap := func(out string, err error) (htmltemplate.HTML, error) {
		return htmltemplate.HTML(out), err
	}
	return htmltemplate.FuncMap{
		"ipagelist_show_pages": func(page string, depth int, title any) (htmltemplate.HTML, error) {
			return wrap(h.ShowPages(ctx, page, depth, title))
		},
		"ipagelist_show_tag": func(tag string, number int, title any, link bool) (htmltemplate.HTML, error) {
			return wrap(h.ShowTag(ctx, tag, number, title, link))
		},
		"ipagelist_show_category": func(category string, number int, title any, link bool) (htmltemplate.HTML, error) {
			return wrap(h.ShowCategory(ctx, category, number, title, link))
		},
		"ipagelist": func(depth, number int, title any, link bool) (htmltemplate.HTML, error) {
			return wrap(h.FromMeta(ctx, depth, number, title, link))
		},
	}
}
