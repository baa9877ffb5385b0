package pagelist

import (
	"context"
	"html/template"
	"regexp"
	"strings"

	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/google/uuid"
)

// BypassMeta disables the bracket tags for the content that carries it.
const BypassMeta = "pagelist_bypass"

var (
	legacyPagesPattern    = regexp.MustCompile(`\[pagelist (.+)\]`)
	legacyTagsPattern     = regexp.MustCompile(`\[taglist (.+)\]`)
	legacyCategoryPattern = regexp.MustCompile(`\[catlist (.+)\]`)
)

// Definition describes the ipagelist shortcode. Unknown attributes are ignored
// and the handler output is already escaped.
func (s *Service) Definition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:          ShortcodeName,
		Version:       "2.0",
		Description:   "Inline list of child pages, or of posts by category or tag",
		Category:      "content",
		Icon:          "list",
		CacheTTL:      s.cfg.CacheTTL,
		IgnoreUnknown: true,
		Trusted:       true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{Name: "cat", Type: interfaces.ShortcodeParamString, Default: "0"},
				{Name: "page", Type: interfaces.ShortcodeParamString, Default: "0"},
				{Name: "tag", Type: interfaces.ShortcodeParamString, Default: ""},
				{Name: "depth", Type: interfaces.ShortcodeParamInt, Default: s.cfg.DefaultDepth},
				{Name: "title", Type: interfaces.ShortcodeParamString, Default: ""},
				{Name: "num", Type: interfaces.ShortcodeParamInt, Default: s.cfg.DefaultNumber},
				{Name: "link", Type: interfaces.ShortcodeParamString, Default: "1"},
			},
		},
		Handler: s.handleShortcode,
	}
}

func (s *Service) handleShortcode(sc interfaces.ShortcodeContext, params map[string]any, _ string) (template.HTML, error) {
	ctx := sc.Context
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := s.Shortcode(ctx, Attributes{
		Category: stringParam(params, "cat"),
		Page:     stringParam(params, "page"),
		Tag:      stringParam(params, "tag"),
		Depth:    intParam(params, "depth"),
		Title:    stringParam(params, "title"),
		Number:   intParam(params, "num"),
		Link:     boolParam(params, "link", true),
	}, sc.Current)
	return template.HTML(out), err
}

// Attributes are the resolved ipagelist attributes.
type Attributes struct {
	Category string
	Page     string
	Tag      string
	Depth    int
	Title    string
	Number   int
	Link     bool
}

// Shortcode renders one ipagelist invocation. A page reference wins over a
// category, which wins over a tag. With none set the output is empty.
// Negative depth and number are treated as zero.
func (s *Service) Shortcode(ctx context.Context, attrs Attributes, current interfaces.ContentRef) (string, error) {
	attrs.Depth = max(attrs.Depth, 0)
	attrs.Number = max(attrs.Number, 0)
	switch {
	case !isUnset(attrs.Page):
		return s.ChildPages(ctx, ChildPagesRequest{
			Page:    attrs.Page,
			Depth:   attrs.Depth,
			Title:   attrs.Title,
			Link:    attrs.Link,
			Current: current,
		})
	case !isUnset(attrs.Category):
		return s.Posts(ctx, PostsRequest{
			Category: attrs.Category,
			Number:   attrs.Number,
			Title:    attrs.Title,
			Link:     attrs.Link,
			Current:  current,
		})
	case strings.TrimSpace(attrs.Tag) != "":
		return s.Posts(ctx, PostsRequest{
			Tag:     attrs.Tag,
			Number:  attrs.Number,
			Title:   attrs.Title,
			Link:    attrs.Link,
			Current: current,
		})
	default:
		return "", nil
	}
}

// ContentFilter expands the deprecated [pagelist], [taglist] and [catlist]
// tags. Content whose pagelist_bypass meta is set is returned unchanged.
func (s *Service) ContentFilter(ctx context.Context, body string, current interfaces.ContentRef) (string, error) {
	if !s.cfg.LegacyTags || !strings.Contains(body, "[") {
		return body, nil
	}
	currentID, err := s.resolveCurrent(ctx, current)
	if err != nil {
		return "", err
	}
	if currentID != uuid.Nil {
		value, ok, err := s.content.PostMeta(ctx, currentID, BypassMeta)
		if err != nil {
			return "", err
		}
		if ok && hooks.Truthy(value) {
			return body, nil
		}
	}

	// A page id of 0 is unset like ipagelist page="0", so [pagelist 0] renders
	// nothing instead of every top-level page.
	body, err = replaceAll(legacyPagesPattern, body, func(args []string) (string, error) {
		return s.ChildPages(ctx, ChildPagesRequest{
			Page:    strings.TrimSpace(args[0]),
			Depth:   max(legacyArg(args, 1, leadingInt), 0),
			Title:   legacyArg(args, 2, strings.TrimSpace),
			Link:    true,
			Current: current,
		})
	})
	if err != nil {
		return "", err
	}
	body, err = replaceAll(legacyTagsPattern, body, func(args []string) (string, error) {
		return s.Posts(ctx, PostsRequest{
			Tag:     strings.TrimSpace(args[0]),
			Number:  legacyNumber(args),
			Title:   legacyArg(args, 2, strings.TrimSpace),
			Link:    true,
			Current: current,
		})
	})
	if err != nil {
		return "", err
	}
	return replaceAll(legacyCategoryPattern, body, func(args []string) (string, error) {
		return s.Posts(ctx, PostsRequest{
			Category: strings.TrimSpace(args[0]),
			Number:   legacyNumber(args),
			Title:    legacyArg(args, 2, strings.TrimSpace),
			Link:     true,
			Current:  current,
		})
	})
}

// replaceAll runs fn for every match with the comma separated arguments of
// the first group.
func replaceAll(pattern *regexp.Regexp, body string, fn func(args []string) (string, error)) (string, error) {
	matches := pattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(body[last:m[0]])
		out, err := fn(strings.Split(body[m[2]:m[3]], ","))
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String(), nil
}

func legacyArg[T any](args []string, idx int, parse func(string) T) T {
	if idx < len(args) {
		return parse(args[idx])
	}
	var zero T
	return zero
}

// legacyNumber is the second argument, or 5 when missing, empty or zero.
func legacyNumber(args []string) int {
	if n := legacyArg(args, 1, leadingInt); n > 0 {
		return n
	}
	return DefaultConfig().DefaultNumber
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case string:
		return leadingInt(v)
	default:
		return 0
	}
}

func boolParam(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	return hooks.Truthy(v)
}
