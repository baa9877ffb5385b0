package permalinks

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

var (
	ErrNilRecord   = errors.New("permalinks: record is nil")
	ErrEmptySlug   = errors.New("permalinks: slug is empty")
	ErrArchiveBase = errors.New("permalinks: archive base is empty")
)

// PathResolver joins the site URL with record paths.
type PathResolver struct {
	siteURL    string
	pagePrefix string
	postPrefix string
}

var _ interfaces.PermalinkResolver = (*PathResolver)(nil)

// NewPathResolver builds a resolver rooted at siteURL. Prefixes are optional.
func NewPathResolver(siteURL, pagePrefix, postPrefix string) *PathResolver {
	return &PathResolver{
		siteURL:    strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		pagePrefix: cleanSegment(pagePrefix),
		postPrefix: cleanSegment(postPrefix),
	}
}

func (r *PathResolver) Page(_ context.Context, page *interfaces.PageRecord) (string, error) {
	if page == nil {
		return "", ErrNilRecord
	}
	path := strings.Trim(page.Path, "/")
	if path == "" {
		path = cleanSegment(page.Slug)
	}
	if path == "" {
		return "", ErrEmptySlug
	}
	return r.join(r.pagePrefix, path), nil
}

func (r *PathResolver) Post(_ context.Context, post *interfaces.PostRecord) (string, error) {
	if post == nil {
		return "", ErrNilRecord
	}
	slug := cleanSegment(post.Slug)
	if slug == "" {
		return "", ErrEmptySlug
	}
	return r.join(r.postPrefix, slug), nil
}

func (r *PathResolver) Archive(_ context.Context, base string, slugs ...string) (string, error) {
	return archiveURL(r.siteURL, base, slugs...)
}

func (r *PathResolver) join(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.siteURL)
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(segment)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func archiveURL(siteURL, base string, slugs ...string) (string, error) {
	base = cleanSegment(base)
	if base == "" {
		return "", ErrArchiveBase
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(siteURL, "/"))
	b.WriteByte('/')
	b.WriteString(base)
	for _, slug := range slugs {
		slug = cleanSegment(slug)
		if slug == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(slug))
	}
	return b.String(), nil
}

func cleanSegment(value string) string {
	return strings.Trim(strings.TrimSpace(value), "/")
}
