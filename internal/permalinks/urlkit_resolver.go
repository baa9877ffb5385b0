package permalinks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager   *urlkit.RouteManager
	Group     string
	PageRoute string
	PostRoute string
	SlugParam string
	// SiteURL roots archive links, which are not modelled as routes.
	SiteURL string
}

// URLKitResolver builds page and post URLs from named go-urlkit routes.
type URLKitResolver struct {
	manager   *urlkit.RouteManager
	group     string
	pageRoute string
	postRoute string
	slugParam string
	siteURL   string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

var _ interfaces.PermalinkResolver = (*URLKitResolver)(nil)

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.PageRoute == "" {
		opts.PageRoute = "page"
	}
	if opts.PostRoute == "" {
		opts.PostRoute = "post"
	}
	return &URLKitResolver{
		manager:    opts.Manager,
		group:      strings.TrimSpace(opts.Group),
		pageRoute:  strings.TrimSpace(opts.PageRoute),
		postRoute:  strings.TrimSpace(opts.PostRoute),
		slugParam:  opts.SlugParam,
		siteURL:    strings.TrimRight(strings.TrimSpace(opts.SiteURL), "/"),
		groupCache: make(map[string]*urlkit.Group),
	}
}

// NewURLKitResolverFromConfig builds the route manager from cfg.
func NewURLKitResolverFromConfig(cfg *urlkit.Config, opts URLKitResolverOptions) *URLKitResolver {
	if cfg != nil && opts.Manager == nil {
		opts.Manager = urlkit.NewRouteManager(cfg)
	}
	return NewURLKitResolver(opts)
}

func (r *URLKitResolver) Page(_ context.Context, page *interfaces.PageRecord) (string, error) {
	if page == nil {
		return "", ErrNilRecord
	}
	return r.build(r.pageRoute, page.Slug)
}

func (r *URLKitResolver) Post(_ context.Context, post *interfaces.PostRecord) (string, error) {
	if post == nil {
		return "", ErrNilRecord
	}
	return r.build(r.postRoute, post.Slug)
}

func (r *URLKitResolver) Archive(_ context.Context, base string, slugs ...string) (string, error) {
	return archiveURL(r.siteURL, base, slugs...)
}

func (r *URLKitResolver) build(route, slug string) (string, error) {
	slug = cleanSegment(slug)
	if slug == "" {
		return "", ErrEmptySlug
	}
	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.slugParam, slug)
	return builder.Build()
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	if path == "" {
		return nil, fmt.Errorf("permalinks: route group not configured")
	}
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("permalinks: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("permalinks: route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("permalinks: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("permalinks: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("permalinks: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
