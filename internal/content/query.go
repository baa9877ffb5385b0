package content

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// maxAncestors bounds parent walks so corrupt data cannot loop forever.
const maxAncestors = 64

// QueryOption configures a Query.
type QueryOption func(*Query)

// WithQueryLogger sets the logger used for lookup diagnostics.
func WithQueryLogger(logger interfaces.Logger) QueryOption {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// Query implements interfaces.ContentQuery over the repositories.
type Query struct {
	repos  Repositories
	logger interfaces.Logger
}

var _ interfaces.ContentQuery = (*Query)(nil)

// NewQuery builds the read service.
func NewQuery(repos Repositories, opts ...QueryOption) *Query {
	q := &Query{repos: repos, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Repositories exposes the underlying stores for seeding.
func (q *Query) Repositories() Repositories {
	return q.repos
}

func (q *Query) Page(ctx context.Context, ref string) (*interfaces.PageRecord, error) {
	page, err := q.resolvePage(ctx, ref)
	if err != nil {
		return nil, err
	}
	return q.pageRecord(ctx, page)
}

func (q *Query) resolvePage(ctx context.Context, ref string) (*Page, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrRefRequired
	}
	if id, err := uuid.Parse(ref); err == nil {
		return q.repos.Pages.GetByID(ctx, id)
	}
	return q.repos.Pages.GetBySlug(ctx, ref)
}

func (q *Query) pageRecord(ctx context.Context, page *Page) (*interfaces.PageRecord, error) {
	path, err := q.pagePath(ctx, page)
	if err != nil {
		return nil, err
	}
	return &interfaces.PageRecord{
		ID:        page.ID,
		ParentID:  page.ParentID,
		Slug:      page.Slug,
		Path:      path,
		Title:     page.Title,
		MenuOrder: page.MenuOrder,
		Status:    page.Status,
	}, nil
}

// pagePath joins ancestor slugs into /parent/child.
func (q *Query) pagePath(ctx context.Context, page *Page) (string, error) {
	segments := []string{page.Slug}
	seen := map[uuid.UUID]struct{}{page.ID: {}}
	parent := page.ParentID
	for parent != nil && *parent != uuid.Nil {
		if _, loop := seen[*parent]; loop || len(seen) > maxAncestors {
			return "", fmt.Errorf("%w: page %s", ErrParentCycle, page.Slug)
		}
		seen[*parent] = struct{}{}
		ancestor, err := q.repos.Pages.GetByID(ctx, *parent)
		if err != nil {
			if IsNotFound(err) {
				return "", fmt.Errorf("%w: %s", ErrParentNotFound, parent.String())
			}
			return "", err
		}
		segments = append(segments, ancestor.Slug)
		parent = ancestor.ParentID
	}
	slices.Reverse(segments)
	return "/" + strings.Join(segments, "/"), nil
}

func (q *Query) PageTree(ctx context.Context, parentID uuid.UUID, opts interfaces.PageTreeOptions) ([]*interfaces.PageNode, error) {
	parent, err := q.repos.Pages.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	parentPath, err := q.pagePath(ctx, parent)
	if err != nil {
		return nil, err
	}
	compare, err := pageComparator(opts.SortColumns, opts.SortOrder)
	if err != nil {
		return nil, err
	}
	return q.children(ctx, parentID, parentPath, opts, compare, 1, map[uuid.UUID]struct{}{parentID: {}})
}

func (q *Query) children(ctx context.Context, parentID uuid.UUID, parentPath string, opts interfaces.PageTreeOptions, compare func(a, b *Page) int, level int, seen map[uuid.UUID]struct{}) ([]*interfaces.PageNode, error) {
	pages, err := q.repos.Pages.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	pages = slices.DeleteFunc(pages, func(p *Page) bool {
		return opts.Status != "" && p.Status != opts.Status
	})
	slices.SortStableFunc(pages, compare)

	nodes := make([]*interfaces.PageNode, 0, len(pages))
	for _, page := range pages {
		if _, loop := seen[page.ID]; loop {
			q.logger.Warn("content.page_tree.cycle", "page_id", page.ID.String())
			continue
		}
		seen[page.ID] = struct{}{}
		path := strings.TrimSuffix(parentPath, "/") + "/" + page.Slug
		node := &interfaces.PageNode{Page: &interfaces.PageRecord{
			ID:        page.ID,
			ParentID:  page.ParentID,
			Slug:      page.Slug,
			Path:      path,
			Title:     page.Title,
			MenuOrder: page.MenuOrder,
			Status:    page.Status,
		}}
		if opts.Depth <= 0 || level < opts.Depth {
			kids, err := q.children(ctx, page.ID, path, opts, compare, level+1, seen)
			if err != nil {
				return nil, err
			}
			node.Children = kids
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// pageComparator maps list sort columns onto page fields.
func pageComparator(columns []string, order string) (func(a, b *Page) int, error) {
	desc, err := parseOrder(order, "ASC")
	if err != nil {
		return nil, err
	}
	var keys []func(a, b *Page) int
	for _, column := range columns {
		switch strings.ToLower(strings.TrimSpace(column)) {
		case "":
		case "menu_order":
			keys = append(keys, func(a, b *Page) int { return cmp.Compare(a.MenuOrder, b.MenuOrder) })
		case "post_title", "title":
			keys = append(keys, func(a, b *Page) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) })
		case "post_name", "name", "slug":
			keys = append(keys, func(a, b *Page) int { return strings.Compare(a.Slug, b.Slug) })
		case "post_date", "date", "created_at":
			keys = append(keys, func(a, b *Page) int { return a.CreatedAt.Compare(b.CreatedAt) })
		case "post_modified", "modified", "updated_at":
			keys = append(keys, func(a, b *Page) int { return a.UpdatedAt.Compare(b.UpdatedAt) })
		case "id":
			keys = append(keys, func(a, b *Page) int { return strings.Compare(a.ID.String(), b.ID.String()) })
		default:
			return nil, fmt.Errorf("%w: sort column %q", ErrInvalidOrder, column)
		}
	}
	return func(a, b *Page) int {
		for _, key := range keys {
			if c := key(a, b); c != 0 {
				if desc {
					return -c
				}
				return c
			}
		}
		return 0
	}, nil
}

func parseOrder(order, fallback string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(cmp.Or(order, fallback))) {
	case "ASC":
		return false, nil
	case "DESC":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
}

func (q *Query) Category(ctx context.Context, ref string) (*interfaces.CategoryRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrRefRequired
	}
	if id, err := uuid.Parse(ref); err == nil {
		return q.CategoryByID(ctx, id)
	}
	cat, err := q.repos.Taxonomies.GetCategoryBySlug(ctx, ref)
	if err != nil {
		return nil, err
	}
	return categoryRecord(cat), nil
}

func (q *Query) CategoryByID(ctx context.Context, id uuid.UUID) (*interfaces.CategoryRecord, error) {
	cat, err := q.repos.Taxonomies.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return categoryRecord(cat), nil
}

func categoryRecord(cat *Category) *interfaces.CategoryRecord {
	return &interfaces.CategoryRecord{
		ID:       cat.ID,
		ParentID: cat.ParentID,
		Slug:     cat.Slug,
		Name:     cat.Name,
	}
}

func (q *Query) Posts(ctx context.Context, query interfaces.PostQuery) ([]*interfaces.PostRecord, error) {
	desc, err := parseOrder(query.Order, "DESC")
	if err != nil {
		return nil, err
	}
	orderBy, err := postSortKey(query.OrderBy)
	if err != nil {
		return nil, err
	}

	filter := PostFilter{
		Status:  query.Status,
		Exclude: query.Exclude,
		OrderBy: orderBy,
		Desc:    desc,
		Limit:   max(query.Limit, 0),
	}
	if query.CategoryID != nil {
		ids, err := q.categoryScope(ctx, *query.CategoryID, query.IncludeChildren)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}
	if tag := strings.TrimSpace(query.Tag); tag != "" {
		normalized, err := slug.Normalize(tag)
		if err != nil || normalized == "" {
			normalized = strings.ToLower(tag)
		}
		found, err := q.repos.Taxonomies.GetTagBySlug(ctx, normalized)
		if err != nil {
			if IsNotFound(err) {
				q.logger.Debug("content.posts.unknown_tag", "tag", tag)
				return nil, nil
			}
			return nil, err
		}
		filter.TagID = &found.ID
	}

	posts, err := q.repos.Posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*interfaces.PostRecord, 0, len(posts))
	for _, post := range posts {
		out = append(out, postRecord(post))
	}
	return out, nil
}

func (q *Query) Post(ctx context.Context, ref string) (*interfaces.PostRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrRefRequired
	}
	var (
		post *Post
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		post, err = q.repos.Posts.GetByID(ctx, id)
	} else {
		post, err = q.repos.Posts.GetBySlug(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return postRecord(post), nil
}

func postRecord(post *Post) *interfaces.PostRecord {
	return &interfaces.PostRecord{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Status:      post.Status,
		PublishedAt: postDate(post),
		UpdatedAt:   post.UpdatedAt,
	}
}

// categoryScope returns the category plus, when requested, every descendant.
func (q *Query) categoryScope(ctx context.Context, root uuid.UUID, descendants bool) ([]uuid.UUID, error) {
	if _, err := q.repos.Taxonomies.GetCategoryByID(ctx, root); err != nil {
		return nil, err
	}
	ids := []uuid.UUID{root}
	if !descendants {
		return ids, nil
	}
	seen := map[uuid.UUID]struct{}{root: {}}
	for i := 0; i < len(ids); i++ {
		children, err := q.repos.Taxonomies.ListCategoryChildren(ctx, ids[i])
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			ids = append(ids, child.ID)
		}
	}
	return ids, nil
}

// postSortKey maps the accepted orderby spellings onto a PostSort* key.
func postSortKey(orderBy string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "", "date", "post_date":
		return PostSortDate, nil
	case "title", "post_title":
		return PostSortTitle, nil
	case "name", "post_name", "slug":
		return PostSortSlug, nil
	case "modified", "post_modified":
		return PostSortModified, nil
	case "id":
		return PostSortID, nil
	default:
		return "", fmt.Errorf("%w: orderby %q", ErrInvalidOrder, orderBy)
	}
}

// postComparator orders posts by key, ascending. Ties fall back to the date
// and then the id so results are stable across stores.
func postComparator(key string) func(a, b *Post) int {
	byDate := func(a, b *Post) int { return postDate(a).Compare(postDate(b)) }
	byID := func(a, b *Post) int { return strings.Compare(a.ID.String(), b.ID.String()) }
	switch key {
	case PostSortTitle:
		return func(a, b *Post) int {
			return cmp.Or(strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)), byDate(a, b), byID(a, b))
		}
	case PostSortSlug:
		return func(a, b *Post) int { return cmp.Or(strings.Compare(a.Slug, b.Slug), byID(a, b)) }
	case PostSortModified:
		return func(a, b *Post) int {
			return cmp.Or(a.UpdatedAt.Compare(b.UpdatedAt), byDate(a, b), byID(a, b))
		}
	case PostSortID:
		return byID
	default:
		return func(a, b *Post) int { return cmp.Or(byDate(a, b), byID(a, b)) }
	}
}

func postDate(post *Post) time.Time {
	if !post.PublishedAt.IsZero() {
		return post.PublishedAt
	}
	return post.CreatedAt
}

func (q *Query) PostMeta(ctx context.Context, contentID uuid.UUID, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrMetaKeyRequired
	}
	if contentID == uuid.Nil {
		return "", false, nil
	}
	value, ok, err := q.repos.Meta.Get(ctx, contentID, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", false, err
	}
	return value, ok, nil
}
