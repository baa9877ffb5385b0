package pagelist

import (
	"context"
	"html"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/google/uuid"
)

// PostsRequest selects published posts by category or tag. Category wins
// when both are set. Title "0" hides the heading and an empty title uses the
// translated "Related Posts".
type PostsRequest struct {
	Category string
	Tag      string
	Number   int
	Order    string
	OrderBy  string
	Title    string
	Link     bool
	Current  interfaces.ContentRef
}

func (r PostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Number, validation.Min(0)),
	)
}

// Posts renders the post list. The output is always wrapped, even when no
// posts match.
func (s *Service) Posts(ctx context.Context, req PostsRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	logger := logging.ForOperation(ctx, s.logger, "pagelist.posts", map[string]any{
		"category": req.Category,
		"tag":      req.Tag,
	})

	order := req.Order
	if strings.TrimSpace(order) == "" {
		order = DefaultPostOrder
	}
	orderBy := req.OrderBy
	if strings.TrimSpace(orderBy) == "" {
		orderBy = DefaultPostOrderBy
	}
	order = hooks.FilterString(ctx, s.hooks, FilterPostOrder, order)
	orderBy = hooks.FilterString(ctx, s.hooks, FilterPostOrderBy, orderBy)

	number := req.Number
	if number <= 0 {
		number = s.cfg.DefaultNumber
	}

	currentID, err := s.resolveCurrent(ctx, req.Current)
	if err != nil {
		return "", err
	}
	query := interfaces.PostQuery{
		Limit:   number,
		Order:   order,
		OrderBy: orderBy,
		Status:  statusPublish,
	}
	if currentID != uuid.Nil {
		query.Exclude = []uuid.UUID{currentID}
	}

	url := ""
	matchable := true
	switch {
	case !isUnset(req.Category):
		category, err := s.content.Category(ctx, req.Category)
		if err != nil {
			if !content.IsNotFound(err) {
				return "", err
			}
			logger.Debug("pagelist.posts.unknown_category")
			matchable = false
			break
		}
		if url, err = s.categoryURL(ctx, category); err != nil {
			return "", err
		}
		query.CategoryID = &category.ID
		query.IncludeChildren = true
	case strings.TrimSpace(req.Tag) != "":
		tag := strings.TrimSpace(req.Tag)
		if url, err = s.links.Archive(ctx, s.base(s.cfg.TagBase, "tag"), tag); err != nil {
			return "", err
		}
		query.Tag = tag
	}

	var b strings.Builder
	b.WriteString(wrapperOpen)

	title := req.Title
	switch {
	case title == "0":
		title = ""
	case title == "":
		title = s.translate(RelatedPostsTitle)
	}
	if title != "" {
		// Without an archive url the heading is plain text even when linked.
		link := ""
		if req.Link {
			link = url
		}
		b.WriteString(titleBlock(html.EscapeString(title), link))
	}

	var posts []*interfaces.PostRecord
	if matchable {
		if posts, err = s.content.Posts(ctx, query); err != nil {
			logger.Error("pagelist.posts.query_failed", "error", err)
			return "", err
		}
	}
	if len(posts) > 0 {
		b.WriteString("<ul>")
		for _, post := range posts {
			link, err := s.links.Post(ctx, post)
			if err != nil {
				return "", err
			}
			label := post.Title
			if label == "" {
				label = post.ID.String()
			}
			b.WriteString(`<li><a href="`)
			b.WriteString(html.EscapeString(link))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(label))
			b.WriteString("</a></li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString(wrapperClose)

	logger.Debug("pagelist.posts.rendered", "items", len(posts))
	return b.String(), nil
}

// categoryURL builds <site>/<base>/<ancestor slugs...>/<slug>.
func (s *Service) categoryURL(ctx context.Context, category *interfaces.CategoryRecord) (string, error) {
	slugs := []string{category.Slug}
	seen := map[uuid.UUID]struct{}{category.ID: {}}
	parent := category.ParentID
	for parent != nil && *parent != uuid.Nil {
		if _, loop := seen[*parent]; loop {
			break
		}
		seen[*parent] = struct{}{}
		next, err := s.content.CategoryByID(ctx, *parent)
		if err != nil {
			if content.IsNotFound(err) {
				break
			}
			return "", err
		}
		slugs = append([]string{next.Slug}, slugs...)
		parent = next.ParentID
	}
	return s.links.Archive(ctx, s.base(s.cfg.CategoryBase, "category"), slugs...)
}

func (s *Service) base(configured, fallback string) string {
	if strings.TrimSpace(configured) == "" {
		return fallback
	}
	return configured
}
