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
)

// ChildPagesRequest selects the descendants of Page. Depth zero lists every level.
// Title "0" hides the heading and an empty title uses the parent page title.
type ChildPagesRequest struct {
	Page    string
	Depth   int
	Title   string
	Link    bool
	Current interfaces.ContentRef
}

func (r ChildPagesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Depth, validation.Min(0)),
	)
}

// ChildPages renders the page tree below req.Page. A page without published
// children, or an unknown page, renders as the empty string.
func (s *Service) ChildPages(ctx context.Context, req ChildPagesRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if isUnset(req.Page) {
		return "", nil
	}
	logger := logging.ForOperation(ctx, s.logger, "pagelist.child_pages", map[string]any{"page": req.Page})

	parent, err := s.content.Page(ctx, req.Page)
	if err != nil {
		if content.IsNotFound(err) {
			logger.Debug("pagelist.child_pages.unknown_page")
			return "", nil
		}
		return "", err
	}

	columns := splitColumns(hooks.FilterString(ctx, s.hooks, FilterPageSortColumn, DefaultPageSortColumn))
	order := hooks.FilterString(ctx, s.hooks, FilterPageOrder, DefaultPageOrder)
	tree, err := s.content.PageTree(ctx, parent.ID, interfaces.PageTreeOptions{
		Depth:       req.Depth,
		SortColumns: columns,
		SortOrder:   order,
		Status:      statusPublish,
	})
	if err != nil {
		logger.Error("pagelist.child_pages.tree_failed", "error", err)
		return "", err
	}
	if len(tree) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(wrapperOpen)

	title := req.Title
	switch {
	case title == "0":
		title = ""
	case title == "":
		title = parent.Title
	}
	if title != "" {
		link := ""
		if req.Link && !req.Current.Matches(parent.ID, parent.Slug) {
			if link, err = s.links.Page(ctx, parent); err != nil {
				return "", err
			}
		}
		b.WriteString(titleBlock(html.EscapeString(title), link))
	}

	b.WriteString("<ul>")
	if err := s.writePageItems(ctx, &b, tree, req.Current); err != nil {
		return "", err
	}
	b.WriteString("</ul>")
	b.WriteString(wrapperClose)

	logger.Debug("pagelist.child_pages.rendered", "items", len(tree))
	return b.String(), nil
}

func (s *Service) writePageItems(ctx context.Context, b *strings.Builder, nodes []*interfaces.PageNode, current interfaces.ContentRef) error {
	for _, node := range nodes {
		page := node.Page
		isCurrent := current.Matches(page.ID, page.Slug)

		b.WriteString(`<li class="page_item page-item-`)
		b.WriteString(page.ID.String())
		if isCurrent {
			b.WriteString(" current_page_item")
		}
		b.WriteString(`">`)

		title := html.EscapeString(page.Title)
		if isCurrent {
			b.WriteString(title)
		} else {
			link, err := s.links.Page(ctx, page)
			if err != nil {
				return err
			}
			b.WriteString(`<a href="`)
			b.WriteString(html.EscapeString(link))
			b.WriteString(`">`)
			b.WriteString(title)
			b.WriteString("</a>")
		}

		if len(node.Children) > 0 {
			b.WriteString("<ul class='children'>")
			if err := s.writePageItems(ctx, b, node.Children, current); err != nil {
				return err
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</li>")
	}
	return nil
}

func splitColumns(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
