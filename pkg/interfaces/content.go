package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContentRef identifies a page or post. Either field may be empty.
type ContentRef struct {
	ID   uuid.UUID
	Slug string
}

// IsZero reports whether the reference points to nothing.
func (r ContentRef) IsZero() bool {
	return r.ID == uuid.Nil && r.Slug == ""
}

// Matches reports whether the reference identifies the supplied id or slug.
func (r ContentRef) Matches(id uuid.UUID, slug string) bool {
	if r.ID != uuid.Nil {
		return r.ID == id
	}
	return r.Slug != "" && r.Slug == slug
}

// PageRecord is the read model for a hierarchical page.
type PageRecord struct {
	ID        uuid.UUID
	ParentID  *uuid.UUID
	Slug      string
	Path      string
	Title     string
	MenuOrder int
	Status    string
}

// PageNode is a page with its loaded descendants.
type PageNode struct {
	Page     *PageRecord
	Children []*PageNode
}

// PostRecord is the read model for a post.
type PostRecord struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Status      string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// CategoryRecord is the read model for a post category.
type CategoryRecord struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Slug     string
	Name     string
}

// PageTreeOptions controls descendant listing. Depth zero loads every level.
type PageTreeOptions struct {
	Depth       int
	SortColumns []string
	SortOrder   string
	Status      string
}

// PostQuery selects posts for a listing.
type PostQuery struct {
	CategoryID      *uuid.UUID
	IncludeChildren bool
	Tag             string
	Limit           int
	Order           string
	OrderBy         string
	Status          string
	Exclude         []uuid.UUID
}

// ContentQuery is the read contract the list renderers depend on.
type ContentQuery interface {
	// Page resolves a page by UUID or slug.
	Page(ctx context.Context, ref string) (*PageRecord, error)
	// PageTree returns the descendants of parentID.
	PageTree(ctx context.Context, parentID uuid.UUID, opts PageTreeOptions) ([]*PageNode, error)
	// Category resolves a category by UUID or slug.
	Category(ctx context.Context, ref string) (*CategoryRecord, error)
	// CategoryByID resolves a category by id.
	CategoryByID(ctx context.Context, id uuid.UUID) (*CategoryRecord, error)
	// Post resolves a post by UUID or slug.
	Post(ctx context.Context, ref string) (*PostRecord, error)
	// Posts returns posts matching the query.
	Posts(ctx context.Context, query PostQuery) ([]*PostRecord, error)
	// PostMeta returns a single meta value stored for a post or page.
	PostMeta(ctx context.Context, contentID uuid.UUID, key string) (string, bool, error)
}

// PermalinkResolver builds public URLs for content records.
type PermalinkResolver interface {
	Page(ctx context.Context, page *PageRecord) (string, error)
	Post(ctx context.Context, post *PostRecord) (string, error)
	// Archive builds a taxonomy archive URL such as /category/parent/child.
	Archive(ctx context.Context, base string, slugs ...string) (string, error)
}
