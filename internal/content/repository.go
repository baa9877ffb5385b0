package content

import (
	"context"

	"github.com/google/uuid"
)

// PostFilter narrows post listings at the repository level.
type PostFilter struct {
	CategoryIDs []uuid.UUID
	TagID       *uuid.UUID
	Status      string
	Exclude     []uuid.UUID
	// OrderBy is one of the PostSort* keys; empty sorts by date.
	OrderBy string
	Desc    bool
	// Limit caps the result after sorting. Zero returns every match.
	Limit int
}

// Post sort keys understood by every PostRepository.
const (
	PostSortDate     = "date"
	PostSortTitle    = "title"
	PostSortSlug     = "slug"
	PostSortModified = "modified"
	PostSortID       = "id"
)

// PageRepository persists pages.
type PageRepository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*Page, error)
}

// PostRepository persists posts and their taxonomy links.
type PostRepository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]*Post, error)
	AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) error
	AssignTag(ctx context.Context, postID, tagID uuid.UUID) error
}

// TaxonomyRepository persists categories and tags.
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, record *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategoryChildren(ctx context.Context, parentID uuid.UUID) ([]*Category, error)
	CreateTag(ctx context.Context, record *Tag) (*Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
}

// MetaRepository persists owner-scoped key/value pairs.
type MetaRepository interface {
	Set(ctx context.Context, ownerID uuid.UUID, key, value string) error
	Get(ctx context.Context, ownerID uuid.UUID, key string) (string, bool, error)
}

// Repositories groups the stores the query service reads from.
type Repositories struct {
	Pages      PageRepository
	Posts      PostRepository
	Taxonomies TaxonomyRepository
	Meta       MetaRepository
}
