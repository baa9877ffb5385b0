package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewBunRepositories wires bun-backed stores without caching.
func NewBunRepositories(db *bun.DB) Repositories {
	return NewBunRepositoriesWithCache(db, nil, nil)
}

// NewBunRepositoriesWithCache wires bun-backed stores with optional read caching.
func NewBunRepositoriesWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) Repositories {
	return Repositories{
		Pages: &BunPageRepository{
			repo: wrapWithCache(NewPageRepository(db), cacheService, keySerializer),
		},
		Posts: &BunPostRepository{
			db:   db,
			repo: wrapWithCache(NewPostRepository(db), cacheService, keySerializer),
		},
		Taxonomies: &BunTaxonomyRepository{
			categories: wrapWithCache(NewCategoryRepository(db), cacheService, keySerializer),
			tags:       wrapWithCache(NewTagRepository(db), cacheService, keySerializer),
		},
		Meta: &BunMetaRepository{db: db},
	}
}

// CreateSchema creates every content table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.Slug
		},
	})
}

func NewCategoryRepository(db *bun.DB) repository.Repository[*Category] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *Category) string {
			return c.Slug
		},
	})
}

func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Slug
		},
	})
}

type BunPageRepository struct {
	repo repository.Repository[*Page]
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	if strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	stamp(&record.CreatedAt, &record.UpdatedAt)
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("page repository error: %w", err)
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return result, nil
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	records, _, err := r.repo.List(lookupScope(ctx, "page.slug", slug),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(lookupScope(ctx, "page.parent", parentID),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.parent_id = ?", parentID).OrderExpr("?TableAlias.slug ASC")
		}),
		repository.SelectPaginate(0, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", parentID.String())
	}
	return records, nil
}

type BunPostRepository struct {
	db   *bun.DB
	repo repository.Repository[*Post]
}

func (r *BunPostRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	if strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	stamp(&record.CreatedAt, &record.UpdatedAt)
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return created, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return result, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	records, _, err := r.repo.List(lookupScope(ctx, "post.slug", slug),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return records[0], nil
}

func (r *BunPostRepository) List(ctx context.Context, filter PostFilter) ([]*Post, error) {
	records, _, err := r.repo.List(lookupScope(ctx, "post.list", filter),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.Status != "" {
				q = q.Where("?TableAlias.status = ?", filter.Status)
			}
			if len(filter.Exclude) > 0 {
				q = q.Where("?TableAlias.id NOT IN (?)", bun.In(filter.Exclude))
			}
			if len(filter.CategoryIDs) > 0 {
				q = q.Where("?TableAlias.id IN (SELECT pc.post_id FROM post_categories AS pc WHERE pc.category_id IN (?))",
					bun.In(filter.CategoryIDs))
			}
			if filter.TagID != nil {
				q = q.Where("?TableAlias.id IN (SELECT pt.post_id FROM post_tags AS pt WHERE pt.tag_id = ?)", *filter.TagID)
			}
			return applyPostOrder(q, filter.OrderBy, filter.Desc)
		}),
		repository.SelectPaginate(filter.Limit, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", "")
	}
	return records, nil
}

// applyPostOrder mirrors postComparator in SQL.
func applyPostOrder(q *bun.SelectQuery, key string, desc bool) *bun.SelectQuery {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	const date = "COALESCE(?TableAlias.published_at, ?TableAlias.created_at)"
	var exprs []string
	switch key {
	case PostSortTitle:
		exprs = []string{"LOWER(?TableAlias.title)", date, "?TableAlias.id"}
	case PostSortSlug:
		exprs = []string{"?TableAlias.slug", "?TableAlias.id"}
	case PostSortModified:
		exprs = []string{"?TableAlias.updated_at", date, "?TableAlias.id"}
	case PostSortID:
		exprs = []string{"?TableAlias.id"}
	default:
		exprs = []string{date, "?TableAlias.id"}
	}
	for _, expr := range exprs {
		q = q.OrderExpr(expr + " " + dir)
	}
	return q
}

func (r *BunPostRepository) AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) error {
	link := &PostCategory{PostID: postID, CategoryID: categoryID}
	if _, err := r.db.NewInsert().Model(link).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("assign category: %w", err)
	}
	return nil
}

func (r *BunPostRepository) AssignTag(ctx context.Context, postID, tagID uuid.UUID) error {
	link := &PostTag{PostID: postID, TagID: tagID}
	if _, err := r.db.NewInsert().Model(link).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("assign tag: %w", err)
	}
	return nil
}

type BunTaxonomyRepository struct {
	categories repository.Repository[*Category]
	tags       repository.Repository[*Tag]
}

func (r *BunTaxonomyRepository) CreateCategory(ctx context.Context, record *Category) (*Category, error) {
	if strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.categories.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("category repository error: %w", err)
	}
	return created, nil
}

func (r *BunTaxonomyRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	result, err := r.categories.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "category", id.String())
	}
	return result, nil
}

func (r *BunTaxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	records, _, err := r.categories.List(lookupScope(ctx, "category.slug", slug),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "category", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "category", Key: slug}
	}
	return records[0], nil
}

func (r *BunTaxonomyRepository) ListCategoryChildren(ctx context.Context, parentID uuid.UUID) ([]*Category, error) {
	records, _, err := r.categories.List(lookupScope(ctx, "category.parent", parentID),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.parent_id = ?", parentID)
		}),
		repository.SelectPaginate(0, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "category", parentID.String())
	}
	return records, nil
}

func (r *BunTaxonomyRepository) CreateTag(ctx context.Context, record *Tag) (*Tag, error) {
	if strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.tags.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("tag repository error: %w", err)
	}
	return created, nil
}

func (r *BunTaxonomyRepository) GetTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	records, _, err := r.tags.List(lookupScope(ctx, "tag.slug", slug),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "tag", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "tag", Key: slug}
	}
	return records[0], nil
}

// BunMetaRepository stores meta rows keyed by owner and key.
type BunMetaRepository struct {
	db *bun.DB
}

func (r *BunMetaRepository) Set(ctx context.Context, ownerID uuid.UUID, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMetaKeyRequired
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Meta)(nil)).
			Where("?TableAlias.owner_id = ?", ownerID).
			Where("?TableAlias.meta_key = ?", key).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete meta: %w", err)
		}
		row := &Meta{ID: uuid.New(), OwnerID: ownerID, Key: key, Value: value}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert meta: %w", err)
		}
		return nil
	})
}

func (r *BunMetaRepository) Get(ctx context.Context, ownerID uuid.UUID, key string) (string, bool, error) {
	row := new(Meta)
	err := r.db.NewSelect().
		Model(row).
		Where("?TableAlias.owner_id = ?", ownerID).
		Where("?TableAlias.meta_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("meta repository error: %w", err)
	}
	return row.Value, true, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

// lookupScope records the lookup parameters as repository scope data. The
// repository cache keys criteria funcs by code pointer only, so without this
// two slug lookups would share one cache entry.
func lookupScope(ctx context.Context, lookup string, params ...any) context.Context {
	return repository.WithScopeData(ctx, "pagelist.lookup", append([]any{lookup}, params...))
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
