package content

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewMemoryRepositories returns in-memory stores sharing one lock domain.
func NewMemoryRepositories() Repositories {
	store := &memoryStore{
		pages:      make(map[uuid.UUID]*Page),
		posts:      make(map[uuid.UUID]*Post),
		categories: make(map[uuid.UUID]*Category),
		tags:       make(map[uuid.UUID]*Tag),
		postCats:   make(map[uuid.UUID][]uuid.UUID),
		postTags:   make(map[uuid.UUID][]uuid.UUID),
		meta:       make(map[uuid.UUID]map[string]string),
	}
	return Repositories{
		Pages:      memoryPages{store},
		Posts:      memoryPosts{store},
		Taxonomies: memoryTaxonomies{store},
		Meta:       memoryMeta{store},
	}
}

type memoryStore struct {
	mu         sync.RWMutex
	pages      map[uuid.UUID]*Page
	posts      map[uuid.UUID]*Post
	categories map[uuid.UUID]*Category
	tags       map[uuid.UUID]*Tag
	postCats   map[uuid.UUID][]uuid.UUID
	postTags   map[uuid.UUID][]uuid.UUID
	meta       map[uuid.UUID]map[string]string
}

type memoryPages struct{ s *memoryStore }

func (m memoryPages) Create(_ context.Context, record *Page) (*Page, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.pages {
		if existing.Slug == record.Slug && existing.ID != record.ID {
			return nil, ErrSlugExists
		}
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	stamp(&copied.CreatedAt, &copied.UpdatedAt)
	m.s.pages[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m memoryPages) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	page, ok := m.s.pages[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	out := *page
	return &out, nil
}

func (m memoryPages) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, page := range m.s.pages {
		if page.Slug == slug {
			out := *page
			return &out, nil
		}
	}
	return nil, &NotFoundError{Resource: "page", Key: slug}
}

func (m memoryPages) ListByParent(_ context.Context, parentID uuid.UUID) ([]*Page, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*Page
	for _, page := range m.s.pages {
		if page.ParentID != nil && *page.ParentID == parentID {
			copied := *page
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *Page) int { return strings.Compare(a.Slug, b.Slug) })
	return out, nil
}

type memoryPosts struct{ s *memoryStore }

func (m memoryPosts) Create(_ context.Context, record *Post) (*Post, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.posts {
		if existing.Slug == record.Slug && existing.ID != record.ID {
			return nil, ErrSlugExists
		}
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	stamp(&copied.CreatedAt, &copied.UpdatedAt)
	m.s.posts[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m memoryPosts) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	post, ok := m.s.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	out := *post
	return &out, nil
}

func (m memoryPosts) GetBySlug(_ context.Context, slug string) (*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, post := range m.s.posts {
		if post.Slug == slug {
			out := *post
			return &out, nil
		}
	}
	return nil, &NotFoundError{Resource: "post", Key: slug}
}

func (m memoryPosts) List(_ context.Context, filter PostFilter) ([]*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*Post
	for id, post := range m.s.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if slices.Contains(filter.Exclude, id) {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !slices.ContainsFunc(m.s.postCats[id], func(c uuid.UUID) bool {
			return slices.Contains(filter.CategoryIDs, c)
		}) {
			continue
		}
		if filter.TagID != nil && !slices.Contains(m.s.postTags[id], *filter.TagID) {
			continue
		}
		copied := *post
		out = append(out, &copied)
	}
	compare := postComparator(filter.OrderBy)
	slices.SortFunc(out, func(a, b *Post) int {
		if filter.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m memoryPosts) AssignCategory(_ context.Context, postID, categoryID uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.posts[postID]; !ok {
		return &NotFoundError{Resource: "post", Key: postID.String()}
	}
	if _, ok := m.s.categories[categoryID]; !ok {
		return &NotFoundError{Resource: "category", Key: categoryID.String()}
	}
	if !slices.Contains(m.s.postCats[postID], categoryID) {
		m.s.postCats[postID] = append(m.s.postCats[postID], categoryID)
	}
	return nil
}

func (m memoryPosts) AssignTag(_ context.Context, postID, tagID uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.posts[postID]; !ok {
		return &NotFoundError{Resource: "post", Key: postID.String()}
	}
	if _, ok := m.s.tags[tagID]; !ok {
		return &NotFoundError{Resource: "tag", Key: tagID.String()}
	}
	if !slices.Contains(m.s.postTags[postID], tagID) {
		m.s.postTags[postID] = append(m.s.postTags[postID], tagID)
	}
	return nil
}

type memoryTaxonomies struct{ s *memoryStore }

func (m memoryTaxonomies) CreateCategory(_ context.Context, record *Category) (*Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.categories {
		if existing.Slug == record.Slug && existing.ID != record.ID {
			return nil, ErrSlugExists
		}
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.s.categories[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m memoryTaxonomies) GetCategoryByID(_ context.Context, id uuid.UUID) (*Category, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	cat, ok := m.s.categories[id]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: id.String()}
	}
	out := *cat
	return &out, nil
}

func (m memoryTaxonomies) GetCategoryBySlug(_ context.Context, slug string) (*Category, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, cat := range m.s.categories {
		if cat.Slug == slug {
			out := *cat
			return &out, nil
		}
	}
	return nil, &NotFoundError{Resource: "category", Key: slug}
}

func (m memoryTaxonomies) ListCategoryChildren(_ context.Context, parentID uuid.UUID) ([]*Category, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*Category
	for _, cat := range m.s.categories {
		if cat.ParentID != nil && *cat.ParentID == parentID {
			copied := *cat
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m memoryTaxonomies) CreateTag(_ context.Context, record *Tag) (*Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.tags {
		if existing.Slug == record.Slug && existing.ID != record.ID {
			return nil, ErrSlugExists
		}
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.s.tags[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m memoryTaxonomies) GetTagBySlug(_ context.Context, slug string) (*Tag, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, tag := range m.s.tags {
		if tag.Slug == slug {
			out := *tag
			return &out, nil
		}
	}
	return nil, &NotFoundError{Resource: "tag", Key: slug}
}

type memoryMeta struct{ s *memoryStore }

func (m memoryMeta) Set(_ context.Context, ownerID uuid.UUID, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMetaKeyRequired
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.meta[ownerID] == nil {
		m.s.meta[ownerID] = make(map[string]string)
	}
	m.s.meta[ownerID][key] = value
	return nil
}

func (m memoryMeta) Get(_ context.Context, ownerID uuid.UUID, key string) (string, bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	value, ok := m.s.meta[ownerID][key]
	return value, ok, nil
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = now
	}
}
