package content_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/identity"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/goliatone/go-pagelist/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

// repositoryBackends opens an empty store per backend.
func repositoryBackends() map[string]func(t *testing.T) content.Repositories {
	return map[string]func(t *testing.T) content.Repositories{
		"memory": func(*testing.T) content.Repositories { return content.NewMemoryRepositories() },
		"bun": func(t *testing.T) content.Repositories {
			t.Helper()
			name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
			db, err := testsupport.NewBunSQLite(name)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			if err := content.CreateSchema(context.Background(), db); err != nil {
				t.Fatalf("create schema: %v", err)
			}
			return content.NewBunRepositories(db)
		},
	}
}

func TestBunRepositoriesServeQueries(t *testing.T) {
	ctx := context.Background()

	db, err := testsupport.NewBunSQLite("content_bun_queries")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := content.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	q := seededQuery(t, content.NewBunRepositories(db))

	page, err := q.Page(ctx, "options")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Path != "/docs/configure/options" {
		t.Fatalf("unexpected path %q", page.Path)
	}

	nodes, err := q.PageTree(ctx, identity.PageUUID("docs"), interfaces.PageTreeOptions{
		SortColumns: []string{"menu_order", "post_title"},
		Status:      content.StatusPublished,
	})
	if err != nil {
		t.Fatalf("page tree: %v", err)
	}
	if got := slugs(nodes); !equalStrings(got, []string{"configure", "install"}) {
		t.Fatalf("unexpected tree order %v", got)
	}

	news := identity.CategoryUUID("news")
	posts, err := q.Posts(ctx, interfaces.PostQuery{CategoryID: &news, IncludeChildren: true, Status: content.StatusPublished})
	if err != nil {
		t.Fatalf("posts: %v", err)
	}
	if len(posts) != 3 || posts[0].Slug != "v2-released" {
		t.Fatalf("unexpected posts %+v", posts)
	}

	tagged, err := q.Posts(ctx, interfaces.PostQuery{Tag: "golang", Status: content.StatusPublished})
	if err != nil {
		t.Fatalf("tagged posts: %v", err)
	}
	if len(tagged) != 2 {
		t.Fatalf("expected 2 tagged posts, got %d", len(tagged))
	}

	value, ok, err := q.PostMeta(ctx, identity.PageUUID("readme"), "pagelist_bypass")
	if err != nil || !ok || value != "1" {
		t.Fatalf("expected bypass meta, got %q %v %v", value, ok, err)
	}
	if err := q.Repositories().Meta.Set(ctx, identity.PageUUID("readme"), "pagelist_bypass", ""); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}
	value, ok, err = q.PostMeta(ctx, identity.PageUUID("readme"), "pagelist_bypass")
	if err != nil || !ok || value != "" {
		t.Fatalf("expected overwritten meta, got %q %v %v", value, ok, err)
	}
}

func TestBunRepositoriesWithCache(t *testing.T) {
	ctx := context.Background()

	db, err := testsupport.NewBunSQLite("content_bun_cache")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := content.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	repos := content.NewBunRepositoriesWithCache(db, cacheService, keySerializer)
	created, err := repos.Pages.Create(ctx, &content.Page{
		ID:     identity.PageUUID("cached"),
		Slug:   "cached",
		Title:  "Cached",
		Status: content.StatusPublished,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	if _, err := repos.Pages.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("first get: %v", err)
	}
	cached, err := repos.Pages.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if cached.Title != "Cached" {
		t.Fatalf("unexpected title %q", cached.Title)
	}

	if _, err := repos.Pages.GetByID(ctx, identity.PageUUID("absent")); !content.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListingsAreNotCappedByRepositoryDefaults(t *testing.T) {
	const total = 30
	for name, open := range repositoryBackends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repos := open(t)

			parent, err := repos.Pages.Create(ctx, &content.Page{Slug: "archive", Title: "Archive", Status: content.StatusPublished})
			if err != nil {
				t.Fatalf("create parent: %v", err)
			}
			category, err := repos.Taxonomies.CreateCategory(ctx, &content.Category{Slug: "daily", Name: "Daily"})
			if err != nil {
				t.Fatalf("create category: %v", err)
			}
			base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
			for i := range total {
				if _, err := repos.Pages.Create(ctx, &content.Page{
					ParentID:  &parent.ID,
					Slug:      fmt.Sprintf("day-%02d", i),
					Title:     fmt.Sprintf("Day %02d", i),
					MenuOrder: i,
					Status:    content.StatusPublished,
				}); err != nil {
					t.Fatalf("create child %d: %v", i, err)
				}
				post, err := repos.Posts.Create(ctx, &content.Post{
					ID:          uuid.New(),
					Slug:        fmt.Sprintf("entry-%02d", i),
					Title:       fmt.Sprintf("Entry %02d", i),
					Status:      content.StatusPublished,
					PublishedAt: base.AddDate(0, 0, i),
				})
				if err != nil {
					t.Fatalf("create post %d: %v", i, err)
				}
				if err := repos.Posts.AssignCategory(ctx, post.ID, category.ID); err != nil {
					t.Fatalf("assign category %d: %v", i, err)
				}
			}

			q := content.NewQuery(repos)
			nodes, err := q.PageTree(ctx, parent.ID, interfaces.PageTreeOptions{
				SortColumns: []string{"menu_order"},
				Status:      content.StatusPublished,
			})
			if err != nil {
				t.Fatalf("page tree: %v", err)
			}
			if len(nodes) != total {
				t.Fatalf("expected %d children, got %d", total, len(nodes))
			}

			posts, err := q.Posts(ctx, interfaces.PostQuery{CategoryID: &category.ID, Status: content.StatusPublished, Limit: 3})
			if err != nil {
				t.Fatalf("posts: %v", err)
			}
			got := make([]string, 0, len(posts))
			for _, post := range posts {
				got = append(got, post.Slug)
			}
			if want := []string{"entry-29", "entry-28", "entry-27"}; !equalStrings(got, want) {
				t.Fatalf("expected newest %v, got %v", want, got)
			}

			all, err := q.Posts(ctx, interfaces.PostQuery{CategoryID: &category.ID, Order: "ASC"})
			if err != nil {
				t.Fatalf("all posts: %v", err)
			}
			if len(all) != total || all[0].Slug != "entry-00" {
				t.Fatalf("expected %d posts oldest first, got %d", total, len(all))
			}
		})
	}
}

func TestCachedBunLookupsKeepParametersApart(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunSQLite("content_bun_cached_lookups")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := content.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	q := seededQuery(t, content.NewBunRepositoriesWithCache(db, cacheService, repocache.NewDefaultKeySerializer()))

	for _, slug := range []string{"news", "releases", "news"} {
		category, err := q.Category(ctx, slug)
		if err != nil {
			t.Fatalf("category %s: %v", slug, err)
		}
		if category.Slug != slug {
			t.Fatalf("lookup %s returned %s", slug, category.Slug)
		}
	}
	for _, slug := range []string{"install", "docs"} {
		page, err := q.Page(ctx, slug)
		if err != nil {
			t.Fatalf("page %s: %v", slug, err)
		}
		if page.Slug != slug {
			t.Fatalf("lookup %s returned %s", slug, page.Slug)
		}
	}

	published := interfaces.PostQuery{Status: content.StatusPublished}
	all, err := q.Posts(ctx, published)
	if err != nil {
		t.Fatalf("posts: %v", err)
	}
	tagged := published
	tagged.Tag = "golang"
	golang, err := q.Posts(ctx, tagged)
	if err != nil {
		t.Fatalf("tagged posts: %v", err)
	}
	limited := published
	limited.Limit = 1
	one, err := q.Posts(ctx, limited)
	if err != nil {
		t.Fatalf("limited posts: %v", err)
	}
	if len(all) != 3 || len(golang) != 2 || len(one) != 1 {
		t.Fatalf("expected 3, 2 and 1 posts, got %d, %d and %d", len(all), len(golang), len(one))
	}
}
