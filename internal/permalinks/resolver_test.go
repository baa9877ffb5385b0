package permalinks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-pagelist/internal/permalinks"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

func TestPathResolver(t *testing.T) {
	ctx := context.Background()
	resolver := permalinks.NewPathResolver("https://example.com/", "", "blog")

	cases := []struct {
		name string
		run  func() (string, error)
		want string
		err  error
	}{
		{
			name: "page uses hierarchical path",
			run: func() (string, error) {
				return resolver.Page(ctx, &interfaces.PageRecord{Slug: "options", Path: "/docs/configure/options"})
			},
			want: "https://example.com/docs/configure/options",
		},
		{
			name: "page falls back to slug",
			run: func() (string, error) {
				return resolver.Page(ctx, &interfaces.PageRecord{Slug: "about"})
			},
			want: "https://example.com/about",
		},
		{
			name: "post uses prefix",
			run: func() (string, error) {
				return resolver.Post(ctx, &interfaces.PostRecord{Slug: "hello-world"})
			},
			want: "https://example.com/blog/hello-world",
		},
		{
			name: "category archive chain",
			run: func() (string, error) {
				return resolver.Archive(ctx, "category", "news", "releases")
			},
			want: "https://example.com/category/news/releases",
		},
		{
			name: "empty archive base",
			run: func() (string, error) {
				return resolver.Archive(ctx, " ", "news")
			},
			err: permalinks.ErrArchiveBase,
		},
		{
			name: "nil page",
			run: func() (string, error) {
				return resolver.Page(ctx, nil)
			},
			err: permalinks.ErrNilRecord,
		},
		{
			name: "empty post slug",
			run: func() (string, error) {
				return resolver.Post(ctx, &interfaces.PostRecord{})
			},
			err: permalinks.ErrEmptySlug,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestURLKitResolver(t *testing.T) {
	ctx := context.Background()
	resolver := permalinks.NewURLKitResolverFromConfig(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page": "/pages/:slug",
					"post": "/posts/:slug",
				},
			},
		},
	}, permalinks.URLKitResolverOptions{
		Group:   "frontend",
		SiteURL: "https://example.com",
	})

	page, err := resolver.Page(ctx, &interfaces.PageRecord{Slug: "company"})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page != "https://example.com/pages/company" {
		t.Fatalf("unexpected page url %q", page)
	}

	post, err := resolver.Post(ctx, &interfaces.PostRecord{Slug: "hello"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if post != "https://example.com/posts/hello" {
		t.Fatalf("unexpected post url %q", post)
	}

	archive, err := resolver.Archive(ctx, "tag", "golang")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archive != "https://example.com/tag/golang" {
		t.Fatalf("unexpected archive url %q", archive)
	}
}

func TestURLKitResolverUnknownGroup(t *testing.T) {
	resolver := permalinks.NewURLKitResolverFromConfig(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{Name: "frontend", BaseURL: "https://example.com"}},
	}, permalinks.URLKitResolverOptions{Group: "admin"})

	if _, err := resolver.Page(context.Background(), &interfaces.PageRecord{Slug: "x"}); err == nil {
		t.Fatal("expected error for unknown group")
	}
}
