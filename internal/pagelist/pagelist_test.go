package pagelist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/internal/identity"
	"github.com/goliatone/go-pagelist/internal/pagelist"
	"github.com/goliatone/go-pagelist/internal/permalinks"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

const site = "https://example.com"

func seededQuery(t *testing.T) *content.Query {
	t.Helper()
	fixture, err := content.LoadFixtureFile("testdata/site.yaml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	repos := content.NewMemoryRepositories()
	if err := content.Seed(context.Background(), repos, fixture); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return content.NewQuery(repos)
}

func newService(t *testing.T, opts ...pagelist.ServiceOption) *pagelist.Service {
	t.Helper()
	svc, err := pagelist.NewService(seededQuery(t), permalinks.NewPathResolver(site, "", ""), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pageItem(slug, title, path, children string) string {
	out := `<li class="page_item page-item-` + identity.PageUUID(slug).String() + `"><a href="` + site + path + `">` + title + `</a>`
	if children != "" {
		out += "<ul class='children'>" + children + "</ul>"
	}
	return out + "</li>"
}

func postItem(slug, label string) string {
	return `<li><a href="` + site + "/" + slug + `">` + label + `</a></li>`
}

func wrap(body string) string {
	return `<div id="inline_pagelist">` + body + `</div>`
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := pagelist.NewService(nil, permalinks.NewPathResolver(site, "", "")); err != pagelist.ErrContentRequired {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
	if _, err := pagelist.NewService(seededQuery(t), nil); err != pagelist.ErrPermalinkRequired {
		t.Fatalf("expected ErrPermalinkRequired, got %v", err)
	}
}

func TestChildPages(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	options := pageItem("options", "Options", "/docs/configure/options", "")
	configure := pageItem("configure", "Configure", "/docs/configure", options)
	install := pageItem("install", "Install", "/docs/install", "")
	heading := `<p><a href='` + site + `/docs'><strong>Documentation</strong></a></p>`

	tests := []struct {
		name string
		req  pagelist.ChildPagesRequest
		want string
	}{
		{
			name: "all levels",
			req:  pagelist.ChildPagesRequest{Page: "docs", Link: true},
			want: wrap(heading + "<ul>" + configure + install + "</ul>"),
		},
		{
			name: "one level",
			req:  pagelist.ChildPagesRequest{Page: "docs", Depth: 1, Link: true},
			want: wrap(heading + "<ul>" + pageItem("configure", "Configure", "/docs/configure", "") + install + "</ul>"),
		},
		{
			name: "custom title without link",
			req:  pagelist.ChildPagesRequest{Page: "docs", Depth: 1, Title: "Guides & Docs"},
			want: wrap("<p><strong>Guides &amp; Docs</strong></p><ul>" + pageItem("configure", "Configure", "/docs/configure", "") + install + "</ul>"),
		},
		{
			name: "hidden title",
			req:  pagelist.ChildPagesRequest{Page: "configure", Title: "0", Link: true},
			want: wrap("<ul>" + options + "</ul>"),
		},
		{
			name: "current parent is not linked",
			req:  pagelist.ChildPagesRequest{Page: "docs", Depth: 1, Link: true, Current: interfaces.ContentRef{Slug: "docs"}},
			want: wrap("<p><strong>Documentation</strong></p><ul>" + pageItem("configure", "Configure", "/docs/configure", "") + install + "</ul>"),
		},
		{
			name: "current child is marked",
			req:  pagelist.ChildPagesRequest{Page: identity.PageUUID("configure").String(), Link: true, Current: interfaces.ContentRef{ID: identity.PageUUID("options")}},
			want: wrap(`<p><a href='` + site + `/docs/configure'><strong>Configure</strong></a></p><ul>` +
				`<li class="page_item page-item-` + identity.PageUUID("options").String() + ` current_page_item">Options</li></ul>`),
		},
		{
			name: "leaf page",
			req:  pagelist.ChildPagesRequest{Page: "install", Link: true},
			want: "",
		},
		{
			name: "unknown page",
			req:  pagelist.ChildPagesRequest{Page: "missing", Link: true},
			want: "",
		},
		{
			name: "unset page",
			req:  pagelist.ChildPagesRequest{Page: "0", Link: true},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ChildPages(ctx, tt.req)
			if err != nil {
				t.Fatalf("ChildPages: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected output\nwant %s\ngot  %s", tt.want, got)
			}
		})
	}
}

func TestChildPagesRejectsNegativeDepth(t *testing.T) {
	svc := newService(t)
	if _, err := svc.ChildPages(context.Background(), pagelist.ChildPagesRequest{Page: "docs", Depth: -1}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestChildPagesSortFilters(t *testing.T) {
	d := hooks.NewDispatcher()
	d.AddFilter(pagelist.FilterPageSortColumn, func(context.Context, any, ...any) (any, error) {
		return "post_title", nil
	})
	d.AddFilter(pagelist.FilterPageOrder, func(context.Context, any, ...any) (any, error) {
		return "DESC", nil
	})
	svc := newService(t, pagelist.WithHooks(d))

	got, err := svc.ChildPages(context.Background(), pagelist.ChildPagesRequest{Page: "docs", Depth: 1, Title: "0"})
	if err != nil {
		t.Fatalf("ChildPages: %v", err)
	}
	want := wrap("<ul>" + pageItem("install", "Install", "/docs/install", "") + pageItem("configure", "Configure", "/docs/configure", "") + "</ul>")
	if got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}
}

func TestPosts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	v2 := postItem("v2-released", "Version 2 &amp; Beyond")
	untitled := postItem("untitled", identity.PostUUID("untitled").String())
	hello := postItem("hello-world", "Hello World")

	tests := []struct {
		name string
		req  pagelist.PostsRequest
		want string
	}{
		{
			name: "category includes descendants",
			req:  pagelist.PostsRequest{Category: "news", Link: true},
			want: wrap(`<p><a href='` + site + `/category/news'><strong>Related Posts</strong></a></p><ul>` + v2 + untitled + hello + "</ul>"),
		},
		{
			name: "nested category url",
			req:  pagelist.PostsRequest{Category: "releases", Link: true},
			want: wrap(`<p><a href='` + site + `/category/news/releases'><strong>Related Posts</strong></a></p><ul>` + v2 + "</ul>"),
		},
		{
			name: "tag with limit",
			req:  pagelist.PostsRequest{Tag: "golang", Number: 1, Title: "Go"},
			want: wrap("<p><strong>Go</strong></p><ul>" + v2 + "</ul>"),
		},
		{
			name: "ascending order",
			req:  pagelist.PostsRequest{Tag: "Golang", Order: "ASC", Title: "0"},
			want: wrap("<ul>" + hello + v2 + "</ul>"),
		},
		{
			name: "current post excluded",
			req:  pagelist.PostsRequest{Category: "news", Title: "0", Current: interfaces.ContentRef{Slug: "hello-world"}},
			want: wrap("<ul>" + v2 + untitled + "</ul>"),
		},
		{
			name: "unknown category",
			req:  pagelist.PostsRequest{Category: "missing", Link: true},
			want: wrap(`<p><strong>Related Posts</strong></p>`),
		},
		{
			name: "unknown category with custom title",
			req:  pagelist.PostsRequest{Category: "missing", Title: "X", Link: true},
			want: wrap(`<p><strong>X</strong></p>`),
		},
		{
			name: "unknown tag",
			req:  pagelist.PostsRequest{Tag: "rust", Link: true},
			want: wrap(`<p><a href='` + site + `/tag/rust'><strong>Related Posts</strong></a></p>`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Posts(ctx, tt.req)
			if err != nil {
				t.Fatalf("Posts: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected output\nwant %s\ngot  %s", tt.want, got)
			}
		})
	}
}

func TestPostsTranslatesDefaultTitle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pagelist-es_ES.json"), []byte(`{"Related Posts":"Entradas relacionadas"}`), 0o644); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	catalogue := i18n.NewCatalogue("es_ES")
	if err := catalogue.LoadDomain(pagelist.ID, dir); err != nil {
		t.Fatalf("load domain: %v", err)
	}
	svc := newService(t, pagelist.WithTranslator(catalogue, pagelist.ID))

	got, err := svc.Posts(context.Background(), pagelist.PostsRequest{Category: "releases"})
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	want := wrap("<p><strong>Entradas relacionadas</strong></p><ul>" + postItem("v2-released", "Version 2 &amp; Beyond") + "</ul>")
	if got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}
}

func TestPostsOrderFilters(t *testing.T) {
	d := hooks.NewDispatcher()
	d.AddFilter(pagelist.FilterPostOrderBy, func(context.Context, any, ...any) (any, error) {
		return "title", nil
	})
	d.AddFilter(pagelist.FilterPostOrder, func(context.Context, any, ...any) (any, error) {
		return "ASC", nil
	})
	svc := newService(t, pagelist.WithHooks(d))

	got, err := svc.Posts(context.Background(), pagelist.PostsRequest{Tag: "golang", Title: "0"})
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	want := wrap("<ul>" + postItem("hello-world", "Hello World") + postItem("v2-released", "Version 2 &amp; Beyond") + "</ul>")
	if got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}
}
