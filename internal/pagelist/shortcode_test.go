package pagelist_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-pagelist/internal/identity"
	"github.com/goliatone/go-pagelist/internal/pagelist"
	"github.com/goliatone/go-pagelist/internal/shortcode"
	tpl "github.com/goliatone/go-pagelist/internal/template"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

func docsList(title string) string {
	heading := ""
	if title != "" {
		heading = `<p><a href='` + site + `/docs'><strong>` + title + `</strong></a></p>`
	}
	return wrap(heading + "<ul>" +
		pageItem("configure", "Configure", "/docs/configure", "") +
		pageItem("install", "Install", "/docs/install", "") + "</ul>")
}

func TestShortcodePrecedence(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pages, err := svc.Shortcode(ctx, pagelist.Attributes{Page: "docs", Category: "news", Tag: "golang", Depth: 1, Link: true}, interfaces.ContentRef{})
	if err != nil {
		t.Fatalf("Shortcode: %v", err)
	}
	if pages != docsList("Documentation") {
		t.Fatalf("page should win, got %s", pages)
	}

	category, err := svc.Shortcode(ctx, pagelist.Attributes{Page: "0", Category: "releases", Tag: "golang", Title: "0"}, interfaces.ContentRef{})
	if err != nil {
		t.Fatalf("Shortcode: %v", err)
	}
	if category != wrap("<ul>"+postItem("v2-released", "Version 2 &amp; Beyond")+"</ul>") {
		t.Fatalf("category should win over tag, got %s", category)
	}

	empty, err := svc.Shortcode(ctx, pagelist.Attributes{Page: "0", Category: "0", Number: -3, Depth: -1}, interfaces.ContentRef{})
	if err != nil {
		t.Fatalf("Shortcode: %v", err)
	}
	if empty != "" {
		t.Fatalf("expected empty output, got %s", empty)
	}
}

func TestShortcodeThroughProcessor(t *testing.T) {
	svc := newService(t)
	registry := shortcode.NewRegistry(shortcode.NewValidator())
	if err := registry.Register(svc.Definition()); err != nil {
		t.Fatalf("register: %v", err)
	}
	processor := shortcode.NewService(registry, shortcode.NewRenderer(registry, shortcode.NewValidator()),
		shortcode.WithWordPressSyntax(true),
	)

	input := `<p>[ipagelist page="docs" depth="1" title="Docs" link="0" color="red"]</p>`
	got, err := processor.Process(context.Background(), input, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := "<p>" + wrap("<p><strong>Docs</strong></p><ul>"+
		pageItem("configure", "Configure", "/docs/configure", "")+
		pageItem("install", "Install", "/docs/install", "")+"</ul>") + "</p>"
	if got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}

	hugo := `{{< ipagelist tag="golang" num="1" title="0" >}}`
	got, err = processor.Process(context.Background(), hugo, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != wrap("<ul>"+postItem("v2-released", "Version 2 &amp; Beyond")+"</ul>") {
		t.Fatalf("unexpected tag output %s", got)
	}
}

func TestContentFilterExpandsLegacyTags(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		body    string
		current interfaces.ContentRef
		want    string
	}{
		{
			name: "pagelist with depth and title",
			body: "Intro [pagelist docs,1, Guides ] outro",
			want: "Intro " + docsList("Guides") + " outro",
		},
		{
			name: "taglist with number",
			body: "[taglist golang,1,Go]",
			want: wrap(`<p><a href='` + site + `/tag/golang'><strong>Go</strong></a></p><ul>` + postItem("v2-released", "Version 2 &amp; Beyond") + "</ul>"),
		},
		{
			name: "catlist with zero number uses default",
			body: "[catlist releases,0]",
			want: wrap(`<p><a href='` + site + `/category/news/releases'><strong>Related Posts</strong></a></p><ul>` + postItem("v2-released", "Version 2 &amp; Beyond") + "</ul>"),
		},
		{
			name: "pagelist with zero id",
			body: "a [pagelist 0] b",
			want: "a  b",
		},
		{
			name:    "bypass meta",
			body:    "[pagelist docs]",
			current: interfaces.ContentRef{Slug: "readme"},
			want:    "[pagelist docs]",
		},
		{
			name: "no tags",
			body: "plain text",
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ContentFilter(ctx, tt.body, tt.current)
			if err != nil {
				t.Fatalf("ContentFilter: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected output\nwant %s\ngot  %s", tt.want, got)
			}
		})
	}
}

func TestContentFilterDisabled(t *testing.T) {
	cfg := pagelist.DefaultConfig()
	cfg.LegacyTags = false
	svc := newService(t, pagelist.WithConfig(cfg))

	got, err := svc.ContentFilter(context.Background(), "[pagelist docs]", interfaces.ContentRef{})
	if err != nil {
		t.Fatalf("ContentFilter: %v", err)
	}
	if got != "[pagelist docs]" {
		t.Fatalf("expected untouched body, got %s", got)
	}
}

func TestHelpersFromMeta(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		current interfaces.ContentRef
		want    string
	}{
		{
			name:    "page this with depth and hidden title",
			current: interfaces.ContentRef{Slug: "docs"},
			want:    docsList(""),
		},
		{
			name:    "zero category falls through to tag",
			current: interfaces.ContentRef{ID: identity.PageUUID("about")},
			want:    wrap("<p><strong>Go</strong></p><ul>" + postItem("v2-released", "Version 2 &amp; Beyond") + "</ul>"),
		},
		{
			name:    "no meta",
			current: interfaces.ContentRef{Slug: "install"},
			want:    "",
		},
		{
			name: "no current content",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Helpers(tt.current).FromMeta(ctx, 0, 5, "Go", false)
			if err != nil {
				t.Fatalf("FromMeta: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected output\nwant %s\ngot  %s", tt.want, got)
			}
		})
	}
}

func TestHelpersTitleArguments(t *testing.T) {
	svc := newService(t)
	h := svc.Helpers(interfaces.ContentRef{})
	ctx := context.Background()

	shown, err := h.ShowPages(ctx, "docs", 1, true)
	if err != nil {
		t.Fatalf("ShowPages: %v", err)
	}
	if shown != docsList("Documentation") {
		t.Fatalf("unexpected output %s", shown)
	}

	hidden, err := h.ShowPages(ctx, "docs", 1, false)
	if err != nil {
		t.Fatalf("ShowPages: %v", err)
	}
	if hidden != docsList("") {
		t.Fatalf("unexpected output %s", hidden)
	}
}

func TestHelpersFuncMapInTemplates(t *testing.T) {
	dir := t.TempDir()
	body := `{{ ipagelist_show_category "releases" 1 false false }}|{{ ipagelist_show_pages "install" 0 true }}`
	if err := os.WriteFile(filepath.Join(dir, "sidebar.html"), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	svc := newService(t)
	ctx := context.Background()
	engine, err := tpl.New([]string{dir}, "", tpl.WithFuncs(svc.Helpers(interfaces.ContentRef{}).FuncMap(ctx)))
	if err != nil {
		t.Fatalf("template.New: %v", err)
	}
	got, err := engine.Render("sidebar")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := wrap("<ul>"+postItem("v2-released", "Version 2 &amp; Beyond")+"</ul>") + "|"
	if got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}
	if strings.Contains(got, "&lt;") {
		t.Fatalf("helper output was escaped: %s", got)
	}
}

func TestShortcodeReadsLooseNumbers(t *testing.T) {
	svc := newService(t)
	registry := shortcode.NewRegistry(shortcode.NewValidator())
	if err := registry.Register(svc.Definition()); err != nil {
		t.Fatalf("register: %v", err)
	}
	processor := shortcode.NewService(registry, shortcode.NewRenderer(registry, shortcode.NewValidator()),
		shortcode.WithWordPressSyntax(true),
	)
	ctx := context.Background()

	got, err := processor.Process(ctx, `<p>intro</p>[ipagelist page="docs" depth="all" title="0"]`, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process depth=all: %v", err)
	}
	if !strings.HasPrefix(got, "<p>intro</p>") || !strings.Contains(got, site+"/docs/configure/options") {
		t.Fatalf("expected every level for depth=all, got %s", got)
	}

	got, err = processor.Process(ctx, `[ipagelist tag="golang" num="five" title="0"]`, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process num=five: %v", err)
	}
	if !strings.Contains(got, "v2-released") || !strings.Contains(got, "hello-world") {
		t.Fatalf("expected default number of posts, got %s", got)
	}

	got, err = processor.Process(ctx, `[ipagelist page="docs" depth="1x" title="0"]`, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process depth=1x: %v", err)
	}
	if strings.Contains(got, "/docs/configure/options") {
		t.Fatalf("expected a single level for depth=1x, got %s", got)
	}
}
