package readme

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadmeData_ParsesHeaderFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), `=== Inline Page List ===
Contributors: jordi , alkivia,
Donate link: https://example.com/donate
Help link: https://example.com/forum
Docs link: https://example.com/docs
tags: pages, posts , list
Requires at least: 2.8
Tested up to: 3.0
Stable tag: 1.2.1

Lists pages inline.
`)

	meta := ReadmeData(filepath.Join(dir, "inline-pagelist.go"))

	if !reflect.DeepEqual(meta.Contributors, []string{"jordi", "alkivia"}) {
		t.Fatalf("unexpected contributors %#v", meta.Contributors)
	}
	if !reflect.DeepEqual(meta.Tags, []string{"pages", "posts", "list"}) {
		t.Fatalf("unexpected tags %#v", meta.Tags)
	}
	if meta.DonateURI != "https://example.com/donate" || meta.HelpURI != "https://example.com/forum" || meta.DocsURI != "https://example.com/docs" {
		t.Fatalf("unexpected links %+v", meta)
	}
	if meta.Requires != "2.8" || meta.Tested != "3.0" || meta.Stable != "1.2.1" {
		t.Fatalf("unexpected versions %+v", meta)
	}
}

func TestReadmeData_OnlyScansFirstBlock(t *testing.T) {
	dir := t.TempDir()
	padding := strings.Repeat("x", headerLimit+10)
	writeFile(t, filepath.Join(dir, "readme.txt"), padding+"\nStable tag: 9.9\n")

	if meta := ReadmeData(filepath.Join(dir, "p.go")); meta.Stable != "" {
		t.Fatalf("expected fields past the header limit to be ignored, got %q", meta.Stable)
	}
}

func TestReadmeData_MissingFile(t *testing.T) {
	if meta := ReadmeData(filepath.Join(t.TempDir(), "p.go")); !meta.IsZero() {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}

func TestPluginHeader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "inline-pagelist.go")
	writeFile(t, file, `// Plugin Name: Inline Page List
// Plugin URI: https://alkivia.org/pagelist
// Description: Lists pages and posts inside content.
// Version: 1.2.1
// Author: Jordi Canals
// Author URI: https://alkivia.org
// Text Domain: pagelist
// Domain Path: /lang
package main
`)

	meta, err := PluginHeader(file)
	if err != nil {
		t.Fatalf("PluginHeader: %v", err)
	}
	want := Metadata{
		Name:        "Inline Page List",
		Title:       "Inline Page List",
		PluginURI:   "https://alkivia.org/pagelist",
		Description: "Lists pages and posts inside content.",
		Version:     "1.2.1",
		Author:      "Jordi Canals",
		AuthorURI:   "https://alkivia.org",
		TextDomain:  "pagelist",
		DomainPath:  "/lang",
	}
	if !reflect.DeepEqual(meta, want) {
		t.Fatalf("unexpected header\nwant %+v\ngot  %+v", want, meta)
	}
}

func TestThemeHeader_StripsCommentClose(t *testing.T) {
	file := filepath.Join(t.TempDir(), "style.css")
	writeFile(t, file, `/*
Theme Name: Child */
Template: parent
Version: 0.3
Tags: dark, two-columns
*/`)

	meta, err := ThemeHeader(file)
	if err != nil {
		t.Fatalf("ThemeHeader: %v", err)
	}
	if meta.Name != "Child" || meta.Template != "parent" || meta.Version != "0.3" {
		t.Fatalf("unexpected theme header %+v", meta)
	}
	if len(meta.Tags) != 2 {
		t.Fatalf("unexpected tags %#v", meta.Tags)
	}
}

func TestComponentHeader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "components", "related.go")
	writeFile(t, file, "// Component: related\n// Name: Related Posts\n// Description: Shows related posts.\n")

	meta, err := ComponentHeader(file)
	if err != nil {
		t.Fatalf("ComponentHeader: %v", err)
	}
	if meta.Component != "related" || meta.Name != "Related Posts" || meta.File != "related.go" {
		t.Fatalf("unexpected component header %+v", meta)
	}
	if _, err := ComponentHeader(filepath.Join(t.TempDir(), "none.go")); err == nil {
		t.Fatal("expected error for missing component file")
	}
}

func TestMergeIsRightBiased(t *testing.T) {
	left := Metadata{Name: "Parent", Version: "1.0", Tags: []string{"a"}, Requires: "2.8"}
	right := Metadata{Name: "Child", Tags: []string{"b", "c"}}

	merged := Merge(left, right)
	if merged.Name != "Child" || merged.Version != "1.0" || merged.Requires != "2.8" {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if !reflect.DeepEqual(merged.Tags, []string{"b", "c"}) {
		t.Fatalf("unexpected tags %#v", merged.Tags)
	}
	merged.Tags[0] = "z"
	if right.Tags[0] != "b" {
		t.Fatal("expected merge to copy slices")
	}
}

func TestMetadataValue(t *testing.T) {
	meta := Metadata{Version: "1.0", Tags: []string{"x"}}
	if v, ok := meta.Value("Version"); !ok || v != "1.0" {
		t.Fatalf("unexpected Version %v %v", v, ok)
	}
	if _, ok := meta.Value("Requires"); ok {
		t.Fatal("expected empty Requires to report false")
	}
	if _, ok := meta.Value("Bogus"); ok {
		t.Fatal("expected unknown key to report false")
	}
	if v, ok := meta.Value("Tags"); !ok || len(v.([]string)) != 1 {
		t.Fatalf("unexpected Tags %v", v)
	}
}

func TestFrontMatterData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), `---
name: Inline Page List
version: 1.3.0
tags: [pages, " posts "]
requires: "2.8"
---
# Inline Page List
`)

	meta, err := FrontMatterData(filepath.Join(dir, "inline-pagelist.go"))
	if err != nil {
		t.Fatalf("FrontMatterData: %v", err)
	}
	if meta.Name != "Inline Page List" || meta.Version != "1.3.0" || meta.Requires != "2.8" {
		t.Fatalf("unexpected front matter %+v", meta)
	}
	if !reflect.DeepEqual(meta.Tags, []string{"pages", "posts"}) {
		t.Fatalf("unexpected tags %#v", meta.Tags)
	}

	empty, err := FrontMatterData(filepath.Join(t.TempDir(), "x.go"))
	if err != nil || !empty.IsZero() {
		t.Fatalf("expected empty metadata for missing README, got %+v %v", empty, err)
	}
}

func TestThemeManifestData_MissingDir(t *testing.T) {
	if meta := ThemeManifestData(filepath.Join(t.TempDir(), "nope")); !meta.IsZero() {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}
