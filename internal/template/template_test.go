package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

type prefixTranslator struct{}

func (prefixTranslator) LoadDomain(string, string) error { return nil }

func (prefixTranslator) Translate(domain, key string, _ ...any) string {
	return domain + ":" + key
}

func TestNewKeepsExistingDirectories(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing")

	tpl, err := New([]string{missing, root}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dirs := tpl.Dirs(); len(dirs) != 1 || dirs[0] != root {
		t.Fatalf("unexpected dirs %v", dirs)
	}
	if !tpl.FoundErrors() {
		t.Fatalf("expected missing directory to be reported")
	}
	if out := tpl.DisplayMessages(); !strings.Contains(out, missing) {
		t.Fatalf("expected message to name %s, got %q", missing, out)
	}
}

func TestNewRequiresDirectory(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "nope")}, ""); !errors.Is(err, ErrNoDirectories) {
		t.Fatalf("expected ErrNoDirectories, got %v", err)
	}
	if _, err := New([]string{t.TempDir()}, filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidDirectory) {
		t.Fatalf("expected ErrInvalidDirectory, got %v", err)
	}
}

func TestAssignRejectsReservedNames(t *testing.T) {
	tpl, err := New([]string{t.TempDir()}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"i18n", "tpl", "cfg"} {
		if err := tpl.Assign(name, "x"); !errors.Is(err, ErrReservedVariable) {
			t.Fatalf("Assign(%q): expected ErrReservedVariable, got %v", name, err)
		}
	}
	if err := tpl.AssignRef("count", 3); !errors.Is(err, ErrNotPointer) {
		t.Fatalf("expected ErrNotPointer, got %v", err)
	}
}

func TestMessagesAreDedupedAndCleared(t *testing.T) {
	tpl, err := New([]string{t.TempDir()}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tpl.AddError("first")
	tpl.AddError("first")
	tpl.AddError("")
	tpl.AddError("second")
	tpl.AddNotice("saved")

	want := "<div id=\"message\" class=\"error\">first<br />\nsecond</div>\n" +
		"<div id=\"message\" class=\"notice\">saved</div>\n"
	if got := tpl.DisplayMessages(); got != want {
		t.Fatalf("unexpected messages\nwant %q\ngot  %q", want, got)
	}
	if tpl.FoundErrors() {
		t.Fatalf("expected queues to be cleared")
	}
	if got := tpl.DisplayMessages(); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestLoadConfigMergesFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "base.yaml"), "title: Base\nlimit: 5\n")
	writeFile(t, filepath.Join(root, "site.yml"), "title: Site\n")

	tpl, err := New([]string{root}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tpl.LoadConfig("base"); err != nil {
		t.Fatalf("LoadConfig base: %v", err)
	}
	if err := tpl.LoadConfig("site"); err != nil {
		t.Fatalf("LoadConfig site: %v", err)
	}
	cfg := tpl.Config()
	if cfg["title"] != "Site" || cfg["limit"] != 5 {
		t.Fatalf("unexpected config %v", cfg)
	}
	if err := tpl.LoadConfig("absent"); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	tpl.ResetConfig()
	if len(tpl.Config()) != 0 {
		t.Fatalf("expected config reset")
	}
}

func TestDisplaySearchesDirectoriesInOrder(t *testing.T) {
	child := t.TempDir()
	parent := t.TempDir()
	writeFile(t, filepath.Join(parent, "box.html"), `parent {{.name}}`)
	writeFile(t, filepath.Join(parent, "only.html"), `only {{.tpl}}`)
	writeFile(t, filepath.Join(child, "box.html"),
		`{{messages}}<p>{{.name}} {{.cfg.title}} {{translate "Hello"}} {{.count}}</p>`)
	writeFile(t, filepath.Join(child, "box.yaml"), "title: Cfg\n")

	tpl, err := New([]string{child, parent}, "", WithTranslator(prefixTranslator{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tpl.TextDomain("pagelist")
	if err := tpl.LoadConfig("box"); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	count := 1
	if err := tpl.Assign("name", "<b>"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := tpl.AssignRef("count", &count); err != nil {
		t.Fatalf("AssignRef: %v", err)
	}
	count = 7
	tpl.AddNotice("done")

	got, err := tpl.Render("box")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "<div id=\"message\" class=\"notice\">done</div>\n<p>&lt;b&gt; Cfg pagelist:Hello 7</p>"
	if got != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, got)
	}

	var b strings.Builder
	if err := tpl.Display(&b, "only"); err != nil {
		t.Fatalf("Display: %v", err)
	}
	if b.String() != "only only" {
		t.Fatalf("unexpected fallback output %q", b.String())
	}

	if _, err := tpl.Render("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	tpl.ResetVars()
	if got, _ := tpl.Render("only"); got != "only only" {
		t.Fatalf("unexpected output after reset %q", got)
	}
}
