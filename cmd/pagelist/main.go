package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	pagelist "github.com/goliatone/go-pagelist"
	modulecmd "github.com/goliatone/go-pagelist/internal/commands/modules"
	"github.com/goliatone/go-pagelist/internal/markdown"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("pagelist: %v", err)
	}
}

type options struct {
	pluginsDir string
	fixture    string
	dsn        string
	siteURL    string
	locale     string
	forced     string
	logLevel   string
	file       string
	body       string
	slug       string
	activate   bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pagelist", flag.ContinueOnError)
	fs.StringVar(&opts.pluginsDir, "plugins", "plugins", "Directory holding pagelist/plugin.yaml")
	fs.StringVar(&opts.fixture, "fixture", "", "YAML content fixture used to seed pages, posts and taxonomies")
	fs.StringVar(&opts.dsn, "dsn", "", "sqlite DSN; when empty content is kept in memory")
	fs.StringVar(&opts.siteURL, "site", "http://localhost", "Site URL used to build permalinks")
	fs.StringVar(&opts.locale, "locale", "en_US", "Locale used for translated titles")
	fs.StringVar(&opts.forced, "forced", "", "YAML file of administrator-forced options")
	fs.StringVar(&opts.logLevel, "log-level", "", "Enable console logging at this level")
	fs.StringVar(&opts.file, "file", "", "Markdown or HTML file to render; front matter slug names the current content")
	fs.StringVar(&opts.body, "body", "", "Inline body to render instead of --file")
	fs.StringVar(&opts.slug, "slug", "", "Slug of the content the body belongs to")
	fs.BoolVar(&opts.activate, "activate", false, "Activate the plugin before rendering")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.file == "" && opts.body == "" {
		return opts, errors.New("--file or --body is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	plugins, err := filepath.Abs(opts.pluginsDir)
	if err != nil {
		return err
	}
	cfg := pagelist.DefaultConfig()
	cfg.SiteURL = opts.siteURL
	cfg.I18N.Locale = opts.locale
	cfg.Host.PluginsDir = plugins
	cfg.Options.ForcedFile = opts.forced
	if opts.dsn != "" {
		cfg.Storage.Provider = "bun"
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.DSN = opts.dsn
	}
	if opts.logLevel != "" {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "console"
		cfg.Logging.Level = opts.logLevel
	}

	var moduleOpts []pagelist.Option
	if opts.fixture != "" {
		moduleOpts = append(moduleOpts, pagelist.WithFixtureFile(opts.fixture))
	}
	module, err := pagelist.New(ctx, cfg, moduleOpts...)
	if err != nil {
		return err
	}
	defer module.Close()

	if err := module.Boot(ctx); err != nil {
		return err
	}
	if opts.activate {
		activate := module.Container().ModuleCommands().Activate
		if err := activate.Execute(ctx, modulecmd.ActivateModuleCommand{Module: module.Plugin().ID}); err != nil {
			return err
		}
	}

	body, slug, err := loadBody(ctx, opts)
	if err != nil {
		return err
	}
	rendered, err := module.Render(ctx, body, pagelist.RenderOptions{
		Current: pagelist.ContentRef{Slug: slug},
		Locale:  opts.locale,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

// loadBody returns the HTML body to render and the slug of its content.
// Markdown files are converted first; the --slug flag wins over front matter.
func loadBody(ctx context.Context, opts options) (string, string, error) {
	if opts.file == "" {
		return opts.body, opts.slug, nil
	}
	svc, err := markdown.NewService(markdown.Config{BasePath: filepath.Dir(opts.file)}, nil)
	if err != nil {
		return "", "", err
	}
	doc, err := svc.Load(ctx, filepath.Base(opts.file))
	if err != nil {
		return "", "", err
	}
	body := string(doc.BodyHTML)
	if !isMarkdown(opts.file) {
		body = string(doc.Body)
	}
	slug := opts.slug
	if slug == "" {
		slug = strings.TrimSpace(doc.FrontMatter.Slug)
	}
	return body, slug, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
