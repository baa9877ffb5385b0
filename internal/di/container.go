package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagelist/internal/cache"
	modulecmd "github.com/goliatone/go-pagelist/internal/commands/modules"
	rendercmd "github.com/goliatone/go-pagelist/internal/commands/render"
	"github.com/goliatone/go-pagelist/internal/content"
	"github.com/goliatone/go-pagelist/internal/hooks"
	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/internal/logging/console"
	"github.com/goliatone/go-pagelist/internal/logging/gologger"
	"github.com/goliatone/go-pagelist/internal/markdown"
	"github.com/goliatone/go-pagelist/internal/module"
	"github.com/goliatone/go-pagelist/internal/options"
	"github.com/goliatone/go-pagelist/internal/pagelist"
	"github.com/goliatone/go-pagelist/internal/permalinks"
	"github.com/goliatone/go-pagelist/internal/pipeline"
	"github.com/goliatone/go-pagelist/internal/plugin"
	"github.com/goliatone/go-pagelist/internal/runtimeconfig"
	"github.com/goliatone/go-pagelist/internal/shortcode"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

// PluginFile is the header file of the bundled plugin, relative to the
// plugins directory.
var PluginFile = filepath.Join("pagelist", "plugin.yaml")

var ErrPluginsDirRequired = errors.New("di: host plugins directory is required")

// Container wires the page list plugin, its host and the content pipeline.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	hooks      *hooks.Dispatcher
	host       interfaces.Host
	styles     *module.StyleQueue
	translator interfaces.Translator
	settings   *options.Settings
	store      interfaces.OptionStore

	bunDB         *bun.DB
	ownsDB        bool
	repos         *content.Repositories
	fixture       *content.Fixture
	fixtureFile   string
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	query     *content.Query
	links     interfaces.PermalinkResolver
	cache     *cache.Provider
	registry  *shortcode.Registry
	stats     *shortcode.RenderStats
	processor interfaces.ShortcodeService
	parser    interfaces.MarkdownParser

	pagelist *pagelist.Service
	plugin   *plugin.Plugin
	pipeline *pipeline.Pipeline

	moduleCommands *modulecmd.HandlerSet
	renderCommand  *rendercmd.RenderContentHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHost overrides the static host built from the host config.
func WithHost(host interfaces.Host) Option {
	return func(c *Container) {
		c.host = host
	}
}

// WithTranslator overrides the catalogue built from the locale config.
func WithTranslator(t interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = t
	}
}

// WithOptionStore overrides the option store selected by the storage config.
func WithOptionStore(store interfaces.OptionStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithRepositories injects prebuilt content repositories.
func WithRepositories(repos content.Repositories) Option {
	return func(c *Container) {
		c.repos = &repos
	}
}

// WithBunDB uses db instead of opening the configured DSN.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used for bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithFixture seeds the content store with fx.
func WithFixture(fx *content.Fixture) Option {
	return func(c *Container) {
		c.fixture = fx
	}
}

// WithFixtureFile seeds the content store from a YAML fixture file.
func WithFixtureFile(path string) Option {
	return func(c *Container) {
		c.fixtureFile = strings.TrimSpace(path)
	}
}

// WithPermalinkResolver overrides the resolver selected by the permalink config.
func WithPermalinkResolver(r interfaces.PermalinkResolver) Option {
	return func(c *Container) {
		c.links = r
	}
}

// WithMarkdownParser overrides the goldmark parser.
func WithMarkdownParser(p interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = p
	}
}

// NewContainer validates cfg and builds every service. Call Boot to fire the
// host lifecycle actions and Close to release storage.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogger,
		c.configureHost,
		c.configureStorage,
		c.configureSettings,
		c.configureContent,
		c.configurePermalinks,
		c.configureShortcodes,
		c.configureMarkdown,
		c.configurePageList,
		c.configurePipeline,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogger(context.Context) error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := buildLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "pagelist.di")
	return nil
}

func buildLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

func (c *Container) configureHost(context.Context) error {
	c.hooks = hooks.NewDispatcher()
	c.styles = module.NewStyleQueue()
	if c.host == nil {
		c.host = module.NewStaticHost(c.Config.Host)
	}
	if c.translator == nil {
		c.translator = i18n.NewCatalogue(c.Config.I18N.Locale)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") && c.bunDB == nil {
		if c.store == nil {
			c.store = options.NewMemoryStore()
		}
		if c.repos == nil {
			repos := content.NewMemoryRepositories()
			c.repos = &repos
		}
		return nil
	}

	if c.bunDB == nil {
		db, err := openBunDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := content.CreateSchema(ctx, c.bunDB); err != nil {
		return fmt.Errorf("di: content schema: %w", err)
	}
	if c.store == nil {
		store := options.NewBunStore(c.bunDB)
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("di: option schema: %w", err)
		}
		c.store = store
	}
	if c.repos == nil {
		c.configureCacheDefaults()
		repos := content.NewBunRepositoriesWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.repos = &repos
	}
	return nil
}

// openBunDB opens the configured DSN. sqlite uses the bundled driver; for
// postgres the caller must have registered a "postgres" database/sql driver.
func openBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("di.repository_cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureSettings(context.Context) error {
	var settingsOpts []options.SettingsOption
	if path := strings.TrimSpace(c.Config.Options.ForcedFile); path != "" {
		forced, err := options.LoadForcedFile(path)
		if err != nil {
			return err
		}
		settingsOpts = append(settingsOpts, options.WithForced(forced))
	}
	c.settings = options.NewSettings(c.store, settingsOpts...)

	if path := strings.TrimSpace(c.Config.Options.SchemaFile); path != "" {
		schema, err := loadSchemaFile(path)
		if err != nil {
			return err
		}
		if err := c.settings.SetSchema(pagelist.ID, schema); err != nil {
			return fmt.Errorf("di: option schema %s: %w", path, err)
		}
	}
	return nil
}

// loadSchemaFile reads a JSON or YAML schema document.
func loadSchemaFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("di: read option schema: %w", err)
	}
	var schema map[string]any
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("di: parse option schema: %w", err)
	}
	return schema, nil
}

func (c *Container) configureContent(ctx context.Context) error {
	if c.fixture == nil && c.fixtureFile != "" {
		fx, err := content.LoadFixtureFile(c.fixtureFile)
		if err != nil {
			return err
		}
		c.fixture = fx
	}
	if c.fixture != nil {
		if err := content.Seed(ctx, *c.repos, c.fixture); err != nil {
			return fmt.Errorf("di: seed content: %w", err)
		}
	}
	c.query = content.NewQuery(*c.repos, content.WithQueryLogger(logging.ContentLogger(c.loggerProvider)))
	return nil
}

func (c *Container) configurePermalinks(context.Context) error {
	if c.links != nil {
		return nil
	}
	cfg := c.Config.Permalinks
	if strings.EqualFold(strings.TrimSpace(cfg.Resolver), "urlkit") {
		c.links = permalinks.NewURLKitResolverFromConfig(cfg.RouteConfig, permalinks.URLKitResolverOptions{
			Group:     cfg.RouteGroup,
			PageRoute: cfg.PageRoute,
			PostRoute: cfg.PostRoute,
			SlugParam: cfg.SlugParam,
			SiteURL:   c.Config.SiteURL,
		})
		return nil
	}
	c.links = permalinks.NewPathResolver(c.Config.SiteURL, cfg.PagePrefix, cfg.PostPrefix)
	return nil
}

func (c *Container) configureShortcodes(context.Context) error {
	validator := shortcode.NewValidator()
	c.registry = shortcode.NewRegistry(validator)
	c.stats = shortcode.NewRenderStats()
	if !c.Config.Features.Shortcodes {
		c.processor = shortcode.NewNoOpService()
		return nil
	}

	rendererOpts := []shortcode.RendererOption{shortcode.WithRendererMetrics(c.stats)}
	serviceOpts := []shortcode.ServiceOption{shortcode.WithMetrics(c.stats)}
	if c.Config.Cache.Enabled {
		provider, err := cache.New(cache.Config{
			NumCounters: c.Config.Cache.NumCounters,
			MaxCost:     c.Config.Cache.MaxCost,
			DefaultTTL:  c.Config.Cache.DefaultTTL,
		})
		if err != nil {
			return err
		}
		c.cache = provider
		rendererOpts = append(rendererOpts, shortcode.WithRendererCache(provider))
		serviceOpts = append(serviceOpts, shortcode.WithDefaultCache(provider))
	}
	if c.Config.Shortcodes.Sanitize {
		sanitizer := shortcode.NewSanitizer()
		rendererOpts = append(rendererOpts, shortcode.WithRendererSanitizer(sanitizer))
		serviceOpts = append(serviceOpts, shortcode.WithDefaultSanitizer(sanitizer))
	}
	serviceOpts = append(serviceOpts,
		shortcode.WithWordPressSyntax(c.Config.Shortcodes.EnableWordPress),
		shortcode.WithLogger(logging.ShortcodeLogger(c.loggerProvider)),
	)
	renderer := shortcode.NewRenderer(c.registry, validator, rendererOpts...)
	c.processor = shortcode.NewService(c.registry, renderer, serviceOpts...)
	return nil
}

func (c *Container) configureMarkdown(context.Context) error {
	if !c.Config.Features.Markdown || c.parser != nil {
		return nil
	}
	c.parser = markdown.NewGoldmarkParser(c.parseOptions())
	return nil
}

func (c *Container) parseOptions() interfaces.ParseOptions {
	cfg := c.Config.Markdown
	return interfaces.ParseOptions{
		Extensions: cfg.Extensions,
		HardWraps:  cfg.HardWraps,
		SafeMode:   !cfg.Unsafe,
		Sanitize:   c.Config.Shortcodes.Sanitize,
	}
}

func (c *Container) configurePageList(ctx context.Context) error {
	cfg := pagelist.DefaultConfig()
	cfg.DefaultNumber = c.Config.PageList.DefaultNumber
	cfg.DefaultDepth = c.Config.PageList.DefaultDepth
	cfg.LegacyTags = c.Config.PageList.LegacyTags
	cfg.CacheTTL = c.Config.Cache.DefaultTTL
	if base := strings.TrimSpace(c.Config.Permalinks.CategoryBase); base != "" {
		cfg.CategoryBase = base
	}
	if base := strings.TrimSpace(c.Config.Permalinks.TagBase); base != "" {
		cfg.TagBase = base
	}

	svc, err := pagelist.NewService(c.query, c.links,
		pagelist.WithConfig(cfg),
		pagelist.WithHooks(c.hooks),
		pagelist.WithTranslator(c.translator, pagelist.ID),
		pagelist.WithLogger(logging.ModuleLogger(c.loggerProvider, pagelist.ID)),
	)
	if err != nil {
		return err
	}
	c.pagelist = svc

	dir := strings.TrimSpace(c.host.PluginsDir())
	if dir == "" {
		return ErrPluginsDirRequired
	}
	p, err := pagelist.NewPlugin(ctx, filepath.Join(dir, PluginFile), svc, c.registry,
		plugin.WithHost(c.host),
		plugin.WithHooks(c.hooks),
		plugin.WithSettings(c.settings),
		plugin.WithTranslator(c.translator),
		plugin.WithStyles(c.styles),
		plugin.WithLogger(logging.PluginLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.plugin = p
	return nil
}

func (c *Container) configurePipeline(context.Context) error {
	opts := []pipeline.Option{
		pipeline.WithLogger(logging.ModuleLogger(c.loggerProvider, "pagelist.pipeline")),
	}
	if c.parser != nil {
		opts = append(opts, pipeline.WithMarkdown(c.parser))
	}
	if c.Config.Features.Shortcodes {
		opts = append(opts, pipeline.WithShortcodes(c.processor, c.Config.Shortcodes.EnableWordPress))
	}
	p, err := pipeline.New(c.hooks, opts...)
	if err != nil {
		return err
	}
	c.pipeline = p
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	set, err := modulecmd.RegisterModuleCommands(nil, modulecmd.PluginSet{c.plugin.ID: c.plugin}, c.loggerProvider)
	if err != nil {
		return err
	}
	c.moduleCommands = set

	handler, err := rendercmd.RegisterRenderCommands(nil, c, c.loggerProvider, rendercmd.FeatureGates{
		MarkdownEnabled: func() bool { return c.parser != nil },
	})
	if err != nil {
		return err
	}
	c.renderCommand = handler
	return nil
}

// Boot fires plugins_loaded, init and widgets_init in host order.
func (c *Container) Boot(ctx context.Context) error {
	for _, action := range []string{"plugins_loaded", "init", "widgets_init"} {
		if err := c.hooks.DoAction(ctx, action); err != nil {
			return fmt.Errorf("di: %s: %w", action, err)
		}
	}
	return nil
}

// Render runs body through the content pipeline.
func (c *Container) Render(ctx context.Context, body string, opts pipeline.RenderOptions) (string, error) {
	return c.pipeline.Render(ctx, body, opts)
}

// Close releases the cache and any database the container opened.
func (c *Container) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) Hooks() interfaces.HookDispatcher          { return c.hooks }
func (c *Container) Host() interfaces.Host                     { return c.host }
func (c *Container) Styles() *module.StyleQueue                { return c.styles }
func (c *Container) Translator() interfaces.Translator         { return c.translator }
func (c *Container) Settings() *options.Settings               { return c.settings }
func (c *Container) ContentQuery() interfaces.ContentQuery     { return c.query }
func (c *Container) Repositories() content.Repositories        { return *c.repos }
func (c *Container) Permalinks() interfaces.PermalinkResolver  { return c.links }
func (c *Container) ShortcodeRegistry() *shortcode.Registry    { return c.registry }
func (c *Container) Shortcodes() interfaces.ShortcodeService   { return c.processor }
func (c *Container) ShortcodeStats() *shortcode.RenderStats    { return c.stats }
func (c *Container) MarkdownParser() interfaces.MarkdownParser { return c.parser }
func (c *Container) PageList() *pagelist.Service               { return c.pagelist }
func (c *Container) Plugin() *plugin.Plugin                    { return c.plugin }
func (c *Container) Pipeline() *pipeline.Pipeline              { return c.pipeline }
func (c *Container) ModuleCommands() *modulecmd.HandlerSet     { return c.moduleCommands }
func (c *Container) RenderCommand() *rendercmd.RenderContentHandler {
	return c.renderCommand
}
