package template

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/internal/i18n"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/oxtoacart/bpool"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoDirectories    = errors.New("template: no valid template directory")
	ErrInvalidDirectory = errors.New("template: path is not a directory")
	ErrReservedVariable = errors.New("template: reserved variable name")
	ErrNotPointer       = errors.New("template: reference must be a pointer")
	ErrConfigNotFound   = errors.New("template: config file not found")
	ErrTemplateNotFound = errors.New("template: template not found")
)

const (
	varTextDomain = "i18n"
	varTemplate   = "tpl"
	varConfig     = "cfg"
)

var reserved = []string{varTextDomain, varTemplate, varConfig}

// Option customises a Template.
type Option func(*Template)

// WithTranslator sets the translator behind the translate helper.
func WithTranslator(t interfaces.Translator) Option {
	return func(tpl *Template) {
		if t != nil {
			tpl.translator = t
		}
	}
}

// WithFuncs adds helpers available to every template.
func WithFuncs(funcs htmltemplate.FuncMap) Option {
	return func(tpl *Template) {
		maps.Copy(tpl.funcs, funcs)
	}
}

// WithBufferPool shares a buffer pool between templates.
func WithBufferPool(pool *bpool.BufferPool) Option {
	return func(tpl *Template) {
		if pool != nil {
			tpl.pool = pool
		}
	}
}

// Template renders html/template files found in an ordered list of
// directories with a bag of assigned variables.
type Template struct {
	dirs   []string
	cfgDir string

	mu      sync.Mutex
	vars    map[string]any
	config  map[string]any
	errors  []string
	notices []string

	translator interfaces.Translator
	funcs      htmltemplate.FuncMap
	pool       *bpool.BufferPool
}

// New keeps the existing directories of dirs. Missing directories are queued
// as error messages. cfgDir defaults to the first template directory.
func New(dirs []string, cfgDir string, opts ...Option) (*Template, error) {
	t := &Template{
		vars:       make(map[string]any),
		config:     make(map[string]any),
		translator: i18n.NoOp(),
		funcs:      htmltemplate.FuncMap{},
		pool:       bpool.NewBufferPool(64),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	for _, dir := range dirs {
		if isDir(dir) {
			t.dirs = append(t.dirs, filepath.Clean(dir))
			continue
		}
		t.AddError(fmt.Sprintf("%s: %s", ErrInvalidDirectory, dir))
	}
	if len(t.dirs) == 0 {
		return nil, ErrNoDirectories
	}
	switch {
	case cfgDir == "":
		t.cfgDir = t.dirs[0]
	case isDir(cfgDir):
		t.cfgDir = filepath.Clean(cfgDir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, cfgDir)
	}
	return t, nil
}

// Dirs returns the template search path.
func (t *Template) Dirs() []string {
	return slices.Clone(t.dirs)
}

// TextDomain sets the domain used by the translate helper.
func (t *Template) TextDomain(domain string) {
	t.mu.Lock()
	t.vars[varTextDomain] = domain
	t.mu.Unlock()
}

// Assign stores a template variable.
func (t *Template) Assign(name string, value any) error {
	if slices.Contains(reserved, name) {
		return fmt.Errorf("%w: %s", ErrReservedVariable, name)
	}
	t.mu.Lock()
	t.vars[name] = value
	t.mu.Unlock()
	return nil
}

// AssignRef stores a pointer so later changes to the target are rendered.
func (t *Template) AssignRef(name string, ref any) error {
	if ref == nil || reflect.TypeOf(ref).Kind() != reflect.Pointer {
		return fmt.Errorf("%w: %s", ErrNotPointer, name)
	}
	return t.Assign(name, ref)
}

// LoadConfig merges <cfgDir>/<name>.yaml into the config map.
func (t *Template) LoadConfig(name string) error {
	var raw []byte
	var err error
	for _, ext := range []string{".yaml", ".yml"} {
		raw, err = os.ReadFile(filepath.Join(t.cfgDir, name+ext))
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("template: parse config %s: %w", name, err)
	}
	t.mu.Lock()
	maps.Copy(t.config, values)
	t.mu.Unlock()
	return nil
}

// Config returns a copy of the loaded configuration.
func (t *Template) Config() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.config)
}

func (t *Template) ResetConfig() {
	t.mu.Lock()
	t.config = make(map[string]any)
	t.mu.Unlock()
}

func (t *Template) ResetVars() {
	t.mu.Lock()
	t.vars = make(map[string]any)
	t.mu.Unlock()
}

func (t *Template) ResetAll() {
	t.mu.Lock()
	t.config = make(map[string]any)
	t.vars = make(map[string]any)
	t.mu.Unlock()
}

// AddError queues message once. Empty messages are ignored.
func (t *Template) AddError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if message != "" && !slices.Contains(t.errors, message) {
		t.errors = append(t.errors, message)
	}
}

// AddNotice queues message once. Empty messages are ignored.
func (t *Template) AddNotice(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if message != "" && !slices.Contains(t.notices, message) {
		t.notices = append(t.notices, message)
	}
}

func (t *Template) FoundErrors() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.errors) > 0
}

func (t *Template) ResetMessages() {
	t.mu.Lock()
	t.errors = nil
	t.notices = nil
	t.mu.Unlock()
}

// DisplayMessages renders queued errors then notices and clears both queues.
func (t *Template) DisplayMessages() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b strings.Builder
	if len(t.errors) > 0 {
		b.WriteString(`<div id="message" class="error">`)
		b.WriteString(strings.Join(t.errors, "<br />\n"))
		b.WriteString("</div>\n")
	}
	if len(t.notices) > 0 {
		b.WriteString(`<div id="message" class="notice">`)
		b.WriteString(strings.Join(t.notices, "<br />\n"))
		b.WriteString("</div>\n")
	}
	t.errors = nil
	t.notices = nil
	return b.String()
}

// Display renders the first <dir>/<name>.html found into w.
func (t *Template) Display(w io.Writer, name string) error {
	path, ok := t.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	t.mu.Lock()
	data := maps.Clone(t.vars)
	data[varConfig] = maps.Clone(t.config)
	data[varTemplate] = name
	domain, _ := t.vars[varTextDomain].(string)
	t.mu.Unlock()

	funcs := htmltemplate.FuncMap{
		"translate": func(key string, args ...any) string {
			return t.translator.Translate(domain, key, args...)
		},
		"messages": func() htmltemplate.HTML {
			return htmltemplate.HTML(t.DisplayMessages())
		},
	}
	maps.Copy(funcs, t.funcs)

	tpl, err := htmltemplate.New(filepath.Base(path)).Funcs(funcs).ParseFiles(path)
	if err != nil {
		return fmt.Errorf("template: parse %s: %w", name, err)
	}

	buf := t.pool.Get()
	defer t.pool.Put(buf)
	if err := tpl.Execute(buf, data); err != nil {
		return fmt.Errorf("template: execute %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Render returns the output of Display as a string.
func (t *Template) Render(name string) (string, error) {
	var b strings.Builder
	if err := t.Display(&b, name); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (t *Template) lookup(name string) (string, bool) {
	for _, dir := range t.dirs {
		path := filepath.Join(dir, name+".html")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func isDir(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
