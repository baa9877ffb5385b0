package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// FrameworkDomain holds the messages shared by every module.
const FrameworkDomain = "akfw"

var (
	// ErrDomainRequired indicates LoadDomain was called without a domain.
	ErrDomainRequired = errors.New("i18n: text domain is required")
)

//go:embed locales/*.json
var builtin embed.FS

// Catalogue resolves messages per text domain for a single locale. Missing
// catalogue files are not errors; lookups fall back to the key.
type Catalogue struct {
	locale string

	mu       sync.RWMutex
	messages map[string]map[string]string
	loaded   map[string][]string
}

var _ interfaces.Translator = (*Catalogue)(nil)

// NewCatalogue returns a catalogue for locale with the framework domain
// preloaded from the embedded files.
func NewCatalogue(locale string) *Catalogue {
	c := &Catalogue{
		locale:   strings.TrimSpace(locale),
		messages: make(map[string]map[string]string),
		loaded:   make(map[string][]string),
	}
	_ = c.loadFS(builtin, FrameworkDomain, "locales")
	return c
}

// Locale returns the active locale.
func (c *Catalogue) Locale() string {
	return c.locale
}

// LoadDomain merges <dir>/<domain>-<locale>.json into domain.
func (c *Catalogue) LoadDomain(domain, dir string) error {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ErrDomainRequired
	}
	return c.loadFS(os.DirFS(dir), domain, ".")
}

func (c *Catalogue) loadFS(fsys fs.FS, domain, dir string) error {
	name := filepath.ToSlash(filepath.Join(dir, fmt.Sprintf("%s-%s.json", domain, c.locale)))
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.markLoaded(domain, "")
			return nil
		}
		return fmt.Errorf("i18n: read %s: %w", name, err)
	}
	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("i18n: decode %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	target, ok := c.messages[domain]
	if !ok {
		target = make(map[string]string, len(entries))
		c.messages[domain] = target
	}
	for key, value := range entries {
		target[key] = value
	}
	c.loaded[domain] = append(c.loaded[domain], name)
	return nil
}

func (c *Catalogue) markLoaded(domain, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.loaded[domain]; !ok {
		c.loaded[domain] = nil
	}
	if name != "" {
		c.loaded[domain] = append(c.loaded[domain], name)
	}
}

// IsLoaded reports whether LoadDomain has been called for domain.
func (c *Catalogue) IsLoaded(domain string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loaded[domain]
	return ok
}

// Translate returns the message for key formatted with args.
func (c *Catalogue) Translate(domain, key string, args ...any) string {
	c.mu.RLock()
	msg, ok := c.messages[domain][key]
	c.mu.RUnlock()
	if !ok || msg == "" {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// NoOp returns a translator that echoes keys.
func NoOp() interfaces.Translator {
	return noopTranslator{}
}

type noopTranslator struct{}

func (noopTranslator) LoadDomain(string, string) error { return nil }

func (noopTranslator) Translate(_ string, key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}
