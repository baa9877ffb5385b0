package interfaces

// Translator resolves messages grouped by text domain.
type Translator interface {
	// LoadDomain reads the catalogue files for domain from dir.
	LoadDomain(domain, dir string) error
	// Translate returns the message for key, or key itself when missing.
	Translate(domain, key string, args ...any) string
}
