package shortcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer filters rendered markup through a bluemonday policy and enforces URL schemes.
type Sanitizer struct {
	policy         *bluemonday.Policy
	allowedSchemes map[string]struct{}
}

// NewSanitizer returns a sanitizer using the user generated content policy
// with class attributes allowed, and http/https URLs.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	return NewPolicySanitizer(policy)
}

// NewPolicySanitizer wraps a caller supplied policy.
func NewPolicySanitizer(policy *bluemonday.Policy) *Sanitizer {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return &Sanitizer{
		policy: policy,
		allowedSchemes: map[string]struct{}{
			"http":  {},
			"https": {},
			"":      {},
		},
	}
}

// Sanitize strips elements and attributes the policy does not allow.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	return s.policy.Sanitize(html), nil
}

// ValidateURL ensures the URL has an allowed scheme.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if _, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("shortcode: url scheme %q not permitted", parsed.Scheme)
	}
	return nil
}

// ValidateAttributes rejects inline event handlers like onload/onerror.
func (s *Sanitizer) ValidateAttributes(attrs map[string]any) error {
	for key := range attrs {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "on") {
			return fmt.Errorf("shortcode: attribute %q not permitted", key)
		}
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
