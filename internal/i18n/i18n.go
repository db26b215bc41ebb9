// Package i18n resolves message keys to display strings for the console
// frontend. Catalogs are flat key/value YAML files embedded at build
// time, one per language, keyed "namespace:path" the same way the SPA
// keys its own catalogs so both sides can share translations.
package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used when no explicit language is configured.
const DefaultLanguage = "ja"

// Localizer resolves one message key to a display string.
type Localizer func(key string) string

// Bundle holds the messages of a single language.
type Bundle struct {
	lang     string
	messages map[string]string
}

// Load parses the embedded catalog for lang.
func Load(lang string) (*Bundle, error) {
	raw, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.yaml", lang))
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", lang, err)
	}

	messages := make(map[string]string)
	if err := yaml.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", lang, err)
	}

	return &Bundle{lang: lang, messages: messages}, nil
}

// Language returns the language this bundle was loaded for.
func (b *Bundle) Language() string {
	return b.lang
}

// T resolves a message key. Unknown keys return the key itself; the
// catalogs are expected to be complete, so this is a rendering fallback
// rather than an error path.
func (b *Bundle) T(key string) string {
	if msg, ok := b.messages[key]; ok {
		return msg
	}
	return key
}
