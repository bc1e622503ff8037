// Package i18n resolves localized schema labels and negotiates the form locale.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"surveyengine/internal/model"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en"

// Supported locale codes, in matcher preference order
var Supported = []string{"en", "es", "pt"}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.Portuguese,
})

// Resolver turns a LocalizedString into display text for a locale
type Resolver struct {
	defaultLocale string
}

// NewResolver creates a resolver falling back to defaultLocale
func NewResolver(defaultLocale string) *Resolver {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	return &Resolver{defaultLocale: defaultLocale}
}

// Default returns the fallback locale
func (r *Resolver) Default() string {
	return r.defaultLocale
}

// Resolve returns label[locale], then label[default], then "".
func (r *Resolver) Resolve(label model.LocalizedString, locale string) string {
	if text, ok := label[locale]; ok {
		return text
	}
	if text, ok := label[r.defaultLocale]; ok {
		return text
	}
	return ""
}

// IsSupported reports whether code is one of the Supported locales
func IsSupported(code string) bool {
	for _, s := range Supported {
		if s == code {
			return true
		}
	}
	return false
}

// ParseLocale normalizes a raw "lang" parameter such as "pt-BR", "es_ES" or
// "EN" to a supported locale code. Anything unrecognized yields fallback.
func ParseLocale(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return fallback
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}
