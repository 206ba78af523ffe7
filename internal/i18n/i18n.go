// Package i18n provides the static string catalog for user-facing
// messages with {placeholder} substitution.
package i18n

import "strings"

// Catalog resolves message keys per language.
type Catalog struct {
	fallback string
	messages map[string]map[string]string
}

// New returns the catalog with the given fallback language.
func New(fallback string) *Catalog {
	if _, ok := messages[fallback]; !ok {
		fallback = "en"
	}
	return &Catalog{fallback: fallback, messages: messages}
}

// Languages lists the supported language codes in display order.
func (c *Catalog) Languages() []string {
	return []string{"en", "ru"}
}

// Supported reports whether lang has a catalog.
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// T resolves key in lang, substituting {name} placeholders from args.
// Unknown languages fall back to the catalog default; an unknown key
// resolves to the key itself so a missing string is visible, not a
// silent blank.
func (c *Catalog) T(lang, key string, args map[string]string) string {
	table, ok := c.messages[lang]
	if !ok {
		table = c.messages[c.fallback]
	}

	text, ok := table[key]
	if !ok {
		if text, ok = c.messages[c.fallback][key]; !ok {
			return key
		}
	}

	for name, value := range args {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
