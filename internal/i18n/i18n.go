// Package i18n loads flat JSON translation files and negotiates the visitor's language.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Bundle holds translations per language code.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// Load reads <dir>/<lang>.json for every supported language. Only the fallback
// file is required.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	fallback = normalize(fallback)
	if fallback == "" {
		return nil, fmt.Errorf("i18n: fallback language is required")
	}
	if len(supported) == 0 {
		supported = []string{fallback}
	}

	// The fallback comes first so the matcher uses it when nothing matches.
	langs := []string{fallback}
	for _, l := range supported {
		l = normalize(l)
		if l != "" && l != fallback && !contains(langs, l) {
			langs = append(langs, l)
		}
	}

	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse language %q: %w", l, err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.supported = append(b.supported, l)
		tags = append(tags, tag)
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported lists the loaded languages, fallback first.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.supported))
	copy(out, b.supported)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a loaded translation file.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.dict[normalize(lang)]
	return ok
}

// T returns the translation for key in lang, falling back to the default
// language and finally the key itself.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[normalize(lang)]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(b.supported) {
		return b.fallback
	}
	return b.supported[idx]
}

func normalize(lang string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lang)), "_", "-")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
