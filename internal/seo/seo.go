// Package seo builds page metadata and schema.org payloads.
package seo

import (
	"html/template"
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	// JSONLD holds pre-marshalled schema.org documents for <script type="application/ld+json">.
	JSONLD []template.JS
}

// Absolute joins base and path without doubling slashes.
func Absolute(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// OGLocale converts a language code such as "en-gb" to the og:locale form "en_GB".
func OGLocale(lang string) string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "-", "_")
	parts := strings.SplitN(lang, "_", 2)
	if len(parts) == 2 {
		return strings.ToLower(parts[0]) + "_" + strings.ToUpper(parts[1])
	}
	switch strings.ToLower(lang) {
	case "", "en":
		return "en_GB"
	}
	return strings.ToLower(lang)
}
