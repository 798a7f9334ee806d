// Package cms serves the editable landing page copy from local markdown files
// with YAML front matter. Built-in copy is used when a file is missing.
package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a section has no file and no built-in copy.
var ErrNotFound = errors.New("cms: not found")

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
	defaultLang       = "en"
)

// Section is one rendered block of page copy.
type Section struct {
	Slug         string
	Lang         string
	Title        string
	Summary      string
	Body         template.HTML
	Image        string
	ImageAlt     string
	Points       []Point
	Testimonials []Testimonial
	UpdatedAt    time.Time
	// Source is "file" or "builtin".
	Source string
}

// Point is a bullet with an icon name understood by the templates.
type Point struct {
	Icon string `yaml:"icon"`
	Text string `yaml:"text"`
}

// Testimonial is a customer quote.
type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
}

type frontMatter struct {
	Title        string        `yaml:"title"`
	Summary      string        `yaml:"summary"`
	Lang         string        `yaml:"lang"`
	Image        string        `yaml:"image"`
	ImageAlt     string        `yaml:"image_alt"`
	UpdatedAt    string        `yaml:"updated_at"`
	Points       []Point       `yaml:"points"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

type cacheEntry struct {
	section Section
	expires time.Time
}

// Store reads sections from <dir>/<lang>/<slug>.md and caches them in memory.
type Store struct {
	dir    string
	ttl    time.Duration
	md     goldmark.Markdown
	policy *bluemonday.Policy
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewStore builds a store over dir. A non-positive ttl uses five minutes.
func NewStore(dir string, ttl time.Duration) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Store{
		dir: dir,
		ttl: ttl,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Typographer, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
		cache:  map[string]cacheEntry{},
	}
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// Section returns the copy for slug in lang, trying the default language next
// and then the built-in copy. When a file exists but cannot be parsed, the
// built-in copy is returned together with the error.
func (s *Store) Section(ctx context.Context, slug, lang string) (Section, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Section{}, ErrNotFound
	}
	lang = normalizeLang(lang)

	key := lang + "|" + slug
	if sec, ok := s.cached(key); ok {
		return sec, nil
	}

	sec, err := s.load(ctx, slug, lang)
	if err != nil {
		fb, ok := Fallback(slug)
		if !ok {
			return Section{}, err
		}
		if errors.Is(err, ErrNotFound) {
			s.store(key, fb)
			return fb, nil
		}
		return fb, err
	}
	s.store(key, sec)
	return cloneSection(sec), nil
}

// Invalidate drops every cached section.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = map[string]cacheEntry{}
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context, slug, lang string) (Section, error) {
	priority := []string{lang}
	if lang != defaultLang {
		priority = append(priority, defaultLang)
	}
	for _, candidate := range priority {
		if err := ctx.Err(); err != nil {
			return Section{}, err
		}
		sec, err := s.readMarkdown(slug, candidate)
		if err == nil {
			return sec, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return Section{}, err
	}
	return Section{}, ErrNotFound
}

func (s *Store) readMarkdown(slug, lang string) (Section, error) {
	file := filepath.Join(s.dir, lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Section{}, ErrNotFound
		}
		return Section{}, err
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Section{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Section{}, fmt.Errorf("cms: render %s: %w", file, err)
	}

	sec := Section{
		Slug:         slug,
		Lang:         firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:        strings.TrimSpace(front.Title),
		Summary:      strings.TrimSpace(front.Summary),
		Body:         template.HTML(s.policy.SanitizeBytes(buf.Bytes())),
		Image:        strings.TrimSpace(front.Image),
		ImageAlt:     strings.TrimSpace(front.ImageAlt),
		Points:       trimPoints(front.Points),
		Testimonials: trimTestimonials(front.Testimonials),
		UpdatedAt:    parseContentDate(front.UpdatedAt),
		Source:       "file",
	}
	if sec.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			sec.UpdatedAt = info.ModTime()
		}
	}
	if sec.Title == "" {
		sec.Title = prettifySlug(slug)
	}
	return sec, nil
}

func (s *Store) cached(key string) (Section, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Section{}, false
	}
	return cloneSection(entry.section), true
}

func (s *Store) store(key string, sec Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{section: cloneSection(sec), expires: s.now().Add(s.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func trimPoints(in []Point) []Point {
	out := make([]Point, 0, len(in))
	for _, p := range in {
		p.Text = strings.TrimSpace(p.Text)
		p.Icon = strings.TrimSpace(p.Icon)
		if p.Text != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimTestimonials(in []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(in))
	for _, t := range in {
		t.Quote = strings.TrimSpace(t.Quote)
		t.Author = strings.TrimSpace(t.Author)
		if t.Quote != "" {
			out = append(out, t)
		}
	}
	return out
}

func prettifySlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || strings.ContainsAny(lang, `./\`) {
		return defaultLang
	}
	return lang
}

func cloneSection(src Section) Section {
	cp := src
	cp.Points = append([]Point(nil), src.Points...)
	cp.Testimonials = append([]Testimonial(nil), src.Testimonials...)
	return cp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
