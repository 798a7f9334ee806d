package cms

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, lang, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, lang), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, lang, name), []byte(body), 0o600))
}

const aboutMarkdown = `---
title: About us
image: https://example.com/about.jpg
image_alt: Team with dogs
updated_at: "2025-03-01"
points:
  - icon: leaf
    text: " Recyclable packaging "
  - icon: truck
    text: ""
---
We are a **small** team.

<script>alert(1)</script>
`

func TestSectionRendersMarkdownAndSanitises(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en", "about.md", aboutMarkdown)
	s := NewStore(dir, time.Minute)

	sec, err := s.Section(context.Background(), "about", "en")
	require.NoError(t, err)
	require.Equal(t, "file", sec.Source)
	require.Equal(t, "About us", sec.Title)
	require.Equal(t, "Team with dogs", sec.ImageAlt)
	require.Contains(t, string(sec.Body), "<strong>small</strong>")
	require.NotContains(t, string(sec.Body), "<script")
	require.Equal(t, []Point{{Icon: "leaf", Text: "Recyclable packaging"}}, sec.Points)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), sec.UpdatedAt)
}

func TestSectionFallsBackToDefaultLanguageThenBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en", "about.md", aboutMarkdown)
	s := NewStore(dir, time.Minute)

	sec, err := s.Section(context.Background(), "about", "en-us")
	require.NoError(t, err)
	require.Equal(t, "About us", sec.Title)

	sec, err = s.Section(context.Background(), "testimonials", "en")
	require.NoError(t, err)
	require.Equal(t, "builtin", sec.Source)
	require.Len(t, sec.Testimonials, 3)
	require.Equal(t, "Emily, London", sec.Testimonials[0].Author)
}

func TestSectionParseErrorReturnsBuiltinWithError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en", "testimonials.md", "---\ntestimonials: [\n---\nbody")
	s := NewStore(dir, time.Minute)

	sec, err := s.Section(context.Background(), "testimonials", "en")
	require.Error(t, err)
	require.Equal(t, "builtin", sec.Source)
	require.NotEmpty(t, sec.Testimonials)
}

func TestSectionUnknownSlug(t *testing.T) {
	s := NewStore(t.TempDir(), time.Minute)
	_, err := s.Section(context.Background(), "press", "en")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Section(context.Background(), "../secrets", "en")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSectionCacheHonoursTTL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en", "about.md", "---\ntitle: First\n---\nbody")
	s := NewStore(dir, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sec, err := s.Section(context.Background(), "about", "en")
	require.NoError(t, err)
	require.Equal(t, "First", sec.Title)

	writeFile(t, dir, "en", "about.md", "---\ntitle: Second\n---\nbody")
	sec, _ = s.Section(context.Background(), "about", "en")
	require.Equal(t, "First", sec.Title)

	now = now.Add(2 * time.Minute)
	sec, _ = s.Section(context.Background(), "about", "en")
	require.Equal(t, "Second", sec.Title)
}

func TestSectionReturnsCopies(t *testing.T) {
	s := NewStore(t.TempDir(), time.Minute)
	sec, err := s.Section(context.Background(), "testimonials", "en")
	require.NoError(t, err)
	sec.Testimonials[0].Quote = "changed"

	again, _ := s.Section(context.Background(), "testimonials", "en")
	require.True(t, strings.HasPrefix(again.Testimonials[0].Quote, "My dog"))
}
