// Package imagechain resolves an image from an ordered list of candidate sources,
// moving to the next source each time the current one fails to load.
//
// Pages render a Chain at cursor 0 with View; public/assets/js/site.js walks the
// remaining data-fallbacks with the same Fail rules in the browser.
package imagechain

import (
	"html/template"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// HostedPlaceholder is tried after every supplied candidate.
	HostedPlaceholder = "https://placehold.co/1200x900?text=Image+not+available"
	// InlinePlaceholder needs no network fetch and is always the last entry.
	InlinePlaceholder = `data:image/svg+xml;utf8,<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="900"><rect width="100%" height="100%" fill="%23f5f5f5"/><text x="50%" y="50%" dominant-baseline="middle" text-anchor="middle" fill="%23787b80" font-family="Arial" font-size="28">Image unavailable</text></svg>`
)

// Chain is the fallback state of one rendered image. It is not shared
// between images and is not safe for concurrent use.
type Chain struct {
	sources []string
	cursor  int
	loaded  bool
}

// New builds a chain over candidates followed by the two placeholders.
// Empty candidates are skipped; order is otherwise preserved.
func New(candidates ...string) *Chain {
	sources := make([]string, 0, len(candidates)+2)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		sources = append(sources, c)
	}
	sources = append(sources, HostedPlaceholder, InlinePlaceholder)
	return &Chain{sources: sources}
}

// Current is the source that should be displayed now.
func (c *Chain) Current() string {
	return c.sources[c.cursor]
}

// Cursor is the index of Current within Sources.
func (c *Chain) Cursor() int { return c.cursor }

// Sources returns every entry of the chain in try order.
func (c *Chain) Sources() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Requested lists the sources handed out so far.
func (c *Chain) Requested() []string {
	out := make([]string, c.cursor+1)
	copy(out, c.sources[:c.cursor+1])
	return out
}

// Final reports whether the chain is on the inline placeholder.
func (c *Chain) Final() bool {
	return c.cursor == len(c.sources)-1
}

// Fail records a load error for Current and advances to the next source.
// It returns false when nothing changed: the image already loaded or the
// chain is on its last entry.
func (c *Chain) Fail() bool {
	if c.loaded || c.Final() {
		return false
	}
	c.cursor++
	return true
}

// Loaded records that Current displayed successfully.
func (c *Chain) Loaded() {
	c.loaded = true
}

// Image is the template view of a chain.
type Image struct {
	Src   template.URL
	Alt   string
	Class string
	// Fallbacks is the JSON array of sources after Src, for the browser-side cursor.
	Fallbacks string
}

// View renders the chain's current state into an Image.
// Sources are trusted configuration, which is why Src may be a data URI.
func (c *Chain) View(alt, class string) Image {
	rest := c.sources[c.cursor+1:]
	raw, err := json.Marshal(rest)
	if err != nil {
		raw = []byte("[]")
	}
	return Image{
		Src:       template.URL(c.Current()),
		Alt:       alt,
		Class:     class,
		Fallbacks: string(raw),
	}
}

// SoftBackground returns the two decorative corner images of a section.
// The second falls back to the first.
func SoftBackground(images ...string) [2]template.URL {
	var out [2]template.URL
	if len(images) == 0 {
		return out
	}
	out[0] = template.URL(images[0])
	out[1] = out[0]
	if len(images) > 1 && images[1] != "" {
		out[1] = template.URL(images[1])
	}
	return out
}
