// Package nav defines the landing page navigation. Every entry is an in-page anchor.
package nav

import "strings"

// Item represents a navigation entry.
type Item struct {
	Anchor   string // section id, e.g. "plans"
	LabelKey string // i18n key, e.g. "nav.plans"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Main is the header navigation, in display order.
var Main = []Item{
	{Anchor: "plans", LabelKey: "nav.plans"},
	{Anchor: "why", LabelKey: "nav.why"},
	{Anchor: "personalise", LabelKey: "nav.personalise"},
	{Anchor: "about", LabelKey: "nav.about"},
	{Anchor: "contact", LabelKey: "nav.contact"},
}

// Footer is the shorter link list shown in the footer.
var Footer = []Item{
	{Anchor: "plans", LabelKey: "nav.plans"},
	{Anchor: "personalise", LabelKey: "nav.personalise"},
	{Anchor: "about", LabelKey: "nav.about"},
}

// CTA is the "Get started" target.
const CTA = "#personalise"

// Build renders items, marking the one matching the current fragment active.
// Fragments never reach the server, so current is only set by callers that know
// it, such as a no-JS form post that returns to #personalise.
func Build(items []Item, current string) []RenderedItem {
	current = strings.TrimPrefix(current, "#")
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:     "#" + it.Anchor,
			LabelKey: it.LabelKey,
			Active:   current != "" && current == it.Anchor,
		})
	}
	return out
}
