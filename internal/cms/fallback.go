package cms

import "html/template"

const (
	SlugAbout        = "about"
	SlugTestimonials = "testimonials"
)

var fallbackSections = map[string]Section{
	SlugAbout: {
		Slug:     SlugAbout,
		Lang:     defaultLang,
		Title:    "About PawBox",
		Body:     template.HTML("<p>Small UK-based team, focused on pet wellbeing. We minimise packaging and favour useful, healthy products.</p>"),
		Image:    "https://images.unsplash.com/photo-1534361960057-19889db9621e?q=80&w=1600&auto=format&fit=crop",
		ImageAlt: "Owner and dog",
		Points: []Point{
			{Icon: "leaf", Text: "Recyclable packaging"},
			{Icon: "truck", Text: "UK logistics partners"},
			{Icon: "shield", Text: "30-day money-back guarantee"},
		},
		Source: "builtin",
	},
	SlugTestimonials: {
		Slug:    SlugTestimonials,
		Lang:    defaultLang,
		Title:   "Loved already",
		Summary: "A few words from UK customers.",
		Testimonials: []Testimonial{
			{Quote: "My dog waits for PawBox every month!", Author: "Emily, London"},
			{Quote: "Perfect for our senior cat, great quality.", Author: "James, Manchester"},
			{Quote: "Brilliant support and flexible plans.", Author: "Sophie, Bristol"},
		},
		Source: "builtin",
	},
}

// Fallback returns the built-in copy for slug.
func Fallback(slug string) (Section, bool) {
	sec, ok := fallbackSections[slug]
	if !ok {
		return Section{}, false
	}
	return cloneSection(sec), true
}
