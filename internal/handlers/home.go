package handlers

import (
	"html/template"
	"time"

	"pawbox.co.uk/pawbox-web/internal/catalog"
	"pawbox.co.uk/pawbox-web/internal/cms"
	"pawbox.co.uk/pawbox-web/internal/format"
	"pawbox.co.uk/pawbox-web/internal/imagechain"
	"pawbox.co.uk/pawbox-web/internal/nav"
	"pawbox.co.uk/pawbox-web/internal/seo"
	"pawbox.co.uk/pawbox-web/internal/status"
)

const (
	siteName     = "PawBox UK"
	contactEmail = "hello@pawbox.co.uk"
)

// HomeData is the view model for the landing page.
type HomeData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Nav       []nav.RenderedItem
	FooterNav []nav.RenderedItem
	CTAHref   string
	Banner    *status.Banner

	Hero         HeroData
	Plans        PlansData
	Why          WhyData
	Personalise  PersonaliseData
	Testimonials cms.Section
	About        AboutData

	ContactEmail string
	Year         int
}

// HeroData is the top section.
type HeroData struct {
	Image imagechain.Image
	Soft  [2]template.URL
}

// PlansData is the plan tier section.
type PlansData struct {
	Cards []PlanCard
	Soft  [2]template.URL
}

// PlanCard is one plan tier.
type PlanCard struct {
	ID         string
	Name       string
	Tagline    string
	Features   []string
	Highlight  bool
	Prices     []PriceTile
	ChooseHref string
}

// PriceTile is a plan's price for one weight bracket.
type PriceTile struct {
	Bracket catalog.Bracket
	Label   string
	Display string
}

// WhyData is the comparison section.
type WhyData struct {
	Items []WhyItem
	Image imagechain.Image
	Soft  [2]template.URL
}

// WhyItem is a reason card. Keys are i18n keys.
type WhyItem struct {
	Icon     string
	TitleKey string
	TextKey  string
}

// AboutData wraps the about copy with its image chain.
type AboutData struct {
	cms.Section
	Photo imagechain.Image
	Soft  [2]template.URL
}

var whyItems = []WhyItem{
	{Icon: "leaf", TitleKey: "why.healthy.title", TextKey: "why.healthy.text"},
	{Icon: "truck", TitleKey: "why.delivery.title", TextKey: "why.delivery.text"},
	{Icon: "shield", TitleKey: "why.guarantee.title", TextKey: "why.guarantee.text"},
}

// HomeInput carries everything the landing page is built from.
type HomeInput struct {
	Lang         string
	BaseURL      string
	Catalog      *catalog.Catalog
	Personalise  PersonaliseData
	Banner       *status.Banner
	About        cms.Section
	Testimonials cms.Section
	Analytics    Analytics
	Now          time.Time
}

// BuildHomeData constructs the view model for the landing page.
func BuildHomeData(in HomeInput) HomeData {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	about := AboutData{
		Section: in.About,
		Soft:    imagechain.SoftBackground(aboutSoft...),
	}
	about.Photo = imagechain.New(in.About.Image).View(firstNonEmpty(in.About.ImageAlt, "Owner and dog"), "w-full h-full object-cover")

	return HomeData{
		Title:     siteName,
		Lang:      in.Lang,
		SEO:       buildSEO(in),
		Analytics: in.Analytics,
		Nav:       nav.Build(nav.Main, ""),
		FooterNav: nav.Build(nav.Footer, ""),
		CTAHref:   nav.CTA,
		Banner:    in.Banner,
		Hero: HeroData{
			Image: imagechain.New(heroImages...).View("Relaxed cat", "w-full h-full object-cover"),
			Soft:  imagechain.SoftBackground(heroSoft...),
		},
		Plans: PlansData{
			Cards: planCards(in.Catalog),
			Soft:  imagechain.SoftBackground(plansSoft...),
		},
		Why: WhyData{
			Items: whyItems,
			Image: imagechain.New(whyImages...).View("Cat and dog together", "w-full h-full object-cover"),
			Soft:  imagechain.SoftBackground(whySoft...),
		},
		Personalise:  in.Personalise,
		Testimonials: in.Testimonials,
		About:        about,
		ContactEmail: contactEmail,
		Year:         in.Now.Year(),
	}
}

func planCards(cat *catalog.Catalog) []PlanCard {
	plans := cat.Plans()
	cards := make([]PlanCard, 0, len(plans))
	for _, p := range plans {
		card := PlanCard{
			ID:         p.ID,
			Name:       p.Name,
			Tagline:    p.Tagline,
			Features:   p.Features,
			Highlight:  p.Highlight,
			ChooseHref: "/?plan=" + p.ID + "#personalise",
		}
		for _, b := range catalog.Brackets() {
			card.Prices = append(card.Prices, PriceTile{
				Bracket: b,
				Label:   b.Label(),
				Display: format.FmtGBP(p.Price(b)),
			})
		}
		cards = append(cards, card)
	}
	return cards
}

func buildSEO(in HomeInput) seo.Meta {
	canonical := seo.Absolute(in.BaseURL, "/")
	description := "Premium monthly boxes for dogs and cats: healthy treats, quality accessories and little surprises. Fast UK delivery."
	image := heroImages[0]

	meta := seo.Meta{
		Title:       "PawBox UK – A premium monthly box for dogs & cats",
		Description: description,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: seo.OpenGraph{
			Title:       siteName,
			Description: description,
			Image:       image,
			Type:        "website",
			URL:         canonical,
			SiteName:    siteName,
			Locale:      seo.OGLocale(in.Lang),
		},
		Twitter: seo.Twitter{Card: "summary_large_image", Image: image},
	}

	meta.JSONLD = append(meta.JSONLD,
		seo.Script(seo.Organization(siteName, canonical, seo.Absolute(in.BaseURL, "/assets/img/logo.svg"), contactEmail)),
		seo.Script(seo.WebSite(siteName, canonical, in.Lang)),
	)
	for _, p := range in.Catalog.Plans() {
		low, high := p.PriceRange()
		meta.JSONLD = append(meta.JSONLD, seo.Script(seo.Product(
			siteName+" "+p.Name,
			p.Tagline,
			seo.Absolute(in.BaseURL, "/#plans"),
			image,
			p.ID,
			seo.Offer{Currency: "GBP", Low: low, High: high, Count: len(catalog.Brackets()), URL: seo.Absolute(in.BaseURL, "/?plan="+p.ID+"#personalise")},
		)))
	}
	return meta
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
