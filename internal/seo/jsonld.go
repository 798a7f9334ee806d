package seo

import (
	"html/template"

	jsoniter "github.com/json-iterator/go"

	"pawbox.co.uk/pawbox-web/internal/format"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for embedding in a JSON-LD script element. <, > and & are
// escaped so the payload cannot close the element.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL, email string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if email != "" {
		m["contactPoint"] = map[string]any{
			"@type":       "ContactPoint",
			"email":       email,
			"contactType": "customer service",
			"areaServed":  "GB",
		}
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// Offer is the price range of a product in minor units.
type Offer struct {
	Currency string
	Low      int64
	High     int64
	Count    int
	URL      string
}

// Product returns a product schema with an AggregateOffer.
func Product(name, description, url, imageURL, sku string, offer Offer) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if sku != "" {
		m["sku"] = sku
	}
	if offer.Count > 0 {
		agg := map[string]any{
			"@type":         "AggregateOffer",
			"priceCurrency": offer.Currency,
			"lowPrice":      format.Major(offer.Low),
			"highPrice":     format.Major(offer.High),
			"offerCount":    offer.Count,
			"availability":  "https://schema.org/InStock",
		}
		if offer.URL != "" {
			agg["url"] = offer.URL
		}
		m["offers"] = agg
	}
	return m
}
