// Package personalise holds the box personalisation form: the visitor's
// selection and the price quote derived from it.
package personalise

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"pawbox.co.uk/pawbox-web/internal/catalog"
	"pawbox.co.uk/pawbox-web/internal/format"
)

const (
	AnimalDog = "dog"
	AnimalCat = "cat"

	AgeYoung  = "young"
	AgeAdult  = "adult"
	AgeSenior = "senior"

	maxPetNameRunes = 40
)

// Selection is the visitor's form state. It lives only for one request.
type Selection struct {
	AnimalType string          `validate:"oneof=dog cat"`
	AgeBand    string          `validate:"oneof=young adult senior"`
	Weight     catalog.Bracket `validate:"oneof=small medium large"`
	PlanID     string          `validate:"required,plan"`
	PetName    string
}

// FieldError names a form field whose submitted value was replaced by its default.
type FieldError struct {
	Field string
	Value string
}

// Default is the selection shown on first load.
func Default() Selection {
	return Selection{
		AnimalType: AnimalDog,
		AgeBand:    AgeAdult,
		Weight:     catalog.BracketSmall,
		PlanID:     "essential",
	}
}

// formFields maps Selection fields to their form parameter names.
var formFields = map[string]string{
	"AnimalType": "animal",
	"AgeBand":    "age",
	"Weight":     "weight",
	"PlanID":     "plan",
}

var namePolicy = bluemonday.StrictPolicy()

// Parser reads selections against a catalogue.
type Parser struct {
	catalog  *catalog.Catalog
	validate *validator.Validate
}

// NewParser binds the plan validator to cat.
func NewParser(cat *catalog.Catalog) (*Parser, error) {
	if cat == nil {
		return nil, errors.New("personalise: catalog is required")
	}
	v := validator.New()
	err := v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return cat.Has(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("personalise: register plan validator: %w", err)
	}
	return &Parser{catalog: cat, validate: v}, nil
}

// FromValues reads a selection from form or query values. Missing fields take
// their defaults silently; invalid ones also take defaults and are reported.
func (p *Parser) FromValues(values url.Values) (Selection, []FieldError) {
	def := Default()
	sel := Selection{
		AnimalType: pick(values, "animal", def.AnimalType),
		AgeBand:    pick(values, "age", def.AgeBand),
		Weight:     catalog.Bracket(pick(values, "weight", string(def.Weight))),
		PlanID:     pick(values, "plan", def.PlanID),
		PetName:    cleanName(values.Get("name")),
	}
	if sel.AgeBand == "puppy" {
		sel.AgeBand = AgeYoung
	}

	err := p.validate.Struct(sel)
	if err == nil {
		return sel, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return def, nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: formFields[fe.StructField()], Value: toString(fe.Value())})
		switch fe.StructField() {
		case "AnimalType":
			sel.AnimalType = def.AnimalType
		case "AgeBand":
			sel.AgeBand = def.AgeBand
		case "Weight":
			sel.Weight = def.Weight
		case "PlanID":
			sel.PlanID = def.PlanID
		}
	}
	return sel, out
}

// Values encodes the selection back into form parameters.
func (s Selection) Values() url.Values {
	v := url.Values{}
	v.Set("animal", s.AnimalType)
	v.Set("age", s.AgeBand)
	v.Set("weight", string(s.Weight))
	v.Set("plan", s.PlanID)
	if s.PetName != "" {
		v.Set("name", s.PetName)
	}
	return v
}

// Quote is the price panel view for a selection.
type Quote struct {
	Selection    Selection
	PlanName     string
	Features     []string
	Price        int64
	PriceDisplay string
	Summary      string
}

// Quote recomputes the price for sel. It is cheap enough to run on every change.
func (p *Parser) Quote(sel Selection) Quote {
	q := Quote{
		Selection: sel,
		Price:     p.catalog.ResolvePrice(sel.PlanID, sel.Weight),
	}
	if plan, ok := p.catalog.Plan(sel.PlanID); ok {
		q.PlanName = plan.Name
		q.Features = plan.Features
	}
	q.PriceDisplay = format.FmtGBP(q.Price)
	q.Summary = summary(sel, q.PlanName)
	return q
}

func summary(sel Selection, planName string) string {
	var b strings.Builder
	b.WriteString("Calculated for ")
	if sel.PetName != "" {
		b.WriteString(sel.PetName)
		b.WriteString(", ")
	}
	b.WriteString("a ")
	b.WriteString(sel.AnimalType)
	b.WriteString(" ")
	b.WriteString(sel.AgeBand)
	b.WriteString(" — ")
	b.WriteString(sel.Weight.Label())
	b.WriteString(" — plan ")
	b.WriteString(planName)
	b.WriteString(".")
	return b.String()
}

func pick(values url.Values, key, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(values.Get(key)))
	if v == "" {
		return fallback
	}
	return v
}

func cleanName(raw string) string {
	// StrictPolicy escapes entities; templates escape again on output.
	name := html.UnescapeString(namePolicy.Sanitize(raw))
	name = strings.Join(strings.Fields(name), " ")
	if utf8.RuneCountInString(name) > maxPetNameRunes {
		name = strings.TrimSpace(string([]rune(name)[:maxPetNameRunes]))
	}
	return name
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case catalog.Bracket:
		return string(t)
	default:
		return ""
	}
}
