package personalise

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"pawbox.co.uk/pawbox-web/internal/catalog"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	p, err := NewParser(cat)
	require.NoError(t, err)
	return p
}

func TestNewParserRequiresCatalog(t *testing.T) {
	_, err := NewParser(nil)
	require.Error(t, err)
}

func TestFromValuesEmptyUsesDefaults(t *testing.T) {
	p := newParser(t)
	sel, errs := p.FromValues(url.Values{})
	require.Empty(t, errs)
	require.Equal(t, Default(), sel)
}

func TestFromValuesReadsValidSelection(t *testing.T) {
	p := newParser(t)
	sel, errs := p.FromValues(url.Values{
		"animal": {"Cat"},
		"age":    {"senior"},
		"weight": {"large"},
		"plan":   {"premium"},
		"name":   {"  Miss   Whiskers "},
	})
	require.Empty(t, errs)
	require.Equal(t, Selection{
		AnimalType: AnimalCat,
		AgeBand:    AgeSenior,
		Weight:     catalog.BracketLarge,
		PlanID:     "premium",
		PetName:    "Miss Whiskers",
	}, sel)
}

func TestFromValuesReplacesInvalidFields(t *testing.T) {
	p := newParser(t)
	sel, errs := p.FromValues(url.Values{
		"animal": {"hamster"},
		"weight": {"huge"},
		"plan":   {"platinum"},
		"age":    {"young"},
	})
	require.Len(t, errs, 3)
	fields := map[string]string{}
	for _, fe := range errs {
		fields[fe.Field] = fe.Value
	}
	require.Equal(t, map[string]string{"animal": "hamster", "weight": "huge", "plan": "platinum"}, fields)
	require.Equal(t, AnimalDog, sel.AnimalType)
	require.Equal(t, AgeYoung, sel.AgeBand)
	require.Equal(t, catalog.BracketSmall, sel.Weight)
	require.Equal(t, "essential", sel.PlanID)
}

func TestFromValuesAcceptsPuppyAlias(t *testing.T) {
	p := newParser(t)
	sel, errs := p.FromValues(url.Values{"age": {"puppy"}})
	require.Empty(t, errs)
	require.Equal(t, AgeYoung, sel.AgeBand)
}

func TestPetNameIsSanitisedAndCapped(t *testing.T) {
	p := newParser(t)
	sel, _ := p.FromValues(url.Values{"name": {"<b>Rocky</b><script>alert(1)</script> & Co"}})
	require.Equal(t, "Rocky & Co", sel.PetName)

	long := "Sir Barksalot the Magnificent of Little Whinging"
	sel, _ = p.FromValues(url.Values{"name": {long}})
	require.Equal(t, "Sir Barksalot the Magnificent of Little", sel.PetName)
}

func TestQuoteResolvesPrice(t *testing.T) {
	p := newParser(t)
	sel := Default()
	sel.Weight = catalog.BracketMedium

	q := p.Quote(sel)
	require.Equal(t, int64(3699), q.Price)
	require.Equal(t, "£36.99", q.PriceDisplay)
	require.Equal(t, "Essential", q.PlanName)
	require.Equal(t, []string{"Tailored recipes", "2 healthy treats", "Durable toy"}, q.Features)
	require.Equal(t, "Calculated for a dog adult — 10–20 kg — plan Essential.", q.Summary)
}

func TestQuoteRecomputesOnEveryChange(t *testing.T) {
	p := newParser(t)
	sel := Default()
	prices := []int64{}
	for _, plan := range []string{"basic", "essential", "premium"} {
		for _, b := range catalog.Brackets() {
			sel.PlanID, sel.Weight = plan, b
			prices = append(prices, p.Quote(sel).Price)
		}
	}
	require.Equal(t, []int64{2199, 2499, 2799, 3299, 3699, 3999, 4999, 5499, 5999}, prices)
}

func TestQuoteUnknownPlanIsZero(t *testing.T) {
	p := newParser(t)
	sel := Default()
	sel.PlanID = "ghost"
	q := p.Quote(sel)
	require.Zero(t, q.Price)
	require.Equal(t, "£0.00", q.PriceDisplay)
	require.Empty(t, q.Features)
}

func TestSelectionValuesRoundTrip(t *testing.T) {
	p := newParser(t)
	in := Selection{AnimalType: AnimalCat, AgeBand: AgeYoung, Weight: catalog.BracketMedium, PlanID: "basic", PetName: "Tom"}
	out, errs := p.FromValues(in.Values())
	require.Empty(t, errs)
	require.Equal(t, in, out)
}

func TestOptionsMarkSelection(t *testing.T) {
	p := newParser(t)
	opts := p.PlanOptions("premium")
	require.Len(t, opts, 3)
	require.True(t, opts[2].Selected)
	require.False(t, opts[0].Selected)

	w := WeightOptions(catalog.BracketLarge)
	require.Equal(t, ">20 kg", w[2].Label)
	require.True(t, w[2].Selected)

	require.True(t, AgeOptions(AgeSenior)[2].Selected)
	require.True(t, AnimalOptions(AnimalCat)[1].Selected)
}
