package personalise

import "pawbox.co.uk/pawbox-web/internal/catalog"

// Option is one <option> of a form select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// AnimalOptions lists the pet types.
func AnimalOptions(selected string) []Option {
	return mark([]Option{
		{Value: AnimalDog, Label: "Dog"},
		{Value: AnimalCat, Label: "Cat"},
	}, selected)
}

// AgeOptions lists the age bands.
func AgeOptions(selected string) []Option {
	return mark([]Option{
		{Value: AgeYoung, Label: "Young"},
		{Value: AgeAdult, Label: "Adult"},
		{Value: AgeSenior, Label: "Senior"},
	}, selected)
}

// WeightOptions lists the weight brackets with their kg ranges.
func WeightOptions(selected catalog.Bracket) []Option {
	opts := make([]Option, 0, 3)
	for _, b := range catalog.Brackets() {
		opts = append(opts, Option{Value: string(b), Label: b.Label()})
	}
	return mark(opts, string(selected))
}

// PlanOptions lists the catalogued plans.
func (p *Parser) PlanOptions(selected string) []Option {
	plans := p.catalog.Plans()
	opts := make([]Option, 0, len(plans))
	for _, plan := range plans {
		opts = append(opts, Option{Value: plan.ID, Label: plan.Name})
	}
	return mark(opts, selected)
}

func mark(opts []Option, selected string) []Option {
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}
