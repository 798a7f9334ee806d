package handlers

import (
	"pawbox.co.uk/pawbox-web/internal/imagechain"
	"pawbox.co.uk/pawbox-web/internal/personalise"
)

// Notice is the view model of the c_inline_alert template.
type Notice struct {
	Tone  string // "info", "success" or "error"
	Icon  string
	Title string
	Body  string
}

// InfoNotice is shown when checkout is not configured.
func InfoNotice(title, body string) *Notice {
	return &Notice{Tone: "info", Icon: "information-circle", Title: title, Body: body}
}

// ErrorNotice carries a hosted checkout error.
func ErrorNotice(title, body string) *Notice {
	return &Notice{Tone: "error", Icon: "exclamation-triangle", Title: title, Body: body}
}

// PersonaliseData is the form and quote panel of the personalise section.
type PersonaliseData struct {
	Lang    string
	Animals []personalise.Option
	Ages    []personalise.Option
	Weights []personalise.Option
	Plans   []personalise.Option
	PetName string
	Quote   personalise.Quote
	Image   imagechain.Image
	Notice  *Notice
	// Invalid lists the form fields whose submitted values were replaced.
	Invalid   []string
	CSRFToken string
}

// BuildPersonalise recomputes the quote for sel and fills the select options.
func BuildPersonalise(lang string, p *personalise.Parser, sel personalise.Selection, invalid []personalise.FieldError) PersonaliseData {
	data := PersonaliseData{
		Lang:    lang,
		Animals: personalise.AnimalOptions(sel.AnimalType),
		Ages:    personalise.AgeOptions(sel.AgeBand),
		Weights: personalise.WeightOptions(sel.Weight),
		Plans:   p.PlanOptions(sel.PlanID),
		PetName: sel.PetName,
		Quote:   p.Quote(sel),
		Image:   imagechain.New(quoteImages...).View("Snack", "w-full h-full object-cover"),
	}
	for _, fe := range invalid {
		data.Invalid = append(data.Invalid, fe.Field)
	}
	return data
}
