package main

import (
	"net/http"

	handlersPkg "pawbox.co.uk/pawbox-web/internal/handlers"
	mw "pawbox.co.uk/pawbox-web/internal/middleware"
)

// PersonaliseQuoteFrag re-renders the quote panel for the submitted selection.
// Invalid values fall back to their defaults and are flagged in the panel.
func (a *app) PersonaliseQuoteFrag(w http.ResponseWriter, r *http.Request) {
	sel, invalid := a.readSelection(r, r.URL.Query())
	data := handlersPkg.BuildPersonalise(mw.Lang(r), a.parser, sel, invalid)
	data.CSRFToken = mw.CSRFToken(r)

	if !mw.IsHTMX(r.Context()) {
		// plain GET without htmx: land on the page with the same selection
		http.Redirect(w, r, quotePushURL(sel)+"#personalise", http.StatusSeeOther)
		return
	}
	w.Header().Set("HX-Replace-Url", quotePushURL(sel))
	a.renderTemplate(w, r, "frag_quote_panel", data)
}
