package main

import (
	"net/http"

	"go.uber.org/zap"

	"pawbox.co.uk/pawbox-web/internal/catalog"
	"pawbox.co.uk/pawbox-web/internal/checkout"
	handlersPkg "pawbox.co.uk/pawbox-web/internal/handlers"
	mw "pawbox.co.uk/pawbox-web/internal/middleware"
	"pawbox.co.uk/pawbox-web/internal/observability"
	"pawbox.co.uk/pawbox-web/internal/personalise"
	"pawbox.co.uk/pawbox-web/internal/status"
)

// CheckoutHandler hands the chosen plan and weight to the hosted checkout.
// When checkout is not configured the visitor gets a notice and no call is made.
func (a *app) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sel, invalid := a.readSelection(r, selectionFromForm(r))
	planID, bracket := checkoutTarget(sel, invalid)
	if _, err := a.catalog.Lookup(planID, bracket); err != nil {
		observability.FromContext(r.Context()).Warn("checkout.unknown_target", zap.Error(err))
	}

	res := a.handoff.Begin(r.Context(), checkout.Request{
		PlanID:     planID,
		Bracket:    bracket,
		SuccessURL: status.ReturnURL(a.cfg.Server.BaseURL, status.StateSuccess),
		CancelURL:  status.ReturnURL(a.cfg.Server.BaseURL, status.StateCancel),
		Locale:     lang,
	})
	observability.FromContext(r.Context()).Info("checkout",
		zap.String("plan", planID),
		zap.String("weight", string(bracket)),
		zap.String("result", res.Kind.String()),
	)

	var (
		notice *handlersPkg.Notice
		code   = http.StatusOK
	)
	switch res.Kind {
	case checkout.Ready:
		mw.Redirect(w, r, res.RedirectURL)
		return
	case checkout.Failed:
		notice = handlersPkg.ErrorNotice(
			a.i18nOrDefault(lang, "checkout.failed.title", "Checkout unavailable"),
			res.Notice,
		)
		code = http.StatusBadGateway
	default:
		notice = handlersPkg.InfoNotice(
			a.i18nOrDefault(lang, "checkout.demo.title", "Demo mode"),
			a.i18nOrDefault(lang, "checkout.demo.body", res.Notice),
		)
	}

	if mw.IsHTMX(r.Context()) {
		a.renderStatus(w, r, code, "c_inline_alert", notice)
		return
	}
	vm := a.homeData(r, sel, invalid)
	vm.Personalise.Notice = notice
	a.renderStatus(w, r, code, "page_home", vm)
}

// checkoutTarget returns the plan and weight to check out. Submitted values
// the form rejected are passed through untouched so they resolve to no price
// reference instead of silently buying the default.
func checkoutTarget(sel personalise.Selection, invalid []personalise.FieldError) (string, catalog.Bracket) {
	planID, bracket := sel.PlanID, sel.Weight
	for _, fe := range invalid {
		switch fe.Field {
		case "plan":
			planID = fe.Value
		case "weight":
			bracket = catalog.Bracket(fe.Value)
		}
	}
	return planID, bracket
}
