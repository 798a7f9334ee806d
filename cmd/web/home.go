package main

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"pawbox.co.uk/pawbox-web/internal/cms"
	handlersPkg "pawbox.co.uk/pawbox-web/internal/handlers"
	mw "pawbox.co.uk/pawbox-web/internal/middleware"
	"pawbox.co.uk/pawbox-web/internal/observability"
	"pawbox.co.uk/pawbox-web/internal/personalise"
	"pawbox.co.uk/pawbox-web/internal/status"
)

// HomeHandler renders the landing page. The query may preselect the form
// (?plan=premium&weight=large) and carry the checkout return (?status=success).
func (a *app) HomeHandler(w http.ResponseWriter, r *http.Request) {
	sel, invalid := a.readSelection(r, r.URL.Query())
	vm := a.homeData(r, sel, invalid)
	a.renderPage(w, r, "home", vm)
}

func (a *app) homeData(r *http.Request, sel personalise.Selection, invalid []personalise.FieldError) handlersPkg.HomeData {
	lang := mw.Lang(r)
	ctx := r.Context()

	pd := handlersPkg.BuildPersonalise(lang, a.parser, sel, invalid)
	pd.CSRFToken = mw.CSRFToken(r)

	var banner *status.Banner
	if b, ok := status.FromQuery(r.URL.Query().Get("status")); ok {
		banner = &b
	}

	vm := handlersPkg.BuildHomeData(handlersPkg.HomeInput{
		Lang:         lang,
		BaseURL:      a.cfg.Server.BaseURL,
		Catalog:      a.catalog,
		Personalise:  pd,
		Banner:       banner,
		About:        a.section(ctx, cms.SlugAbout, lang),
		Testimonials: a.section(ctx, cms.SlugTestimonials, lang),
		Analytics:    a.analytics,
	})
	vm.Title = a.i18nOrDefault(lang, "brand.name", vm.Title)
	return vm
}

// section loads editable copy. Errors are logged and the built-in copy is used.
func (a *app) section(ctx context.Context, slug, lang string) cms.Section {
	sec, err := a.content.Section(ctx, slug, lang)
	if err != nil {
		observability.FromContext(ctx).Warn("content section",
			zap.String("slug", slug),
			zap.String("lang", lang),
			zap.Error(err),
		)
		if sec.Slug == "" {
			if fb, ok := cms.Fallback(slug); ok {
				return fb
			}
		}
	}
	return sec
}

// readSelection parses the form state and logs the fields that fell back to defaults.
func (a *app) readSelection(r *http.Request, values url.Values) (personalise.Selection, []personalise.FieldError) {
	sel, invalid := a.parser.FromValues(values)
	if len(invalid) > 0 {
		fields := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, fe.Field+"="+fe.Value)
		}
		observability.FromContext(r.Context()).Info("personalise.invalid_selection", zap.Strings("fields", fields))
	}
	return sel, invalid
}

// quotePushURL is the address bar location matching a selection.
func quotePushURL(sel personalise.Selection) string {
	return "/?" + sel.Values().Encode()
}

// selectionFromForm reads the selection without letting the query string override the body.
func selectionFromForm(r *http.Request) url.Values {
	if err := r.ParseForm(); err != nil {
		return url.Values{}
	}
	if r.Method == http.MethodPost {
		return r.PostForm
	}
	return r.Form
}
