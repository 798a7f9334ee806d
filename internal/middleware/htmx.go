package middleware

import (
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		ctx := WithHTMX(r.Context(), is)
		if is {
			// fragments and full pages share URLs
			w.Header().Add("Vary", "HX-Request")
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HXTarget returns the id of the element htmx will swap, if any.
func HXTarget(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// Redirect sends the browser to url. htmx requests get an HX-Redirect header
// so the whole page navigates instead of swapping a fragment.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
