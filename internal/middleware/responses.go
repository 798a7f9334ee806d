package middleware

import (
	"html"
	"net/http"
)

// writeError answers htmx requests with a swappable alert fragment and
// everything else with plain text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`<div class="alert alert-error" role="alert">` + html.EscapeString(msg) + `</div>`))
		return
	}
	http.Error(w, msg, code)
}
