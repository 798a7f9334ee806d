package middleware

import (
	"context"
	"net/http"
	"strings"

	"pawbox.co.uk/pawbox-web/internal/i18n"
)

const langCookieName = "hl"

// Locale resolves the preferred language and stores it in the session and the
// `hl` cookie. Precedence: ?hl query, session, cookie, Accept-Language.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)

			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && bundle.IsSupported(q) {
				if s.Locale != q {
					s.Locale = q
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{Name: langCookieName, Value: q, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if s.Locale == "" || !bundle.IsSupported(s.Locale) {
				if c, err := r.Cookie(langCookieName); err == nil && bundle.IsSupported(c.Value) {
					s.Locale = strings.ToLower(c.Value)
				} else {
					s.Locale = bundle.Resolve(r.Header.Get("Accept-Language"))
				}
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", s.Locale)
			next.ServeHTTP(w, r)
		})
	}
}

// Lang returns current lang from session or the bundle fallback.
func Lang(r *http.Request) string {
	if s := GetSession(r); s != nil && s.Locale != "" {
		return s.Locale
	}
	if fb, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && fb != "" {
		return fb
	}
	return "en"
}
