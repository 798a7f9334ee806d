package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pawbox.co.uk/pawbox-web/internal/i18n"
	"pawbox.co.uk/pawbox-web/internal/observability"
)

var testSession = SessionConfig{SigningKey: "test-signing-key"}

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionIssuesSignedCookieAndReadsItBack(t *testing.T) {
	var seen *SessionData
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r)
		_, _ = w.Write([]byte("ok"))
	}), Session(testSession))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := cookieNamed(rec, sessionCookieName)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.NotEmpty(t, seen.ID)
	require.NotEmpty(t, seen.CSRFToken)
	first := *seen

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, first.ID, seen.ID)
	require.Equal(t, first.CSRFToken, seen.CSRFToken)
	require.Nil(t, cookieNamed(rec, sessionCookieName), "unchanged session is not rewritten")
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	var seen *SessionData
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r)
	}), Session(testSession))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := cookieNamed(rec, sessionCookieName)
	require.NotNil(t, c)
	original := seen.ID

	other := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r)
	}), Session(SessionConfig{SigningKey: "another-key"}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	other.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEqual(t, original, seen.ID)
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), HTMX, Session(testSession), CSRF)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), `role="alert"`)
}

func TestCSRFAcceptsHeaderOrFormField(t *testing.T) {
	var token string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFToken(r)
		w.WriteHeader(http.StatusNoContent)
	}), Session(testSession), CSRF)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	sessionCookie := cookieNamed(rec, sessionCookieName)
	csrfCookie := cookieNamed(rec, csrfCookieName)
	require.NotNil(t, sessionCookie)
	require.NotNil(t, csrfCookie)
	require.Equal(t, token, csrfCookie.Value)

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.AddCookie(sessionCookie)
	req.AddCookie(csrfCookie)
	req.Header.Set(csrfHeaderName, token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	form := url.Values{csrfFormField: {token}, "plan": {"basic"}}
	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookie)
	req.AddCookie(csrfCookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.AddCookie(sessionCookie)
	req.AddCookie(csrfCookie)
	req.Header.Set(csrfHeaderName, "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLocaleResolution(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en-us.json"), []byte(`{}`), 0o600))
	bundle, err := i18n.Load(dir, "en", []string{"en", "en-us"})
	require.NoError(t, err)

	var lang string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = Lang(r)
	}), Session(testSession), Locale(bundle))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "en-us", lang)
	require.Equal(t, "en-us", rec.Header().Get("Content-Language"))

	req = httptest.NewRequest(http.MethodGet, "/?hl=en", nil)
	req.Header.Set("Accept-Language", "en-US")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "en", lang)
	require.NotNil(t, cookieNamed(rec, langCookieName))

	req = httptest.NewRequest(http.MethodGet, "/?hl=xx", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "en", lang)
}

func TestLoggerEmitsOneEntryWithStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var fromCtx *zap.Logger
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = observability.FromContext(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	}), HTMX, Logger(zap.New(core)))

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, int64(http.StatusBadGateway), fields["status"])
	require.Equal(t, "/checkout", fields["path"])
	require.Equal(t, true, fields["htmx"])
}

func TestLoggerAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		observability.TraceMiddleware("pawbox-prod"), Logger(zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(observability.CloudTraceHeader, "105445aa7843bc8bf206b12000100000/7;o=1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	fields := logs.All()[0].ContextMap()
	require.Equal(t, "105445aa7843bc8bf206b12000100000", fields["trace_id"])
	require.Equal(t, "projects/pawbox-prod/traces/105445aa7843bc8bf206b12000100000", fields["logging.googleapis.com/trace"])
}

func TestRedirectUsesHXRedirectForHTMX(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Redirect(w, r, "https://checkout.stripe.com/c/pay/cs_1")
	}), HTMX)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", rec.Header().Get("HX-Redirect"))
}

func TestAssetsWithCacheETag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "site.js"), []byte("console.log(1)"), 0o600))
	h := http.StripPrefix("/assets", AssetsWithCache(dir, false))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/js/site.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Equal(t, assetsCacheControl, rec.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/assets/js/site.js", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}
