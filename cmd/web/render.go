package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	mw "pawbox.co.uk/pawbox-web/internal/middleware"
	"pawbox.co.uk/pawbox-web/internal/observability"
)

func (a *app) parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			return a.i18n.T(lang, key)
		},
		"tOr": func(lang, key, def string) string {
			return a.i18nOrDefault(lang, key, def)
		},
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"contains": func(list []string, v string) bool {
			for _, item := range list {
				if item == v {
					return true
				}
			}
			return false
		},
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(a.templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", a.templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

// templates returns the parsed set. In dev mode, templates are reparsed on each request.
func (a *app) templates() (*template.Template, error) {
	if a.devMode {
		return a.parseTemplates()
	}
	if a.tmplCache == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return a.tmplCache, nil
}

// renderPage executes page_<name> with a 200 status.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	a.renderStatus(w, r, http.StatusOK, "page_"+name, data)
}

// renderTemplate executes a named fragment with a 200 status.
func (a *app) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	a.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus buffers the output so a template error never leaves a half-written page.
func (a *app) renderStatus(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	t, err := a.templates()
	if err != nil {
		observability.FromContext(r.Context()).Error("template parse", zap.Error(err))
		http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		observability.FromContext(r.Context()).Error("template exec", zap.String("template", name), zap.Error(err))
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// i18nOrDefault returns the translation for key, or def when the bundle has none.
func (a *app) i18nOrDefault(lang, key, def string) string {
	if a.i18n == nil {
		return def
	}
	if v := a.i18n.T(lang, key); v != "" && v != key {
		return v
	}
	return def
}
