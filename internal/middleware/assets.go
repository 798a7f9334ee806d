package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	assetsCacheControl    = "public, max-age=604800, stale-while-revalidate=86400"
	assetsDevCacheControl = "no-cache"
)

// AssetsWithCache wraps a file server and applies Cache-Control, Vary, and ETag
// handling. ETags are computed once at start-up; in dev they are recomputed per
// request so edited files are picked up.
func AssetsWithCache(dir string, dev bool) http.Handler {
	etags := scanETags(dir)
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Accept-Encoding")
		key := "/" + strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/assets"), "/")
		et := etags[key]
		if dev {
			w.Header().Set("Cache-Control", assetsDevCacheControl)
			et, _ = fileETag(filepath.Join(dir, filepath.FromSlash(key)))
		} else {
			w.Header().Set("Cache-Control", assetsCacheControl)
		}
		if et != "" {
			w.Header().Set("ETag", et)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		fs.ServeHTTP(w, r)
	})
}

func scanETags(dir string) map[string]string {
	etags := map[string]string{}
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		et, err := fileETag(path)
		if err != nil {
			return nil
		}
		if rel, err := filepath.Rel(dir, path); err == nil {
			etags["/"+filepath.ToSlash(rel)] = et
		}
		return nil
	})
	return etags
}

func fileETag(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return `W/"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`, nil
}
