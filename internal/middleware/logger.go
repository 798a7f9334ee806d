package middleware

import (
	"net/http"
	"strings"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pawbox.co.uk/pawbox-web/internal/observability"
)

// Logger stores a request-scoped zap logger on the context and emits one
// structured entry per request.
func Logger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := chiMid.GetReqID(r.Context())
			logger := base.With(
				zap.String("request_id", rid),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			if info, ok := observability.TraceFromContext(r.Context()); ok && info.TraceID != "" {
				logger = logger.With(zap.String("trace_id", info.TraceID))
				if res := info.LoggingResource(); res != "" {
					logger = logger.With(zap.String("logging.googleapis.com/trace", res))
				}
			}
			ctx := observability.WithLogger(r.Context(), logger)
			if rid != "" {
				ctx = WithRequestID(ctx, rid)
			}

			rw := NewResponseRecorder(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			fields := []zap.Field{
				zap.Int("status", rw.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", rw.BytesWritten()),
				zap.String("remote_ip", clientIP(r)),
				zap.Bool("htmx", IsHTMX(r.Context())),
			}
			switch {
			case rw.Status() >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case rw.Status() >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	// Cloud Run appends the client address last.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
