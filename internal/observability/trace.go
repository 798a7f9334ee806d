package observability

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CloudTraceHeader is the trace header set by Google front ends.
const CloudTraceHeader = "X-Cloud-Trace-Context"

var tracer = otel.Tracer("pawbox.co.uk/pawbox-web/internal/observability")

type traceKey struct{}

// TraceInfo is the trace metadata carried on the request context.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// LoggingResource is the Cloud Logging trace field value, empty without a project.
func (t TraceInfo) LoggingResource() string {
	if t.ProjectID == "" || t.TraceID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/traces/%s", t.ProjectID, t.TraceID)
}

// WithTrace stores info on ctx.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	return context.WithValue(ctx, traceKey{}, info)
}

// TraceFromContext returns the trace metadata stored by TraceMiddleware.
func TraceFromContext(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceKey{}).(TraceInfo)
	return info, ok
}

// TraceMiddleware continues the caller's Cloud Trace context when present and
// starts a server span for the request.
func TraceMiddleware(projectID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if remote, ok := parseCloudTrace(r.Header.Get(CloudTraceHeader)); ok {
				ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
			}

			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			sc := span.SpanContext()
			info := TraceInfo{ProjectID: projectID, Sampled: sc.IsSampled()}
			if sc.HasTraceID() {
				info.TraceID = sc.TraceID().String()
				info.SpanID = sc.SpanID().String()
				w.Header().Set(CloudTraceHeader, formatCloudTrace(sc))
			}
			next.ServeHTTP(w, r.WithContext(WithTrace(ctx, info)))
		})
	}
}

// parseCloudTrace reads "TRACE_ID/SPAN_ID;o=OPTIONS". SPAN_ID is decimal.
func parseCloudTrace(header string) (trace.SpanContext, bool) {
	header = strings.TrimSpace(header)
	traceHex, rest, ok := strings.Cut(header, "/")
	if !ok || len(traceHex) != 32 {
		return trace.SpanContext{}, false
	}
	traceID, err := trace.TraceIDFromHex(strings.ToLower(traceHex))
	if err != nil {
		return trace.SpanContext{}, false
	}
	spanPart, options, _ := strings.Cut(rest, ";")
	n, err := strconv.ParseUint(strings.TrimSpace(spanPart), 10, 64)
	if err != nil || n == 0 {
		return trace.SpanContext{}, false
	}
	var spanID trace.SpanID
	binary.BigEndian.PutUint64(spanID[:], n)

	var flags trace.TraceFlags
	if strings.TrimSpace(options) == "o=1" {
		flags = trace.FlagsSampled
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}), true
}

func formatCloudTrace(sc trace.SpanContext) string {
	sid := sc.SpanID()
	option := "0"
	if sc.IsSampled() {
		option = "1"
	}
	return sc.TraceID().String() + "/" + strconv.FormatUint(binary.BigEndian.Uint64(sid[:]), 10) + ";o=" + option
}
