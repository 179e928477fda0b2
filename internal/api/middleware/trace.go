package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for request spans.
const TracerName = "github.com/phrazzld/quill-api/internal/api"

// TraceIDHeader carries the request's trace id back to the client.
const TraceIDHeader = "X-Trace-Id"

// TraceOption configures the Trace middleware.
type TraceOption func(*traceOptions)

type traceOptions struct {
	provider trace.TracerProvider
}

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(o *traceOptions) {
		o.provider = tp
	}
}

// Trace starts a server span for each request, continuing any W3C trace
// context sent by the caller. The span's trace id (or a random one when
// tracing is a no-op) is stored in the context, echoed in X-Trace-Id and
// attached to a request-scoped logger.
//
// The span is renamed to "METHOD /route/{pattern}" once routing has run, so
// span names stay bounded no matter which ids appear in the path.
func Trace(base *slog.Logger, opts ...TraceOption) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	o := traceOptions{provider: otel.GetTracerProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	tracer := o.provider.Tracer(TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			traceID := shared.NewTraceID(ctx)
			ctx = shared.WithTraceID(ctx, traceID)
			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)
			w.Header().Set(TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}
