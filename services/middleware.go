package services

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// route wraps h with, from the outside in: tracing, metrics, access log and
// panic recovery. The span has to exist before the duration exemplar and the
// access log read its trace id.
func (s *Server) route(name string, h http.HandlerFunc) http.Handler {
	return s.applyMiddlewares(h,
		s.recoverMiddleware(),
		s.loggerMiddleware(),
		s.metricsMiddleware(name),
		s.traceMiddleware(name),
	)
}

func (s *Server) applyMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, middleware := range middlewares {
		h = middleware(h)
	}
	return h
}

func (s *Server) metricsMiddleware(name string) func(http.Handler) http.Handler {
	observer := s.metrics.RequestDuration.MustCurryWith(prometheus.Labels{"handler": name})
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(observer, next, promhttp.WithExemplarFromContext(exemplarFromContext))
	}
}

func exemplarFromContext(ctx context.Context) prometheus.Labels {
	if span := trace.SpanContextFromContext(ctx); span.IsSampled() {
		return prometheus.Labels{"traceID": span.TraceID().String()}
	}
	return nil
}

func (s *Server) traceMiddleware(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := s.tracer.Start(ctx, "HTTP "+name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) loggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			args := []any{
				"msg", "access",
				"method", r.Method,
				"url", r.URL.Path,
				"status", rec.status,
				"userAgent", r.Header.Get("User-Agent"),
				"latency", time.Since(start),
			}
			if span := trace.SpanContextFromContext(r.Context()); span.IsSampled() {
				args = append(args, "traceID", span.TraceID().String())
			}
			level.Info(s.logger).Log(args...)
		})
	}
}

func (s *Server) recoverMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					s.metrics.PanicsRecovered.Inc()
					level.Error(s.logger).Log("msg", "recovered from panic", "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
