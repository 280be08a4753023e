package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func serve(status int, method, path string, header http.Header) *httptest.ResponseRecorder {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_CreatesServerSpan(t *testing.T) {
	exporter := installRecorder(t)

	serve(http.StatusOK, http.MethodGet, "/digest?limit=3", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /digest", span.Name)
	assert.Equal(t, trace.SpanKindServer, span.SpanKind)

	v, ok := attrValue(span.Attributes, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(200), v.AsInt64())
	v, ok = attrValue(span.Attributes, "http.route")
	require.True(t, ok)
	assert.Equal(t, "/digest", v.AsString())
}

func TestMiddleware_UnknownPathsShareSpanName(t *testing.T) {
	exporter := installRecorder(t)

	serve(http.StatusNotFound, http.MethodGet, "/wp-admin/setup.php", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /other", spans[0].Name)
}

func TestMiddleware_AddsTraceIDToResponse(t *testing.T) {
	exporter := installRecorder(t)

	rec := serve(http.StatusOK, http.MethodGet, "/health", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, spans[0].SpanContext.TraceID().String(), rec.Header().Get(TraceIDHeader))
}

func TestMiddleware_ContinuesIncomingTrace(t *testing.T) {
	exporter := installRecorder(t)

	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	serve(http.StatusOK, http.MethodGet, "/digest", http.Header{"Traceparent": {traceparent}})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
}

func TestMiddleware_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   codes.Code
	}{
		{name: "success", status: http.StatusOK, want: codes.Unset},
		{name: "client error", status: http.StatusBadRequest, want: codes.Unset},
		{name: "server error", status: http.StatusServiceUnavailable, want: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installRecorder(t)

			serve(tt.status, http.MethodGet, "/digest", nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.want, spans[0].Status.Code)
		})
	}
}
