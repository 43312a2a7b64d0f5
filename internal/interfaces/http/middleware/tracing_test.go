package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fms/backend/internal/domain/shared"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prevTP)
	})
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func tracedRouter(status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing(TracingConfig{Enabled: true, ServiceName: "fms-test"}))
	router.Use(SpanErrorMarker())
	router.Use(Actor(shared.SystemActor))
	router.Use(TracingAttributeInjector())
	router.GET("/api/shipment", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func TestTracing_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanWithRouteAndAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)
	router := tracedRouter(http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/shipment", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	req.Header.Set(HeaderUserID, "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/shipment", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-123", v.AsString())

	v, ok = spanAttr(spans[0], "actor")
	require.True(t, ok)
	assert.Equal(t, "alice", v.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status  int
		isError bool
		message string
	}{
		{http.StatusOK, false, ""},
		{http.StatusBadRequest, true, "Client Error"},
		{http.StatusNotFound, true, "Not Found"},
		{http.StatusConflict, true, "Conflict"},
		{http.StatusInternalServerError, true, "Internal Server Error"},
		{http.StatusBadGateway, true, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			sr := setupTestTracer(t)
			router := tracedRouter(tt.status)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shipment", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			if !tt.isError {
				assert.NotEqual(t, codes.Error, spans[0].Status().Code)
				return
			}
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			v, ok := spanAttr(spans[0], SpanAttrErrorClass)
			require.True(t, ok)
			assert.Equal(t, tt.message, v.AsString())
			// otelgin owns the description of 5xx spans
			if tt.status < http.StatusInternalServerError {
				assert.Equal(t, tt.message, spans[0].Status().Description)
			}
		})
	}
}

func TestSpanErrorMarker_WithoutSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(SpanErrorMarker())
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSpanRequestID_HeaderTruncated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(HeaderRequestID, strings.Repeat("a", MaxRequestIDLength+40))

	assert.Len(t, spanRequestID(c), MaxRequestIDLength)
}

func TestSpanRequestID_PrefersContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(HeaderRequestID, "from-header")
	c.Set("request_id", "from-context")

	assert.Equal(t, "from-context", spanRequestID(c))
}
