package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/telemetry"
)

func setupTestMeter(t *testing.T) (*telemetry.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func metricsRouter(mp *telemetry.MeterProvider) *gin.Engine {
	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{MeterProvider: mp, Enabled: true}))
	router.Use(Actor(shared.SystemActor))
	router.GET("/api/shipment", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rows": []int{}})
	})
	router.POST("/api/shipment", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})
	return router
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{MeterProvider: mp, Enabled: false}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, findMetricByName(collectMetrics(t, reader), "http_server_request_total"))
}

func TestHTTPMetrics_NilMeterProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: true}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetrics_RequestCounterAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)
	router := metricsRouter(mp)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/shipment", nil)
		req.Header.Set(HeaderUserID, "alice")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	router.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/api/shipment", strings.NewReader(`{"a":1}`)))

	m := findMetricByName(collectMetrics(t, reader), "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	byMethod := map[string]metricdata.DataPoint[int64]{}
	for _, dp := range sum.DataPoints {
		method, _ := dp.Attributes.Value(telemetry.AttrHTTPMethod)
		byMethod[method.AsString()] = dp
	}

	get := byMethod[http.MethodGet]
	assert.Equal(t, int64(3), get.Value)
	route, _ := get.Attributes.Value(telemetry.AttrHTTPRoute)
	assert.Equal(t, "/api/shipment", route.AsString())
	actor, _ := get.Attributes.Value(telemetry.AttrActor)
	assert.Equal(t, "alice", actor.AsString())
	status, _ := get.Attributes.Value(telemetry.AttrHTTPStatusCode)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())

	post := byMethod[http.MethodPost]
	assert.Equal(t, int64(1), post.Value)
	actor, _ = post.Attributes.Value(telemetry.AttrActor)
	assert.Equal(t, shared.SystemActor.String(), actor.AsString())
	status, _ = post.Attributes.Value(telemetry.AttrHTTPStatusCode)
	assert.Equal(t, int64(http.StatusBadRequest), status.AsInt64())
}

func TestHTTPMetrics_DurationAndSizes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)
	router := metricsRouter(mp)

	router.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/api/shipment", strings.NewReader(`{"polPortCd":"CNSHA"}`)))

	rm := collectMetrics(t, reader)

	for _, name := range []string{
		"http_server_request_duration_seconds",
		"http_server_request_size_bytes",
		"http_server_response_size_bytes",
	} {
		m := findMetricByName(rm, name)
		require.NotNil(t, m, name)
		hist, ok := m.Data.(metricdata.Histogram[float64])
		require.True(t, ok, name)
		require.Len(t, hist.DataPoints, 1, name)
		assert.Equal(t, uint64(1), hist.DataPoints[0].Count, name)
		_, hasStatus := hist.DataPoints[0].Attributes.Value(telemetry.AttrHTTPStatusCode)
		assert.False(t, hasStatus, name)
	}
}

func TestHTTPMetrics_ActiveRequestsReturnToZero(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	m := findMetricByName(collectMetrics(t, reader), "http_server_active_requests")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(0), sum.DataPoints[0].Value)
}

func TestRoutePattern_Unmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/42", nil))

	m := findMetricByName(collectMetrics(t, reader), "http_server_request_total")
	require.NotNil(t, m)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	route, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	assert.Equal(t, "unknown", route.AsString())
}
