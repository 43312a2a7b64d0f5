package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
)

// SpanAttrErrorClass carries the error class SpanErrorMarker derives from
// the response status.
const SpanAttrErrorClass = "http.error_class"

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "fms-backend",
		Enabled:     true,
	}
}

// Tracing wraps otelgin. Span names follow "METHOD route_pattern".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector adds request_id and actor to the active span.
// It must run after both RequestID and Actor.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := spanRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(shared.Actor); ok && !actor.IsZero() {
			span.SetAttributes(attribute.String("actor", actor.String()))
		}
	}
}

// spanRequestID prefers the ID set by RequestID and falls back to a
// truncated header.
func spanRequestID(c *gin.Context) string {
	if v, ok := c.Get(logger.GinRequestIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	id := c.GetHeader(HeaderRequestID)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}

// SpanErrorMarker sets codes.Error on spans whose response is 4xx or 5xx
// and records the error class as http.error_class. otelgin rewrites the
// status of 5xx spans after this runs, so only the attribute survives there.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		msg := "Client Error"
		switch {
		case status >= http.StatusInternalServerError:
			msg = "Internal Server Error"
		case status == http.StatusNotFound:
			msg = "Not Found"
		case status == http.StatusConflict:
			msg = "Conflict"
		}
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String(SpanAttrErrorClass, msg),
		)
	}
}
