package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), SetupConfig{
		Trace:   Config{ServiceName: "fms-backend"},
		Metrics: MetricsConfig{ServiceName: "fms-backend"},
		Logs:    LogsConfig{ServiceName: "fms-backend"},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.False(t, p.Profiler.IsEnabled())
	assert.False(t, p.Tracer.SpanProfilesEnabled())
	assert.NotNil(t, p.Tracer.Tracer("x"))
	assert.NotNil(t, p.Meter.Meter("x"))
	assert.NoError(t, p.Tracer.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestLoggerProvider_ZapCoreDisabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, recorded := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	l := zap.New(core).With(zap.String("component", "allocator"))
	l.Info("dropped")
	l.Warn("kept")

	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "kept", recorded.All()[0].Message)
	assert.Equal(t, "allocator", recorded.All()[0].ContextMap()["component"])
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartServiceSpan(context.Background(), "gateway", "create", SpanAttrResource, "booking/sea")
	SetAttributes(span, SpanAttrAttempt, 2, SpanAttrDocumentNumber, "SB-2026-0001", 42, "ignored")
	AddEvent(span, "sequence_seeded", SpanAttrPrefix, "SB")
	RecordError(span, assert.AnError)
	RecordError(span, nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	ended := recorder.Ended()[0]
	assert.Equal(t, "gateway.create", ended.Name())
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Len(t, ended.Attributes(), 3)
	assert.Len(t, ended.Events(), 2)
}
