// Package telemetry wires OpenTelemetry tracing, metrics and logs plus
// Pyroscope continuous profiling for the service and exposes small helpers used by the HTTP and persistence layers.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported signal
const ServiceVersion = "1.0.0"

// Config holds tracer configuration.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// Providers bundles the signal providers and the profiler so the server can
// start and stop them together.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// SetupConfig selects which signals to export
type SetupConfig struct {
	Trace     Config
	Metrics   MetricsConfig
	Logs      LogsConfig
	Profiling ProfilerConfig
}

// Setup initializes every provider. Disabled signals get no-op providers.
func Setup(ctx context.Context, cfg SetupConfig, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, cfg.Trace, logger)
	if err != nil {
		return nil, err
	}
	mp, err := NewMeterProvider(ctx, cfg.Metrics, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	lp, err := NewLoggerProvider(ctx, cfg.Logs, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	prof, err := NewProfiler(cfg.Profiling, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = lp.Shutdown(ctx)
		return nil, err
	}
	if prof.IsEnabled() {
		tp.EnableSpanProfiles()
	}
	return &Providers{Tracer: tp, Meter: mp, Logs: lp, Profiler: prof}, nil
}

// Shutdown flushes and stops all providers, logs last so that shutdown
// messages from the others are still exported.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
