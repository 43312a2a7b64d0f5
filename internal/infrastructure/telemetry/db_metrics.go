package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics holds the database client instruments.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	slowThreshold  time.Duration
	registration   metric.Registration
}

// NewDBMetrics creates the query instruments and, when sqlDB is non-nil, the
// connection pool gauges observed on each collection.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration) (*DBMetrics, error) {
	if slowThreshold == 0 {
		slowThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{slowThreshold: slowThreshold}
	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the threshold", "{query}"); err != nil {
		return nil, err
	}

	if sqlDB == nil {
		return m, nil
	}

	inUse, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(inUse, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(inUse, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		return nil
	}, inUse, maxOpen)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuery records one completed statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	status := "ok"
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		status = "error"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table), AttrOutcome.String(status))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation), AttrDBTable.String(table))
	if duration > m.slowThreshold {
		m.slowQueryTotal.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table))
	}
}

// Stop unregisters the pool gauges.
func (m *DBMetrics) Stop() {
	if m.registration != nil {
		_ = m.registration.Unregister()
	}
}

type metricsStartKey struct{}

// RegisterDBMetrics wires query metrics into db. It returns nil when the
// meter provider is disabled.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if !mp.IsEnabled() {
		logger.Debug("MeterProvider not available, skipping database metrics")
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, slowThreshold)
	if err != nil {
		return nil, err
	}

	err = registerAround(db, "otel_metrics", func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, metricsStartKey{}, time.Now())
		}
	}, func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(metricsStartKey{}).(time.Time)
		if !ok {
			return
		}
		m.RecordQuery(ctx, operationOf(tx.Statement.SQL.String()), tx.Statement.Table, time.Since(start), tx.Error)
	})
	if err != nil {
		m.Stop()
		return nil, err
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.slowThreshold))
	return m, nil
}

func operationOf(stmt string) string {
	stmt = strings.ToUpper(strings.TrimSpace(stmt))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(stmt, op) {
			return op
		}
	}
	return "OTHER"
}
