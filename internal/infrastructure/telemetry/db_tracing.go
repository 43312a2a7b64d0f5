package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in db.statement
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin registers otelgorm and annotates its spans with rows
// affected, table and slow-query markers.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin. A zero threshold defaults to 200ms.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs otelgorm and the annotation callbacks on db.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	err := registerAround(db, "otel_annotate", func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}, p.annotate)
	if err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func (p *DBTracingPlugin) annotate(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	// Unique violations are retried by the allocator and are not failures.
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) && !errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

// registerAround hooks before and after every gorm processor under name.
func registerAround(db *gorm.DB, name string, before, after func(*gorm.DB)) error {
	cb := db.Callback()
	steps := []struct {
		op        string
		beforeErr error
		afterErr  error
	}{
		{"create", cb.Create().Before("gorm:create").Register(name+":before_create", before), cb.Create().After("gorm:create").Register(name+":after_create", after)},
		{"query", cb.Query().Before("gorm:query").Register(name+":before_query", before), cb.Query().After("gorm:query").Register(name+":after_query", after)},
		{"update", cb.Update().Before("gorm:update").Register(name+":before_update", before), cb.Update().After("gorm:update").Register(name+":after_update", after)},
		{"delete", cb.Delete().Before("gorm:delete").Register(name+":before_delete", before), cb.Delete().After("gorm:delete").Register(name+":after_delete", after)},
		{"row", cb.Row().Before("gorm:row").Register(name+":before_row", before), cb.Row().After("gorm:row").Register(name+":after_row", after)},
		{"raw", cb.Raw().Before("gorm:raw").Register(name+":before_raw", before), cb.Raw().After("gorm:raw").Register(name+":after_raw", after)},
	}
	for _, s := range steps {
		if err := errors.Join(s.beforeErr, s.afterErr); err != nil {
			return err
		}
	}
	return nil
}
