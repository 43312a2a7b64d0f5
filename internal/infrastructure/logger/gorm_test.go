package logger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info, WithSlowThreshold(time.Second), WithDuplicateKeyErrors())

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreDuplicate)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)

	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_LevelGates(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn)

	gl.Info(context.Background(), "info %d", 1)
	gl.Warn(context.Background(), "warn %d", 2)
	gl.Error(context.Background(), "error %d", 3)

	require.Len(t, recorded.All(), 2)
	assert.Equal(t, "warn 2", recorded.All()[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, recorded.All()[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		message string
		entry   zapcore.Level
	}{
		{name: "error", level: gormlogger.Error, begin: time.Now(), err: errors.New("boom"), message: "SQL Error", entry: zapcore.ErrorLevel},
		{name: "duplicate demoted", level: gormlogger.Error, begin: time.Now(), err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), message: "SQL unique violation", entry: zapcore.DebugLevel},
		{name: "duplicate reported", level: gormlogger.Error, opts: []GormLoggerOption{WithDuplicateKeyErrors()}, begin: time.Now(), err: gorm.ErrDuplicatedKey, message: "SQL Error", entry: zapcore.ErrorLevel},
		{name: "slow", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Millisecond)}, begin: time.Now().Add(-time.Second), message: "SLOW SQL", entry: zapcore.WarnLevel},
		{name: "normal", level: gormlogger.Info, begin: time.Now(), message: "SQL Query", entry: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level, tt.opts...)
			gl.Trace(context.Background(), tt.begin, statement("UPDATE document_sequences SET last_value = last_value + 1", 1), tt.err)

			require.Len(t, recorded.All(), 1)
			assert.Equal(t, tt.message, recorded.All()[0].Message)
			assert.Equal(t, tt.entry, recorded.All()[0].Level)
		})
	}
}

func TestGormLogger_Trace_Suppressed(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Silent)
	gl.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), nil)
	assert.Empty(t, recorded.All())

	gl, recorded = newObservedGorm(gormlogger.Error)
	gl.Trace(context.Background(), time.Now(), statement("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_WithRequestID(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info)

	ctx := WithRequestID(context.Background(), "test-req-id")
	gl.Trace(ctx, time.Now(), statement("SELECT 1", 1), nil)

	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "test-req-id", recorded.All()[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = &GormLogger{}
}
