package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "system", cfg.App.DefaultActor)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "fms", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5, cfg.Allocator.MaxAttempts)
		assert.Equal(t, 1000, cfg.Gateway.MaxListRows)
		assert.True(t, cfg.Idempotency.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.Mail.Configured())
		assert.Equal(t, 587, cfg.Mail.Port)
		assert.Equal(t, "fms-backend", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.ProfilingEnabled)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
		assert.Zero(t, cfg.HTTP.RateLimitRequests)
		assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
	})

	t.Run("loads values from environment variables with FMS prefix", func(t *testing.T) {
		t.Setenv("FMS_APP_NAME", "test-app")
		t.Setenv("FMS_APP_PORT", "9000")
		t.Setenv("FMS_APP_DEFAULT_ACTOR", "batch")
		t.Setenv("FMS_DATABASE_DRIVER", "sqlite")
		t.Setenv("FMS_DATABASE_PATH", "/tmp/fms-test.db")
		t.Setenv("FMS_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FMS_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FMS_ALLOCATOR_MAX_ATTEMPTS", "8")
		t.Setenv("FMS_IDEMPOTENCY_ENABLED", "false")
		t.Setenv("FMS_IDEMPOTENCY_TTL", "1h")
		t.Setenv("FMS_MAIL_HOST", "smtp.example.com")
		t.Setenv("FMS_MAIL_FROM", "ops@example.com")
		t.Setenv("FMS_HTTP_RATE_LIMIT_REQUESTS", "120")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "batch", cfg.App.DefaultActor)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/fms-test.db", cfg.Database.Path)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 8, cfg.Allocator.MaxAttempts)
		assert.False(t, cfg.Idempotency.Enabled)
		assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
		assert.True(t, cfg.Mail.Configured())
		assert.Equal(t, "ops@example.com", cfg.Mail.From)
		assert.Equal(t, 120, cfg.HTTP.RateLimitRequests)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("FMS_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("FMS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("FMS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("validates allocator attempts", func(t *testing.T) {
		t.Setenv("FMS_ALLOCATOR_MAX_ATTEMPTS", "-2")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allocator.max_attempts")
	})

	t.Run("validates sampling ratio", func(t *testing.T) {
		t.Setenv("FMS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("profiling needs a server address", func(t *testing.T) {
		t.Setenv("FMS_TELEMETRY_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.profiling_server_address")
	})

	t.Run("loads profiling settings", func(t *testing.T) {
		t.Setenv("FMS_TELEMETRY_PROFILING_ENABLED", "true")
		t.Setenv("FMS_TELEMETRY_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.ProfilingEnabled)
		assert.Equal(t, "http://pyroscope:4040", cfg.Telemetry.ProfilingServerAddress)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FMS_APP_ENV", "production")
		t.Setenv("FMS_DATABASE_PASSWORD", "secure-password")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		t.Setenv("FMS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FMS_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FMS_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestDatabaseConfig_SQLiteDSN(t *testing.T) {
	assert.Equal(t, "data/fms.db?_busy_timeout=5000&_txlock=immediate", (&DatabaseConfig{Path: "data/fms.db"}).SQLiteDSN())
	assert.Contains(t, (&DatabaseConfig{Path: ":memory:"}).SQLiteDSN(), "memory")
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
