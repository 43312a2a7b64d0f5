package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/application/dashboard"
	"github.com/fms/backend/internal/application/gateway"
	"github.com/fms/backend/internal/application/prealert"
	"github.com/fms/backend/internal/domain/freight"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/cache"
	"github.com/fms/backend/internal/infrastructure/config"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/infrastructure/mail"
	"github.com/fms/backend/internal/infrastructure/migration"
	"github.com/fms/backend/internal/infrastructure/persistence"
	"github.com/fms/backend/internal/infrastructure/telemetry"
	"github.com/fms/backend/internal/interfaces/http/handler"
	"github.com/fms/backend/internal/interfaces/http/middleware"
	"github.com/fms/backend/internal/interfaces/http/router"
	"github.com/fms/backend/migrations"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry first so the database plugins and the log bridge see live providers
	providers, err := telemetry.Setup(ctx, telemetrySetup(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		log, err = logger.New(logCfg, providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting FMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	if err := run(ctx, cfg, providers, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		shutdownProviders(providers, log)
		_ = log.Sync()
		os.Exit(1)
	}
	shutdownProviders(providers, log)
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        cfg.Database.Driver,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		return fmt.Errorf("register database tracing: %w", err)
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, providers.Meter, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		return fmt.Errorf("register database metrics: %w", err)
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	if err := prepareSchema(ctx, cfg, db, log); err != nil {
		return err
	}

	registry, err := freight.NewRegistry()
	if err != nil {
		return err
	}

	docMetrics, err := newDocumentMetrics(providers.Meter, log)
	if err != nil {
		return err
	}
	defer docMetrics.Stop()

	store := persistence.NewRecordStore(db, log,
		persistence.WithMaxAttempts(cfg.Allocator.MaxAttempts),
		persistence.WithDocumentMetrics(docMetrics),
	)
	gatewayService := gateway.NewService(registry, store, gateway.WithMaxListRows(cfg.Gateway.MaxListRows))

	mailer := mail.NewSMTPMailer(cfg.Mail, log)
	if !mailer.Configured() {
		log.Warn("SMTP host not configured, pre-alert sends will be rejected")
	}
	preAlertService := prealert.NewService(mailer, gatewayService,
		prealert.WithDefaultFrom(cfg.Mail.From),
		prealert.WithMetrics(docMetrics),
	)
	dashboardService := dashboard.NewService(gatewayService)

	collectCtx, stopCollect := context.WithCancel(ctx)
	defer stopCollect()
	docMetrics.StartPeriodicCollection(collectCtx, dashboardService, cfg.Telemetry.MetricsInterval)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
		cache.WithCleanupInterval(cfg.Idempotency.CleanupInterval),
	).CreateStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	defaultActor, err := shared.NewActor(cfg.App.DefaultActor)
	if err != nil {
		return fmt.Errorf("app.default_actor: %w", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("http.trusted_proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: providers.Meter,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	engine.Use(middleware.CORS(corsConfig(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Actor(defaultActor))
	engine.Use(middleware.TracingAttributeInjector())
	if cfg.HTTP.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}
	engine.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Store:   idempotencyStore,
		TTL:     cfg.Idempotency.TTL,
		Enabled: cfg.Idempotency.Enabled,
	}))

	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, telemetry.ServiceVersion)
	preAlertHandler := handler.NewPreAlertHandler(preAlertService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	preAlertRoutes := router.NewDomainGroup("pre-alert", "/pre-alert")
	preAlertRoutes.POST("/send", preAlertHandler.Send)

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("", dashboardHandler.Get)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)

	r := router.NewRouter(engine)
	r.Register(handler.NewResourceHandler(gatewayService, registry)).
		Register(preAlertRoutes).
		Register(dashboardRoutes).
		Register(systemRoutes).
		RegisterRoot(router.RegistrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/health", systemHandler.Health)
		}))
	r.Setup()

	log.Info("Routes registered", zap.Strings("resources", registry.Paths()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	return serve(srv, log)
}

// serve runs srv until SIGINT or SIGTERM, then drains in-flight requests
func serve(srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// prepareSchema brings the database schema up to date. Postgres runs the
// embedded migrations when auto_migrate is set; sqlite creates the tables
// straight from the resource catalog.
func prepareSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver == config.DriverSQLite {
		if err := persistence.EnsureSchema(ctx, db, freight.Tables()); err != nil {
			return err
		}
		log.Info("SQLite schema ensured", zap.String("path", cfg.Database.Path))
		return nil
	}
	if !cfg.Database.AutoMigrate {
		return nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.FromFS(migrations.FS, "."), log)
	if err != nil {
		return err
	}
	// The migrator shares sqlDB; closing it here would close the pool.
	return m.Up()
}

func newDocumentMetrics(mp *telemetry.MeterProvider, log *zap.Logger) (*telemetry.DocumentMetrics, error) {
	if !mp.IsEnabled() {
		return nil, nil
	}
	dm, err := telemetry.NewDocumentMetrics(mp.Meter("fms.documents"), log)
	if err != nil {
		return nil, fmt.Errorf("create document metrics: %w", err)
	}
	return dm, nil
}

func telemetrySetup(cfg *config.Config) telemetry.SetupConfig {
	t := cfg.Telemetry
	return telemetry.SetupConfig{
		Trace: telemetry.Config{
			Enabled:           t.Enabled,
			CollectorEndpoint: t.CollectorEndpoint,
			SamplingRatio:     t.SamplingRatio,
			ServiceName:       t.ServiceName,
			Insecure:          t.Insecure,
		},
		Metrics: telemetry.MetricsConfig{
			Enabled:           t.Enabled && t.MetricsEnabled,
			CollectorEndpoint: t.CollectorEndpoint,
			ExportInterval:    t.MetricsInterval,
			ServiceName:       t.ServiceName,
			Insecure:          t.Insecure,
		},
		Logs: telemetry.LogsConfig{
			Enabled:           t.Enabled && t.LogsEnabled,
			CollectorEndpoint: t.CollectorEndpoint,
			ServiceName:       t.ServiceName,
			Insecure:          t.Insecure,
		},
		Profiling: telemetry.ProfilerConfig{
			Enabled:         t.ProfilingEnabled,
			ServerAddress:   t.ProfilingServerAddress,
			ApplicationName: t.ServiceName,
			ProfileTypes:    t.ProfilingTypes,
		},
	}
}

func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		c.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		c.AllowHeaders = h.CORSAllowHeaders
	}
	return c
}

func shutdownProviders(providers *telemetry.Providers, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(ctx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}
}
