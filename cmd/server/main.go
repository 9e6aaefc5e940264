package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/techbites/storefront/docs"
	cartapp "github.com/techbites/storefront/internal/application/cart"
	catalogapp "github.com/techbites/storefront/internal/application/catalog"
	"github.com/techbites/storefront/internal/application/checkout"
	"github.com/techbites/storefront/internal/domain/catalog"
	"github.com/techbites/storefront/internal/infrastructure/cache"
	"github.com/techbites/storefront/internal/infrastructure/config"
	"github.com/techbites/storefront/internal/infrastructure/logger"
	"github.com/techbites/storefront/internal/infrastructure/migration"
	"github.com/techbites/storefront/internal/infrastructure/persistence"
	"github.com/techbites/storefront/internal/infrastructure/supabase"
	"github.com/techbites/storefront/internal/infrastructure/telemetry"
	"github.com/techbites/storefront/internal/interfaces/http/handler"
	"github.com/techbites/storefront/internal/interfaces/http/middleware"
	"github.com/techbites/storefront/internal/interfaces/http/router"
	"github.com/techbites/storefront/internal/interfaces/http/view"
	"github.com/techbites/storefront/migrations"
)

//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs --outputTypes go --parseInternal

//	@title			Tech Bites Storefront API
//	@version		1.0
//	@description	Catalog, cart and checkout endpoints behind the storefront page
//	@BasePath		/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log), cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting Tech Bites storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("cart_storage", cfg.Cart.Storage),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		_ = lp.Shutdown(context.Background())
	}()
	if lp.IsEnabled() {
		log = telemetry.NewBridgedLogger(log, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: lp,
			Level:          logger.ParseLevel(cfg.Log.Level),
		}))
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	res := &resources{log: log, telemetry: cfg.Telemetry, tracer: tp}
	defer res.close()

	source, err := res.productSource(cfg, gormLog)
	if err != nil {
		log.Fatal("Failed to initialize catalog source", zap.Error(err))
	}
	storage, err := res.cartStorage(cfg, gormLog)
	if err != nil {
		log.Fatal("Failed to initialize cart storage", zap.Error(err))
	}

	loader := catalogapp.NewLoader(source, log, catalogapp.WithMeterProvider(mp.Provider()))
	carts := cartapp.NewRegistry(storage,
		cartapp.WithAppKey(cfg.Cart.AppKey),
		cartapp.WithIdleTimeout(cfg.Cart.IdleTimeout),
		cartapp.WithLogger(log),
	)
	checkoutSvc := checkout.NewService(
		checkout.NewComposer(cfg.Checkout.Endpoint),
		checkout.WithClearCart(cfg.Checkout.ClearCart),
		checkout.WithRequireItems(cfg.Checkout.RequireItems),
		checkout.WithLogger(log),
	)
	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse page templates", zap.Error(err))
	}

	engineCfg := router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           corsConfig(cfg.HTTP),
		Security:       middleware.DefaultSecurityConfig(cfg.Checkout.Endpoint),
		Session: middleware.SessionConfig{
			CookieName: cfg.Cart.CookieName,
			MaxAge:     cfg.Cart.CookieMaxAge,
			Secure:     cfg.Cart.CookieSecure,
		},
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		},
	}
	if tp.IsEnabled() {
		engineCfg.TracerProvider = tp.Provider()
	}
	if mp.IsEnabled() {
		engineCfg.MeterProvider = mp
	}
	if cfg.App.Env == "production" {
		engineCfg.Security.HSTSEnabled = true
	}

	engine := router.NewEngine(engineCfg, router.Handlers{
		Catalog:    handler.NewCatalogHandler(loader),
		Cart:       handler.NewCartHandler(carts, loader),
		Checkout:   handler.NewCheckoutHandler(carts, checkoutSvc),
		System:     handler.NewSystemHandler(cfg.App.Name, loader),
		Storefront: handler.NewStorefrontHandler(loader, carts, checkoutSvc, renderer),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The page is served blank until the first fetch settles
	g.Go(func() error {
		loader.Load(gctx)
		return nil
	})

	// Carts idle longer than cart.idle_timeout leave memory; their storage entry stays
	g.Go(func() error {
		carts.Run(gctx, 0)
		return nil
	})

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	return cors
}

// resources tracks connections opened during startup so they close on exit
type resources struct {
	log       *zap.Logger
	telemetry config.TelemetryConfig
	tracer    *telemetry.TracerProvider
	closers   []func() error
}

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.log.Error("Error closing resource", zap.Error(err))
		}
	}
}

func (r *resources) database(driver string, cfg *config.Config, gormLog gormlogger.Interface) (*persistence.Database, error) {
	db, err := persistence.NewDatabase(driver, &cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, db.Close)

	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFor(r.telemetry, driver), r.tracer.Provider(), r.log)
	if err := tracing.RegisterOtelGorm(db.DB); err != nil {
		return nil, fmt.Errorf("failed to enable database tracing: %w", err)
	}

	r.log.Info("Database connected", zap.String("driver", driver))
	return db, nil
}

func (r *resources) productSource(cfg *config.Config, gormLog gormlogger.Interface) (catalog.ProductSource, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		db, err := r.database(persistence.DriverPostgres, cfg, gormLog)
		if err != nil {
			return nil, err
		}
		return persistence.NewGormProductSource(db.DB, cfg.Catalog.Table), nil
	default:
		if cfg.Supabase.URL == "" {
			r.log.Warn("Supabase URL is not configured, the catalog will stay empty")
		}
		return supabase.NewClient(&supabase.Config{
			URL:     cfg.Supabase.URL,
			AnonKey: cfg.Supabase.AnonKey,
			Table:   cfg.Catalog.Table,
			Timeout: cfg.Supabase.Timeout,
		})
	}
}

func (r *resources) cartStorage(cfg *config.Config, gormLog gormlogger.Interface) (cartapp.Storage, error) {
	switch cfg.Cart.Storage {
	case config.CartStorageRedis:
		storage, err := cache.NewStorageFactory(cfg.Redis,
			cache.WithLogger(r.log),
			cache.WithInMemoryFallback(cfg.Cart.AllowMemoryFallback),
			cache.WithTTL(cfg.Cart.TTL),
		).CreateStorage()
		if err != nil {
			return nil, err
		}
		if rs, ok := storage.(*cache.RedisStorage); ok {
			r.closers = append(r.closers, rs.Close)
		}
		return storage, nil

	case config.CartStorageSQLite:
		db, err := r.database(persistence.DriverSQLite, cfg, gormLog)
		if err != nil {
			return nil, err
		}
		storage := persistence.NewGormStorage(db.DB)
		if err := storage.EnsureSchema(); err != nil {
			return nil, fmt.Errorf("failed to create cart table: %w", err)
		}
		return storage, nil

	case config.CartStoragePostgres:
		if err := applyMigrations(cfg.Database.DSN(), r.log); err != nil {
			return nil, err
		}
		db, err := r.database(persistence.DriverPostgres, cfg, gormLog)
		if err != nil {
			return nil, err
		}
		return persistence.NewGormStorage(db.DB), nil

	default:
		r.log.Info("Using in-memory cart storage")
		return cache.NewMemoryStorage(), nil
	}
}

// applyMigrations brings the postgres schema up to date on its own connection,
// since closing the migrator also closes the database it was given.
func applyMigrations(dsn string, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}
