package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Catalog   CatalogConfig
	Supabase  SupabaseConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	// API documentation at /swagger
	SwaggerEnabled    bool
	SwaggerAllowedIPs []string // IPs or CIDRs allowed to read the docs; empty allows all
}

// Catalog sources
const (
	CatalogSourceSupabase = "supabase"
	CatalogSourcePostgres = "postgres"
)

// CatalogConfig selects where the product catalog is read from
type CatalogConfig struct {
	Source string // supabase, postgres
	Table  string
}

// SupabaseConfig holds the hosted catalog backend settings
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Cart storage backends
const (
	CartStorageMemory   = "memory"
	CartStorageRedis    = "redis"
	CartStorageSQLite   = "sqlite"
	CartStoragePostgres = "postgres"
)

// CartConfig holds session cart settings
type CartConfig struct {
	Storage             string // memory, redis, sqlite, postgres
	AppKey              string // prefix of every storage key
	AllowMemoryFallback bool
	TTL                 time.Duration // redis expiry, 0 keeps entries forever
	IdleTimeout         time.Duration // in-process carts unused this long are dropped, 0 keeps them
	CookieName          string
	CookieMaxAge        time.Duration
	CookieSecure        bool
}

// CheckoutConfig holds checkout hand-off settings
type CheckoutConfig struct {
	Endpoint     string
	ClearCart    bool
	RequireItems bool // reject checkout of an empty cart
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to enable OpenTelemetry
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string        // Service name for traces
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
	MetricsInterval   time.Duration // Metrics export interval (default: 60s)
	LogsEnabled       bool          // Also export zap logs through the collector
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Keep query variables in spans (dev only)
	DBSlowQueryThresh time.Duration // Slow query threshold (default: 200ms)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_CART_STORAGE)
// 2. config.toml
// 3. Built-in defaults
//
// The Supabase credentials are also read from SUPABASE_URL / SUPABASE_ANON_KEY
// and their NEXT_PUBLIC_ variants.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindSupabaseEnv(v); err != nil {
		return nil, err
	}

	v.SetDefault("cart.allow_memory_fallback", true)
	v.SetDefault("cart.idle_timeout", "2h")
	v.SetDefault("http.swagger_enabled", true)
	v.SetDefault("telemetry.logs_enabled", true)
	v.SetDefault("telemetry.db_trace_enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			SwaggerEnabled:    v.GetBool("http.swagger_enabled"),
			SwaggerAllowedIPs: v.GetStringSlice("http.swagger_allowed_ips"),
		},
		Catalog: CatalogConfig{
			Source: v.GetString("catalog.source"),
			Table:  v.GetString("catalog.table"),
		},
		Supabase: SupabaseConfig{
			URL:     v.GetString("supabase.url"),
			AnonKey: v.GetString("supabase.anon_key"),
			Timeout: v.GetDuration("supabase.timeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cart: CartConfig{
			Storage:             v.GetString("cart.storage"),
			AppKey:              v.GetString("cart.app_key"),
			AllowMemoryFallback: v.GetBool("cart.allow_memory_fallback"),
			TTL:                 v.GetDuration("cart.ttl"),
			IdleTimeout:         v.GetDuration("cart.idle_timeout"),
			CookieName:          v.GetString("cart.cookie_name"),
			CookieMaxAge:        v.GetDuration("cart.cookie_max_age"),
			CookieSecure:        v.GetBool("cart.cookie_secure"),
		},
		Checkout: CheckoutConfig{
			Endpoint:     v.GetString("checkout.endpoint"),
			ClearCart:    v.GetBool("checkout.clear_cart"),
			RequireItems: v.GetBool("checkout.require_items"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_thresh"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindSupabaseEnv(v *viper.Viper) error {
	if err := v.BindEnv("supabase.url", "STOREFRONT_SUPABASE_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"); err != nil {
		return fmt.Errorf("binding supabase.url: %w", err)
	}
	if err := v.BindEnv("supabase.anon_key", "STOREFRONT_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"); err != nil {
		return fmt.Errorf("binding supabase.anon_key: %w", err)
	}
	return nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "techbites-storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 64 << 10 // 64KB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Session-ID"}
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = CatalogSourceSupabase
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "produtos"
	}
	if cfg.Supabase.Timeout == 0 {
		cfg.Supabase.Timeout = 10 * time.Second
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "techbites"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "storefront.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cart.Storage == "" {
		cfg.Cart.Storage = CartStorageMemory
	}
	if cfg.Cart.AppKey == "" {
		cfg.Cart.AppKey = "carrinho-techbites"
	}
	if cfg.Cart.CookieName == "" {
		cfg.Cart.CookieName = "techbites_session"
	}
	if cfg.Cart.CookieMaxAge == 0 {
		cfg.Cart.CookieMaxAge = 30 * 24 * time.Hour
	}
	if cfg.Checkout.Endpoint == "" {
		cfg.Checkout.Endpoint = "https://wa.me/5511999999999"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceSupabase, CatalogSourcePostgres:
	default:
		return fmt.Errorf("catalog.source must be one of supabase, postgres, got %q", c.Catalog.Source)
	}

	switch c.Cart.Storage {
	case CartStorageMemory, CartStorageRedis, CartStorageSQLite, CartStoragePostgres:
	default:
		return fmt.Errorf("cart.storage must be one of memory, redis, sqlite, postgres, got %q", c.Cart.Storage)
	}
	if c.Cart.TTL < 0 {
		return fmt.Errorf("cart.ttl cannot be negative")
	}
	if c.Cart.IdleTimeout < 0 {
		return fmt.Errorf("cart.idle_timeout cannot be negative")
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	u, err := url.Parse(c.Checkout.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("checkout.endpoint must be an absolute http(s) URL, got %q", c.Checkout.Endpoint)
	}

	if c.App.Env == "production" {
		if c.Database.SSLMode == "disable" && c.usesPostgres() {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Cart.CookieSecure {
			return fmt.Errorf("cart.cookie_secure must be true in production (HTTPS required for secure cookies)")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

func (c *Config) usesPostgres() bool {
	return c.Catalog.Source == CatalogSourcePostgres || c.Cart.Storage == CartStoragePostgres
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port pair
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
