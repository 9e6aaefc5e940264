package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/techbites/storefront/internal/infrastructure/logger"
	"github.com/techbites/storefront/internal/infrastructure/telemetry"
	"github.com/techbites/storefront/internal/interfaces/http/handler"
	"github.com/techbites/storefront/internal/interfaces/http/middleware"
)

// EngineConfig holds the middleware settings of the HTTP engine
type EngineConfig struct {
	ServiceName    string
	TrustedProxies []string
	MaxBodySize    int64
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	Session        middleware.SessionConfig
	Swagger        middleware.SwaggerConfig

	// TracerProvider enables otelgin spans when non-nil
	TracerProvider trace.TracerProvider
	// MeterProvider enables request metrics when non-nil and enabled
	MeterProvider *telemetry.MeterProvider
}

// Handlers are the storefront HTTP handlers
type Handlers struct {
	Catalog    *handler.CatalogHandler
	Cart       *handler.CartHandler
	Checkout   *handler.CheckoutHandler
	System     *handler.SystemHandler
	Storefront *handler.StorefrontHandler
}

// NewEngine builds the gin engine with the middleware stack and every route.
//
// Middleware order:
//  1. otelgin (when tracing is enabled)
//  2. HTTP metrics (when metrics are enabled)
//  3. RequestID
//  4. Recovery
//  5. Request logger
//  6. Security headers
//  7. CORS
//  8. Body limit
//
// The session middleware is applied only to the groups that touch a cart.
// The API docs are served from /swagger/index.html behind SwaggerProtection.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	if cfg.TracerProvider != nil {
		engine.Use(otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(cfg.TracerProvider)))
	}
	if cfg.MeterProvider != nil && cfg.MeterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: cfg.MeterProvider,
			Enabled:       true,
		}))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	session := middleware.Session(cfg.Session)

	r := NewRouter(engine, WithAPIVersion("v1"))

	pages := NewDomainGroup("storefront", "").Use(session)
	pages.GET("/", h.Storefront.Index)
	pages.POST("/carrinho/adicionar", h.Storefront.AddItem)
	pages.POST("/carrinho/remover", h.Storefront.RemoveItem)
	pages.POST("/checkout", h.Storefront.Checkout)
	r.RegisterPage(pages)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.GetSystemInfo)
	r.Register(system)

	catalogRoutes := NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/categories", h.Catalog.ListCategories)
	catalogRoutes.GET("/products", h.Catalog.ListProducts)
	catalogRoutes.POST("/reload", h.Catalog.Reload)
	r.Register(catalogRoutes)

	cartRoutes := NewDomainGroup("cart", "/cart").Use(session)
	cartRoutes.GET("", h.Cart.Get)
	cartRoutes.POST("/items", h.Cart.AddItem)
	cartRoutes.DELETE("/items/:cart_id", h.Cart.RemoveItem)
	r.Register(cartRoutes)

	checkoutRoutes := NewDomainGroup("checkout", "/checkout").Use(session)
	checkoutRoutes.POST("", h.Checkout.Checkout)
	r.Register(checkoutRoutes)

	r.Setup()
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}
	return engine
}
