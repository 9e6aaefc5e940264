package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/techbites/storefront/internal/application/cart"
	catalogapp "github.com/techbites/storefront/internal/application/catalog"
	"github.com/techbites/storefront/internal/application/checkout"
	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/catalog"
	"github.com/techbites/storefront/internal/interfaces/http/dto"
	"github.com/techbites/storefront/internal/interfaces/http/middleware"
	"github.com/techbites/storefront/internal/interfaces/http/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSession = "7b0c8a52-3f5e-4d61-9a3e-0f6a2c1d9e10"

type stubSource struct {
	products []catalog.Product
	err      error
}

func (s *stubSource) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type mapStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cartapp.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapStorage) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func menu() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "X-Burguer", Price: decimal.NewFromInt(10), Category: catalog.CategoryBurgers},
		{ID: 2, Name: "Batata", Price: decimal.NewFromInt(8), Category: catalog.CategorySides},
		{ID: 3, Name: "Refri", Price: decimal.NewFromInt(15), Category: catalog.CategoryDrinks},
	}
}

type fixture struct {
	router  *gin.Engine
	source  *stubSource
	loader  *catalogapp.Loader
	carts   *cartapp.Registry
	storage *mapStorage
	page    *StorefrontHandler
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	source       *stubSource
	clearCart    bool
	requireItems bool
}

func withSource(src *stubSource) fixtureOption {
	return func(c *fixtureConfig) { c.source = src }
}

func withClearCart() fixtureOption {
	return func(c *fixtureConfig) { c.clearCart = true }
}

func withRequireItems() fixtureOption {
	return func(c *fixtureConfig) { c.requireItems = true }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{source: &stubSource{products: menu()}}
	for _, opt := range opts {
		opt(&cfg)
	}

	middleware.SetupValidator()
	loader := catalogapp.NewLoader(cfg.source, zap.NewNop())
	loader.Load(context.Background())

	storage := &mapStorage{data: make(map[string][]byte)}
	carts := cartapp.NewRegistry(storage, cartapp.WithIDGenerator(&cart.SequenceGenerator{Prefix: "e"}))
	svc := checkout.NewService(checkout.NewComposer(""),
		checkout.WithClearCart(cfg.clearCart),
		checkout.WithRequireItems(cfg.requireItems),
	)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	catalogH := NewCatalogHandler(loader)
	cartH := NewCartHandler(carts, loader)
	checkoutH := NewCheckoutHandler(carts, svc)
	systemH := NewSystemHandler("techbites-storefront", loader)
	pageH := NewStorefrontHandler(loader, carts, svc, renderer)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Session(middleware.SessionConfig{CookieName: "sid"}))
	router.GET("/", pageH.Index)
	router.POST("/carrinho/adicionar", pageH.AddItem)
	router.POST("/carrinho/remover", pageH.RemoveItem)
	router.POST("/checkout", pageH.Checkout)

	api := router.Group("/api/v1")
	api.GET("/health", systemH.Health)
	api.GET("/system/info", systemH.GetSystemInfo)
	api.GET("/catalog/categories", catalogH.ListCategories)
	api.GET("/catalog/products", catalogH.ListProducts)
	api.POST("/catalog/reload", catalogH.Reload)
	api.GET("/cart", cartH.Get)
	api.POST("/cart/items", cartH.AddItem)
	api.DELETE("/cart/items/:cart_id", cartH.RemoveItem)
	api.POST("/checkout", checkoutH.Checkout)

	return &fixture{router: router, source: cfg.source, loader: loader, carts: carts, storage: storage, page: pageH}
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.SessionHeader, testSession)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) getJSON(target string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil, "")
}

func (f *fixture) postJSON(target, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(body), "application/json")
}

func (f *fixture) postForm(target, form string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(form), "application/x-www-form-urlencoded")
}

// anonymous sends a request carrying neither session cookie nor header
func (f *fixture) anonymous(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func (f *fixture) pulseCount() int {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()
	return len(f.page.pulses)
}

func (f *fixture) store() *cartapp.Store {
	return f.carts.Get(context.Background(), testSession)
}

// decodeData unmarshals a success response's data into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return dto.Response{Success: raw.Success, Error: raw.Error}
}
