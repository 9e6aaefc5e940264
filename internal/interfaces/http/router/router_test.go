package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.api)

	assert.Equal(t, "v2", NewRouter(gin.New(), WithAPIVersion("v2")).apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	api := NewDomainGroup("test", "/test")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	page := NewDomainGroup("page", "")
	page.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })

	r.Register(api).RegisterPage(page)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = serve(engine, http.MethodGet, "/")
	assert.Equal(t, "home", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/test/ping").Code)
}

func TestRouterRoutes(t *testing.T) {
	noop := func(c *gin.Context) {}
	r := NewRouter(gin.New())

	cart := NewDomainGroup("cart", "/cart")
	cart.GET("", noop).DELETE("/items/:cart_id", noop)
	pages := NewDomainGroup("storefront", "")
	pages.GET("/", noop).POST("/checkout", noop)
	r.Register(cart).RegisterPage(pages)

	assert.Equal(t, []Route{
		{Group: "storefront", Method: "GET", Path: "/"},
		{Group: "storefront", Method: "POST", Path: "/checkout"},
		{Group: "cart", Method: "GET", Path: "/api/v1/cart"},
		{Group: "cart", Method: "DELETE", Path: "/api/v1/cart/items/:cart_id"},
	}, r.Routes())
}

func TestDomainGroup_MiddlewareRunsForEveryRoute(t *testing.T) {
	engine := gin.New()
	var hits []string
	g := NewDomainGroup("cart", "/cart").Use(func(c *gin.Context) {
		hits = append(hits, c.Request.Method)
		c.Next()
	})
	g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
	g.DELETE("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/cart").Code)
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/cart/items").Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/cart/items/x").Code)
	assert.Equal(t, []string{"GET", "POST", "DELETE"}, hits)
}
