package router

import (
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Route describes one mounted endpoint
type Route struct {
	Group  string
	Method string
	Path   string
}

// Router collects route groups and mounts them on the engine.
// API groups live under /api/<version>; page groups at the root.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	api        []*DomainGroup
	pages      []*DomainGroup
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues an API group
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.api = append(r.api, groups...)
	return r
}

// RegisterPage queues a group served outside the API prefix
func (r *Router) RegisterPage(groups ...*DomainGroup) *Router {
	r.pages = append(r.pages, groups...)
	return r
}

func (r *Router) apiPrefix() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every queued group on the engine
func (r *Router) Setup() {
	for _, g := range r.pages {
		g.RegisterRoutes(&r.engine.RouterGroup)
	}
	api := r.engine.Group(r.apiPrefix())
	for _, g := range r.api {
		g.RegisterRoutes(api)
	}
}

// Routes lists the endpoints Setup mounts, pages first
func (r *Router) Routes() []Route {
	var routes []Route
	for _, g := range r.pages {
		routes = append(routes, g.routesUnder("/")...)
	}
	for _, g := range r.api {
		routes = append(routes, g.routesUnder(r.apiPrefix())...)
	}
	return routes
}

// DomainGroup is a named set of routes sharing a prefix and middleware
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware run before every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("GET", path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("POST", path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("DELETE", path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

func (dg *DomainGroup) routesUnder(base string) []Route {
	routes := make([]Route, 0, len(dg.routes))
	for _, route := range dg.routes {
		full := path.Join(base, dg.prefix, route.path)
		routes = append(routes, Route{Group: dg.name, Method: route.method, Path: full})
	}
	return routes
}
