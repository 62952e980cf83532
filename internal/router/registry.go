package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/domain/rbac"
)

type Registry struct {
	Engine    *gin.Engine
	API       *gin.RouterGroup
	protected *gin.RouterGroup

	middlewares []gin.HandlerFunc
	guards      []gin.HandlerFunc
	modules     []Module
	public      map[rbac.RouteKey]struct{}
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api, public: make(map[rbac.RouteKey]struct{})}
}

// Use adds middleware to every /api route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Guard adds middleware to the Protected group only.
func (r *Registry) Guard(mw ...gin.HandlerFunc) {
	r.guards = append(r.guards, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// Protected is the authenticated group; it exists once RegisterAll has started.
func (r *Registry) Protected() *gin.RouterGroup { return r.protected }

// Public registers an unauthenticated route on /api.
func (r *Registry) Public(method, path string, handlers ...gin.HandlerFunc) {
	r.API.Handle(method, path, handlers...)
	full := strings.TrimSuffix(r.API.BasePath(), "/") + "/" + strings.TrimPrefix(path, "/")
	r.public[rbac.Route(method, full)] = struct{}{}
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	r.protected = r.API.Group("", r.guards...)
	for _, m := range r.modules {
		m.Register(r)
	}
}

// ProtectedRoutes lists the registered /api routes that were not added through Public.
func (r *Registry) ProtectedRoutes() []rbac.RouteKey {
	var out []rbac.RouteKey
	prefix := r.API.BasePath() + "/"
	for _, ri := range r.Engine.Routes() {
		if !strings.HasPrefix(ri.Path, prefix) || ri.Method == http.MethodOptions {
			continue
		}
		key := rbac.Route(ri.Method, ri.Path)
		if _, ok := r.public[key]; ok {
			continue
		}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
