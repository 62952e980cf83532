package modules

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/factory-erp/internal/interface/http"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
)

// AuthModule serves login, refresh, logout and the caller profile under /api/auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(r Routes) {
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)   // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil) // 60 req/min per IP

	r.Public(http.MethodPost, "/auth/login", loginLimiter, m.Handler.Login)
	r.Public(http.MethodPost, "/auth/refresh", refreshLimiter, m.Handler.Refresh)

	r.Protected().POST("/auth/logout", m.Handler.Logout)
	r.Protected().GET("/auth/me", m.Handler.Me)
}
