package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/factory-erp/internal/interface/middleware"
	"github.com/oksasatya/factory-erp/pkg/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// DebugModule serves the health probe and, when enabled, expvar metrics to private networks.
type DebugModule struct {
	DB             Pinger
	Redis          *redis.Client
	MetricsEnabled bool
}

func NewDebugModule(db Pinger, rdb *redis.Client, metricsEnabled bool) *DebugModule {
	return &DebugModule{DB: db, Redis: rdb, MetricsEnabled: metricsEnabled}
}

func (m *DebugModule) Register(r Routes) {
	r.Public(http.MethodGet, "/health", m.health)

	if m.MetricsEnabled {
		rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), nil)
		r.Public(http.MethodGet, "/debug/vars", middleware.Only(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
	}
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true
	if err := m.DB.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if m.Redis != nil {
		checks["redis"] = "ok"
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		}
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success(c, http.StatusOK, checks, "healthy", nil)
}
