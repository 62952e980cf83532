package modules

import (
	"time"

	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/factory-erp/internal/interface/http"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
)

// UserModule serves user administration and the caller's own profile.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(r Routes) {
	users := r.Protected().Group("/users")
	{
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.POST("", m.Handler.Create)
		users.PATCH("/:id/role", m.Handler.ChangeRole)
		users.PATCH("/:id/active", m.Handler.SetActive)
	}

	uploadLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserIDAndPath(), nil)
	r.Protected().PUT("/profile", m.Handler.UpdateProfile)
	r.Protected().POST("/profile/avatar", uploadLimiter, m.Handler.UploadAvatar)
}
