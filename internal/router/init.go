package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/application"
	"github.com/oksasatya/factory-erp/internal/container"
	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/internal/infrastructure/search"
	"github.com/oksasatya/factory-erp/internal/infrastructure/storage"
	handlers "github.com/oksasatya/factory-erp/internal/interface/http"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
	"github.com/oksasatya/factory-erp/internal/router/modules"
	"github.com/oksasatya/factory-erp/pkg/validation"
)

// InitModules wires repositories, services and handlers from the container
// and adds every module to the registry.
func InitModules(reg *Registry, c *container.Container) {
	cfg := c.Config
	db := c.DB.DB

	userRepo := persistence.NewUserRepository(db)
	tokens := application.NewTokenService(c.JWT, persistence.NewRefreshTokenRepository(db))
	authSvc := application.NewAuthService(userRepo, tokens, c.Jobs(), c.Branding(), c.Logger)
	userSvc := &application.UserService{
		Users:    userRepo,
		Tokens:   tokens,
		Search:   search.NewUserIndex(c.ES, cfg.ESUsersIndex),
		Avatars:  storage.NewAvatarStore(c.GCS, cfg.GCSBucket),
		Jobs:     c.Jobs(),
		Branding: c.Branding(),
		Logger:   c.Logger,
	}
	truckSvc := &application.TruckService{Trucks: persistence.NewTruckRepository(db), Logger: c.Logger}

	reg.Guard(
		middleware.Auth(authSvc),
		middleware.Gate(c.Policy, c.Logger),
		middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(c.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)

	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger, cfg.CookieDomain, cfg.CookieSecure), c.Redis))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, c.Logger), c.Redis))
	reg.Add(modules.NewRoleModule(handlers.NewRoleHandler(c.Policy)))
	reg.Add(modules.NewTruckModule(handlers.NewTruckHandler(truckSvc)))
	reg.Add(modules.NewDebugModule(c.DB, c.Redis, cfg.DebugMetricsEnabled))
}

// New builds the HTTP engine with global middleware and all modules.
// Protected routes without a permission mapping are logged, or rejected
// when RBAC_STRICT_ROUTES is set.
func New(c *container.Container) (*gin.Engine, error) {
	validation.Init(entity.RoleNames())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorLogger(c.Logger))
	r.Use(middleware.RealIP())
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.HTTPLogger(c.Logger))
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()

	unmapped := c.Policy.Unmapped(reg.ProtectedRoutes())
	for _, k := range unmapped {
		c.Logger.WithField("route", k.String()).Warn("protected route has no permission mapping; any authenticated role may call it")
	}
	if c.Config.RBACStrictRoutes && len(unmapped) > 0 {
		return nil, fmt.Errorf("%d protected routes have no permission mapping, first: %s", len(unmapped), unmapped[0])
	}
	return r, nil
}
