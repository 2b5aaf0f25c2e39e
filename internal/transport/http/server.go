package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	appsvc "geocatch/internal/app"
	"geocatch/internal/bootstrap"
	"geocatch/internal/cache"
	"geocatch/internal/platform/rabbitmq"
	"geocatch/internal/repository"
	"geocatch/internal/transport/http/handler"
	"geocatch/internal/transport/http/middleware"
)

// Services is everything the API routes need.
type Services struct {
	Accounts  *appsvc.AccountService
	Caches    *appsvc.CacheService
	JWTSecret string
	Health    *handler.HealthHandler
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)

	userRepo := repository.NewUserRepository(app.MySQL)
	cacheRepo := repository.NewCacheRepository(app.MySQL)
	eventRepo := repository.NewCacheEventRepository(app.MySQL)
	listing := cache.NewListingCache(app.Redis, app.Config.ListingTTL())
	publisher := rabbitmq.NewCacheEventPublisher(app.MQConn, app.Config.RabbitMQ.CacheEventQueue)

	return NewEngine(Services{
		Accounts:  appsvc.NewAccountService(userRepo, app.Config.Auth.JWTSecret, app.Config.TokenTTL()),
		Caches:    appsvc.NewCacheService(cacheRepo, eventRepo, publisher, listing),
		JWTSecret: app.Config.Auth.JWTSecret,
		Health: handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, map[string]handler.DependencyCheck{
			"mysql": func(ctx context.Context) error {
				sqlDB, err := app.MySQL.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return app.Redis.Ping(ctx).Err()
			},
			"rabbitmq": func(context.Context) error {
				if app.MQConn == nil || app.MQConn.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			},
		}),
	})
}

func NewEngine(svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if svc.Health != nil {
		router.GET("/healthz", svc.Health.Check)
	}

	userHandler := handler.NewUserHandler(svc.Accounts)
	cacheHandler := handler.NewCacheHandler(svc.Caches)
	auth := middleware.AuthJWT(svc.JWTSecret)

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("", userHandler.Register)
	users.POST("/authenticate", userHandler.Authenticate)
	users.POST("/logout", auth, userHandler.Logout)
	users.PUT("/:id", auth, userHandler.UpdateProfile)

	caches := api.Group("/caches")
	caches.Use(auth)
	caches.POST("", cacheHandler.Create)
	caches.GET("", cacheHandler.List)
	caches.GET("/:id", cacheHandler.Get)
	caches.GET("/:id/events", cacheHandler.History)
	caches.PUT("/:id", cacheHandler.Update)
	caches.DELETE("/:id", cacheHandler.Delete)

	return router
}
