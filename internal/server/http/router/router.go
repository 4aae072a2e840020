package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/server/http/handlers"
	"github.com/polkiloo/procurement/internal/server/http/middleware"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type routerParams struct {
	fx.In

	Facade  handlers.ProcurementFacade
	Logger  *zap.Logger
	Metrics http.Handler `name:"metrics"`
	Health  HealthChecker
}

// Setup configures gin router with handlers and middleware.
func Setup(p routerParams) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger.Named("http")))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/healthz", health(p.Health))
	engine.GET("/metrics", gin.WrapH(p.Metrics))

	authHandler := handlers.NewAuthHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	budgetHandler := handlers.NewBudgetHandler(p.Facade)
	notificationHandler := handlers.NewNotificationHandler(p.Facade)

	api := engine.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(p.Facade))
	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PUT("/orders/:id", orderHandler.Update)
	authed.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	authed.DELETE("/orders/:id", orderHandler.Delete)
	authed.GET("/budget-codes/:id/balance", budgetHandler.Balance)
	authed.GET("/notifications", notificationHandler.List)

	return engine
}

func health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := checker.HealthCheck(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
