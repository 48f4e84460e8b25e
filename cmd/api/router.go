package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/shared/middleware"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		storefront := v1.Group("",
			middleware.SessionMiddleware(c.SessionCookie()),
			middleware.OptionalAuthMiddleware(c.JWTManager),
		)
		c.CheckoutHandler.RegisterRoutes(storefront, c.SubmitLimiter.Middleware())
	}

	return router
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "UP", "redis": "UP"}
		healthy := true

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status["database"] = "DOWN"
			healthy = false
		}
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			status["redis"] = "DOWN"
			healthy = false
		}

		if !healthy {
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "UNHEALTHY", "service unhealthy", status)
			return
		}
		response.Success(ctx, http.StatusOK, status)
	}
}
