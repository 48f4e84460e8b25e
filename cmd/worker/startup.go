package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-checkout/pkg/container"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

func startServices(c *container.Container) error {
	log.Info().Msg("============================================")
	log.Info().Msg("🚀 Storefront Worker Starting...")
	log.Info().Msg("============================================")

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(c.Config.Worker.HealthCheckAddr, checker)
	return nil
}

func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"Redis Connection", h.checkRedis},
		{"PostgreSQL", h.checkDatabase},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			log.Error().Err(err).Msgf("❌ %s", check.name)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Msgf("✓ %s: OK", check.name)
	}
	return nil
}

func (h *HealthChecker) checkRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.c.Redis.Ping(ctx).Err()
}

func (h *HealthChecker) checkDatabase() error {
	return h.c.DB.HealthCheck(context.Background())
}

func startHealthCheckServer(addr string, checker *HealthChecker) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "storefront-worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		if err := checker.checkAll(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
