package app

import (
	"context"
	"net/http"

	"go-payrun/internal/config"
	"go-payrun/internal/disbursement"
	"go-payrun/internal/draft"
	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/middleware"
	"go-payrun/internal/rbac"
	"go-payrun/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, migrates the local tables and registers
// every route. The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L()

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	// 2. Local schema
	migrations := []func() error{
		func() error { return disbursement.AutoMigrate(gormDB) },
		func() error { return rbac.AutoMigrate(gormDB) },
		func() error { return kafka.EnsureOutboxSchema(context.Background(), sqlDB) },
	}
	if cfg.Draft.Store == config.DraftStorePostgres {
		migrations = append(migrations, func() error { return draft.AutoMigrate(gormDB) })
	}
	for _, migrate := range migrations {
		if err := migrate(); err != nil {
			cleanup()
			return nil, err
		}
	}

	// 3. Register Modules & Routes
	router.Use(middleware.RequestID())
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}
