package main

import (
	"go-payrun/internal/app"
	"go-payrun/internal/bootstrap"
	"go-payrun/internal/config"
	"go-payrun/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.App)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	if err := bootstrap.StartHTTPServer(r, bootstrap.DefaultServerConfig(cfg.App.Port), bootstrap.NewStdoutAuditLogger()); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.Env == "production" {
		zc := zap.NewProductionConfig()
		if err := zc.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
		return zc.Build()
	}
	return zap.NewDevelopment()
}
