package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Victor-armando18/payload-mapper/internal/config"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/logger"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
	mapper "github.com/Victor-armando18/payload-mapper/pkg/engine"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const configEnv = "PAYLOAD_MAPPER_CONFIG"

func main() {
	cfg, err := config.Load(os.Getenv(configEnv))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	appLogger, sync, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = sync() }()

	svc := mapper.NewService(mapper.Options{
		MappingsDir:           cfg.Data.MappingsDir,
		InvoicingItemsPath:    cfg.Data.InvoicingItemsPath,
		MetadataVariablesPath: cfg.Data.MetadataVariablesPath,
		GuardsPath:            cfg.Data.GuardsPath,
		Logger:                appLogger,
	})
	e := newServer(cfg, svc, appLogger)

	serverErr := make(chan error, 1)
	go func() {
		appLogger.WithFields(map[string]any{"address": cfg.Address(), "env": cfg.App.Env}).Info("Starting payload mapper")
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		appLogger.Info("Received shutdown signal")
	case err := <-serverErr:
		appLogger.WithError(err).Error("HTTP server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("HTTP server shutdown error")
	}
}

func newServer(cfg *config.Config, svc interfaces.EngineFacade, appLogger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(appLogger)

	e.Use(requestContext())
	e.Use(requestLogger(appLogger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	h := &handlers{svc: svc, strict: cfg.HTTP.StrictMode, now: time.Now}
	h.register(e)
	return e
}
