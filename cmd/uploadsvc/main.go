package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/api/router"
	config "github.com/mlukasik/swift-registry/internal/configuration"
	"github.com/mlukasik/swift-registry/internal/logging"
	"github.com/mlukasik/swift-registry/internal/upload/client"
	uploadhandler "github.com/mlukasik/swift-registry/internal/upload/handler"
	"github.com/mlukasik/swift-registry/internal/upload/tracker"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
	}

	store := tracker.NewStore(cfg.Upload.MaxTasks)
	api := client.New(cfg.Upload.APIURL, cfg.Upload.APITimeout, logger)

	handler := uploadhandler.NewUploadHandler(store, api, cfg.Upload.Dir, logger)
	app := router.NewUploadApp(handler, logger)

	go func() {
		logger.Info("starting upload server",
			zap.String("addr", cfg.Server.UploadAddr),
			zap.String("api_url", cfg.Upload.APIURL))
		if err := app.Listen(cfg.Server.UploadAddr); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
