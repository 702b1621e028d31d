package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apihandler "github.com/mlukasik/swift-registry/internal/api/handler"
	"github.com/mlukasik/swift-registry/internal/api/router"
	config "github.com/mlukasik/swift-registry/internal/configuration"
	"github.com/mlukasik/swift-registry/internal/database"
	"github.com/mlukasik/swift-registry/internal/ingest"
	"github.com/mlukasik/swift-registry/internal/logging"
	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
	"github.com/mlukasik/swift-registry/internal/service"
)

// loadSwiftCodesFromFile bulk-loads SWIFT codes from a CSV file.
func loadSwiftCodesFromFile(ctx context.Context, filePath string, repo repository.SwiftRepository, logger *zap.Logger) (int, error) {
	start := time.Now()

	records, err := ingest.ParseFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to parse SWIFT data: %w", err)
	}

	batch := make([]*model.SwiftRecord, len(records))
	for i := range records {
		batch[i] = &records[i]
	}

	if err := repo.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}

	logger.Info("bulk load finished",
		zap.Int("records", len(batch)),
		zap.Duration("duration", time.Since(start)))
	return len(batch), nil
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path to SWIFT codes CSV file to load")
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

	// The load flag overrides the configured data file and forces a load.
	if *loadFile != "" {
		cfg.Data.SwiftCodesFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewSQLSwiftRepository(db)
	swiftService := service.NewSwiftService(repo)

	if cfg.Data.AutoLoad && cfg.Data.SwiftCodesFile != "" {
		logger.Info("loading SWIFT codes", zap.String("file", cfg.Data.SwiftCodesFile))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		count, err := loadSwiftCodesFromFile(ctx, cfg.Data.SwiftCodesFile, repo, logger)
		cancel()
		if err != nil {
			logger.Warn("failed to load SWIFT codes", zap.Error(err))
		} else {
			logger.Info("SWIFT codes loaded", zap.Int("count", count))
		}
	}

	swiftHandler := apihandler.NewSwiftHandler(swiftService, logger)
	app := router.NewSwiftAPIApp(swiftHandler, logger)

	go func() {
		logger.Info("starting API server", zap.String("addr", cfg.Server.APIAddr))
		if err := app.Listen(cfg.Server.APIAddr); err != nil {
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
