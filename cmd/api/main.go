package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nutrichef/internal/api"
	"nutrichef/internal/catalog"
	"nutrichef/internal/config"
	"nutrichef/internal/ingest"
	"nutrichef/internal/platform/mealdb"
	"nutrichef/internal/platform/translate"
	"nutrichef/internal/recipe"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := recipe.Connect(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := recipe.NewStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	translator, err := translate.New(translate.Options{
		Provider:   cfg.Translate.Provider,
		Endpoint:   cfg.Translate.Endpoint,
		APIKey:     cfg.Translate.APIKey,
		SourceLang: cfg.Translate.SourceLang,
		TargetLang: cfg.Translate.TargetLang,
		Timeout:    cfg.Translate.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to build translator", zap.Error(err))
	}

	source := mealdb.NewClient(cfg.MealDB.BaseURL, cfg.MealDB.Timeout)
	resolver := catalog.NewResolver(db, catalog.NewCache(), logger)

	var thumbs ingest.ThumbSaver
	if cfg.Import.SaveThumbs {
		thumbs = ingest.NewThumbFetcher(cfg.Import.ImageDir, cfg.Import.ImageTimeout)
	}

	importer := ingest.NewImporter(source, translator, resolver, recipe.NewWriter(db), thumbs, ingest.Defaults{
		Servings:        cfg.Import.Servings,
		Cost:            cfg.Import.Cost,
		DifficultyID:    cfg.Import.DifficultyID,
		PrepTimeMinutes: cfg.Import.PrepTimeMinutes,
	}, logger)
	batch := ingest.NewBatch(importer, logger)

	handler := api.NewHandler(importer, batch, store, cfg.Import.BatchSize, logger)
	router := api.NewRouter(handler, cfg.Server.AllowOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
