package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/youchat/ytanalyzer/internal/api"
	"github.com/youchat/ytanalyzer/internal/api/handler"
	"github.com/youchat/ytanalyzer/internal/config"
	"github.com/youchat/ytanalyzer/internal/downloader"
	"github.com/youchat/ytanalyzer/internal/repository"
	"github.com/youchat/ytanalyzer/internal/service"
	"github.com/youchat/ytanalyzer/internal/worker"
	"github.com/youchat/ytanalyzer/pkg/gemini"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ytanalyzer %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := newLogger(slog.LevelInfo)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Log.SlogLevel()
	logger = newLogger(level)

	logger.Info("starting ytanalyzer",
		"version", Version,
		"build_time", BuildTime,
		"model", cfg.Gemini.Model,
		"cache_model", cfg.Gemini.CacheModel,
	)

	tempDir := cfg.Storage.TempDir()
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		logger.Error("failed to create temp directory", "path", tempDir, "error", err)
		os.Exit(1)
	}

	// The provider client is created once and shared by every request and task.
	geminiClient, err := gemini.NewClient(context.Background(), cfg.Gemini)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	dl := downloader.NewYTDLPDownloader(cfg.Download)
	dl.SetLogger(logger)

	taskRepo := repository.NewInMemoryTaskRepository()
	pool := worker.NewPool(logger)

	// Initialize services
	analysisSvc := service.NewAnalysisService(geminiClient, cfg.Gemini, logger)
	cacheSvc := service.NewCacheService(
		geminiClient,
		dl,
		taskRepo,
		pool,
		cfg.Gemini,
		cfg.Download,
		cfg.Storage,
		logger,
	)

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(analysisSvc, logger)
	cacheHandler := handler.NewCacheHandler(cacheSvc, logger)
	healthHandler := handler.NewHealthHandler(taskRepo, tempDir)

	// Setup router
	router := api.NewRouter(cfg.Server, analyzeHandler, cacheHandler, healthHandler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server",
			"addr", srv.Addr,
			"allowed_origins", cfg.Server.AllowedOrigins,
		)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// In-flight cache tasks are cancelled and still remove their temp files.
	if err := pool.Stop(cfg.Worker.ShutdownTimeout); err != nil {
		logger.Error("worker pool shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
