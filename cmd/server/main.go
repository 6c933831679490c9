package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepvoice/interview/internal/analysis"
	"prepvoice/interview/internal/config"
	"prepvoice/interview/internal/handlers"
	"prepvoice/interview/internal/interview"
	"prepvoice/interview/internal/jobs"
	"prepvoice/interview/internal/llm"
	_ "prepvoice/interview/internal/llm/gemini"
	"prepvoice/interview/internal/metrics"
	"prepvoice/interview/internal/models"
	"prepvoice/interview/internal/prompts"
	"prepvoice/interview/internal/report"
	"prepvoice/interview/internal/repositories"
	"prepvoice/interview/internal/routers"
	"prepvoice/interview/internal/transcription"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, healthHandler *handlers.HealthHandler, jwtSecret string) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, jwtSecret)
}

// Helper function for environment variables
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.InterviewSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("upload_dir", cfg.UploadDir))

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	// interviewer prompts
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// responder provider based on configuration
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize responder provider", zap.Error(err))
	}

	// speech-to-text
	transcriberConfig, err := transcription.NewGeminiConfig()
	if err != nil {
		logger.Fatal("Failed to configure transcriber", zap.Error(err))
	}
	transcriber, err := transcription.NewGeminiTranscriber(transcriberConfig)
	if err != nil {
		logger.Fatal("Failed to initialize transcriber", zap.Error(err))
	}

	// report analysis adapters
	embedderConfig, err := analysis.NewEmbedderConfig()
	if err != nil {
		logger.Fatal("Failed to configure embedder", zap.Error(err))
	}
	relevanceScorer, err := analysis.NewEmbeddingRelevanceScorer(analysis.NewGeminiEmbedder(embedderConfig))
	if err != nil {
		logger.Fatal("Failed to initialize relevance scorer", zap.Error(err))
	}
	aggregator := report.NewAggregator(
		analysis.NewWavToneScorer(),
		analysis.NewLanguageToolScorer(analysis.NewLanguageToolConfig()),
		relevanceScorer,
		cfg.AnalysisTimeout,
		logger,
	)

	// session storage
	db, err := initDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	sessionRepo := repositories.NewSessionRepository(db)

	engine := interview.NewTurnEngine(provider, cfg.ResponderTimeout, logger)
	service := interview.NewService(sessionRepo, engine, transcriber, aggregator, promptManager, cfg.TranscriptionTimeout, logger)

	interviewHandler := handlers.NewInterviewHandler(service, cfg.UploadDir, logger)
	healthHandler := handlers.NewHealthHandler(provider, promptManager, cfg)

	// stale session cleanup
	cleanupJob := jobs.NewSessionCleanupJob(sessionRepo, &jobs.CleanupConfig{
		Schedule:  cfg.CleanupSchedule,
		TTL:       cfg.SessionTTL,
		UploadDir: cfg.UploadDir,
		Enabled:   cfg.CleanupEnabled,
	})
	if err := cleanupJob.Start(); err != nil {
		logger.Error("Failed to start session cleanup job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(120*time.Second))
	router.Use(metrics.Middleware("interview"))

	registerRoutes(router, interviewHandler, healthHandler, cfg.JWTSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// http server with timeouts; uploads can take a while on slow links
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	cleanupJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
