package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/internal/classifier"
	"github.com/fasalrakshak/backend/internal/config"
	"github.com/fasalrakshak/backend/internal/handler"
	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/internal/llm/gemini"
	"github.com/fasalrakshak/backend/internal/llm/openai"
	"github.com/fasalrakshak/backend/internal/middleware"
	"github.com/fasalrakshak/backend/internal/pdf"
	"github.com/fasalrakshak/backend/internal/repository"
	"github.com/fasalrakshak/backend/internal/service"
	"github.com/fasalrakshak/backend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	// Generation engine
	var engine llm.Engine
	switch cfg.LLM.Provider {
	case "openai":
		engine, err = openai.New(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, logger)
	default:
		var geminiEngine *gemini.Engine
		geminiEngine, err = gemini.New(ctx, cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model, logger)
		if err == nil {
			defer geminiEngine.Close()
		}
		engine = geminiEngine
	}
	if err != nil {
		logger.Fatal("failed to initialize generation engine", zap.Error(err))
	}

	classifierClient, err := classifier.NewClient(cfg.Classifier.BaseURL, cfg.Classifier.Timeout, logger)
	if err != nil {
		logger.Fatal("failed to initialize classifier client", zap.Error(err))
	}

	var blobClient storage.BlobStorage
	if cfg.ArchivalEnabled() {
		blobClient, err = storage.NewBlobStorageClient(
			cfg.Azure.Storage.AccountName,
			cfg.Azure.Storage.AccountKey,
			cfg.Azure.Storage.ReportContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to initialize blob storage client", zap.Error(err))
		}
		logger.Info("report archival enabled",
			zap.String("container", cfg.Azure.Storage.ReportContainer),
		)
	}

	// Repositories
	usageRepo := repository.NewUsageRepository(pool, logger)
	chatRepo := repository.NewChatRepository(pool, logger)
	scanRepo := repository.NewScanRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	// Services
	var responder service.ChatResponder
	if cfg.Chat.Responder == "keyword" {
		responder = service.NewKeywordResponder()
	} else {
		responder = service.NewLLMResponder(engine)
	}

	chatService := service.NewChatService(responder, usageRepo, chatRepo, cfg.Chat.ImageLimit, logger)
	scanService := service.NewScanService(classifierClient, scanRepo, logger)
	profileService := service.NewProfileService(profileRepo, logger)
	enrichmentService := service.NewEnrichmentService(engine, cfg.Enrichment.Timeout, logger)

	pdfGenerator, err := pdf.NewGenerator(pdf.Assets{
		LogoPath:           filepath.Join(cfg.Report.AssetsDir, cfg.Report.LogoFile),
		DevanagariFontPath: filepath.Join(cfg.Report.AssetsDir, cfg.Report.DevanagariFontFile),
	}, cfg.Report.SiteURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize report generator", zap.Error(err))
	}

	reportService := service.NewReportService(pdfGenerator, blobClient, logger)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, logger)
	scanHandler := handler.NewScanHandler(scanService, logger)
	reportHandler := handler.NewReportHandler(enrichmentService, reportService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogging(logger))
	router.Use(middleware.ErrorLogging(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthHandler.Check)
	router.POST("/predict", scanHandler.Predict)

	api := router.Group("/api")
	{
		api.POST("/chat/gemini", chatHandler.Chat)
		api.POST("/chat/image-count", chatHandler.ImageCount)
		api.GET("/chat/history", chatHandler.History)

		api.POST("/scans", scanHandler.Record)
		api.GET("/scans", scanHandler.History)

		api.POST("/disease-report", reportHandler.DiseaseReport)
		api.POST("/reports/generate", reportHandler.Generate)
		api.GET("/reports/:id", reportHandler.Download)

		api.POST("/profile", profileHandler.Save)
		api.GET("/profile", profileHandler.Get)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
