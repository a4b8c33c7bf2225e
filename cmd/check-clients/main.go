// Command check-clients verifies connectivity to the external services the
// backend depends on: the ML classifier, the generation engine, and blob
// storage. Run it after changing credentials or endpoints.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/internal/classifier"
	"github.com/fasalrakshak/backend/internal/config"
	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/internal/llm/gemini"
	"github.com/fasalrakshak/backend/internal/llm/openai"
	"github.com/fasalrakshak/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failed := false

	failed = !checkEngine(ctx, cfg, logger) || failed
	failed = !checkClassifier(ctx, cfg, logger) || failed
	failed = !checkBlobStorage(ctx, cfg, logger) || failed

	if failed {
		logger.Fatal("one or more client checks failed")
	}

	logger.Info("all client checks passed")
}

func checkEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) bool {
	var engine llm.Engine
	var err error

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
		logger.Error("generation engine initialization failed", zap.Error(err))
		return false
	}

	reply, err := engine.GenerateText(ctx, "Reply with the single word: ready")
	if err != nil {
		logger.Error("generation engine check failed", zap.Error(err))
		return false
	}

	logger.Info("generation engine check passed",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("reply", reply),
	)
	return true
}

func checkClassifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) bool {
	client, err := classifier.NewClient(cfg.Classifier.BaseURL, cfg.Classifier.Timeout, logger)
	if err != nil {
		logger.Error("classifier client initialization failed", zap.Error(err))
		return false
	}

	// An empty upload is enough to prove the service answers; a 4xx from the
	// classifier still means it is reachable.
	_, err = client.Predict(ctx, "probe.jpg", bytes.NewReader(nil))
	if err != nil {
		logger.Warn("classifier probe returned an error (service may still be reachable)",
			zap.Error(err),
			zap.String("base_url", cfg.Classifier.BaseURL),
		)
		return true
	}

	logger.Info("classifier check passed", zap.String("base_url", cfg.Classifier.BaseURL))
	return true
}

func checkBlobStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) bool {
	if !cfg.ArchivalEnabled() {
		logger.Info("blob storage not configured, skipping check")
		return true
	}

	client, err := storage.NewBlobStorageClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.ReportContainer,
		logger,
	)
	if err != nil {
		logger.Error("blob storage client initialization failed", zap.Error(err))
		return false
	}

	probe := []byte("connectivity probe " + time.Now().UTC().Format(time.RFC3339))
	if _, err := client.UploadReport(ctx, "connectivity-probe.txt", probe); err != nil {
		logger.Error("blob storage upload check failed", zap.Error(err))
		return false
	}

	if _, err := client.DownloadReport(ctx, "reports/connectivity-probe.txt"); err != nil {
		logger.Error("blob storage download check failed", zap.Error(err))
		return false
	}

	logger.Info("blob storage check passed",
		zap.String("container", cfg.Azure.Storage.ReportContainer),
	)
	return true
}
