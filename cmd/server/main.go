package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ming-ming2/finpick-backend/internal/catalog"
	"github.com/ming-ming2/finpick-backend/internal/config"
	"github.com/ming-ming2/finpick-backend/internal/llm"
	"github.com/ming-ming2/finpick-backend/internal/logging"
	"github.com/ming-ming2/finpick-backend/internal/recommend"
	"github.com/ming-ming2/finpick-backend/internal/search"
	"github.com/ming-ming2/finpick-backend/internal/server"
	"github.com/ming-ming2/finpick-backend/internal/simulation"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	source, err := buildCatalogSource(ctx, cfg)
	if err != nil {
		logger.Error("failed to create catalog source", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := source.Close(context.Background()); err != nil {
			logger.Warn("closing catalog source failed", "error", err)
		}
	}()

	cat, err := catalog.New(ctx, source, logger)
	if err != nil {
		logger.Error("failed to load product catalog", "error", err)
		os.Exit(1)
	}

	searchEngine, err := search.NewEngine(cat.All(), logger)
	if err != nil {
		logger.Error("failed to build search index", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := searchEngine.Close(); err != nil {
			logger.Warn("closing search index failed", "error", err)
		}
	}()

	llmClient := buildLLMClient(cfg, logger)
	recommendService := recommend.NewService(cat, llmClient, logger)
	simulationService := simulation.NewService(logger, llmClient)

	apiHandlers := server.NewAPIHandlers(logger, recommendService, simulationService, cat, searchEngine)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.CatalogHealthService{Catalog: cat},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildCatalogSource(ctx context.Context, cfg config.Config) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case "neo4j":
		return catalog.NewNeo4jSource(ctx, cfg.Catalog)
	default:
		return catalog.NewFileSource(cfg.Catalog.Path)
	}
}

func buildLLMClient(cfg config.Config, logger *slog.Logger) *llm.OpenAIClient {
	if cfg.LLM.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, recommendations will use keyword fallbacks")
	}
	return llm.NewOpenAIClient(cfg.LLM, logger)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
