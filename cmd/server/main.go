/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the staff scheduler server: configuration, logger,
  SQLite store, orchestration gateway, chat assistant, HTTP router, and
  graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env + optional config.yaml)
  2. Build the zap logger
  3. Open the SQLite store (migrates on open)
  4. Optionally seed the demo scenario (-seed)
  5. Wire pipeline, gateway, assistant, handlers
  6. Serve with graceful shutdown on SIGINT/SIGTERM

FLAGS:
  -seed    Load the demo staff/projects on startup

CONFIGURATION (environment):
  PORT, DB_PATH, ORCHESTRATOR_URL, ORCHESTRATOR_TIMEOUT, GEMINI_API_KEY,
  DEFAULT_RATE, GRADE_RATES, ENV

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hathim-t-ai/StaffScheduler-sub001/api"
	"github.com/hathim-t-ai/StaffScheduler-sub001/assistant"
	"github.com/hathim-t-ai/StaffScheduler-sub001/config"
	"github.com/hathim-t-ai/StaffScheduler-sub001/orchestrator"
	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
	"github.com/hathim-t-ai/StaffScheduler-sub001/store/sqlite"
)

func main() {
	seed := flag.Bool("seed", false, "load the demo scenario on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if *seed {
		if err := api.SeedDemo(ctx, store); err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
		log.Info("demo scenario seeded")
	}

	pipeline := scheduling.NewPipeline(store, log)
	aggregator := scheduling.NewAggregator(store, cfg.Rates)
	gateway := orchestrator.New(cfg.OrchestratorURL, cfg.OrchestratorTimeout, pipeline, log)

	var oracle assistant.Oracle
	if cfg.GeminiAPIKey != "" {
		oracle, err = assistant.NewGeminiOracle(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal("failed to create LLM client", zap.Error(err))
		}
	} else {
		log.Warn("GEMINI_API_KEY not set; open-ended questions are disabled")
	}
	chat := assistant.New(store, aggregator, pipeline, oracle, log)

	handler := api.NewHandler(store, gateway, chat, aggregator, log)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("db", cfg.DBPath),
			zap.String("orchestrator", cfg.OrchestratorURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-done
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
